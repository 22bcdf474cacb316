package translist

import "sync/atomic"

// markedPtr pairs a pointer with a one-bit flag that moves atomically with
// it. The original algorithm steals the low bit of a raw pointer for this;
// Go cannot do that safely (the garbage collector must be able to treat
// every word in a pointer-shaped field as a real pointer or a real nil, not
// a tagged integer), so the flag is carried alongside the pointer in a
// small comparable struct instead. The pair still CASes as a unit.
type markedPtr[T any] struct {
	ptr    *T
	marked bool
}

// atomicMarkedPtr is an atomic.Value specialized to hold a markedPtr[T].
// atomic.Value requires every Store to use the same concrete type and
// panics on first use if that type isn't already fixed, so the zero value
// must never be read before some goroutine has Stored a real markedPtr[T]
// into it.
type atomicMarkedPtr[T any] struct {
	v atomic.Value
}

func newAtomicMarkedPtr[T any](initial markedPtr[T]) atomicMarkedPtr[T] {
	var a atomicMarkedPtr[T]
	a.v.Store(initial)
	return a
}

func (a *atomicMarkedPtr[T]) init(initial markedPtr[T]) {
	a.v.Store(initial)
}

func (a *atomicMarkedPtr[T]) Load() markedPtr[T] {
	return a.v.Load().(markedPtr[T])
}

func (a *atomicMarkedPtr[T]) Store(val markedPtr[T]) {
	a.v.Store(val)
}

func (a *atomicMarkedPtr[T]) CompareAndSwap(old, new markedPtr[T]) bool {
	return a.v.CompareAndSwap(old, new)
}

// withMark returns a copy of p with the mark bit forced to marked.
func withMark[T any](p markedPtr[T], marked bool) markedPtr[T] {
	p.marked = marked
	return p
}
