package translist

import "fmt"

// maxHelpDepth bounds how deep a chain of mutually-helping descriptors can
// run before it is treated as a bug rather than a long-but-finite help
// chain. Real help chains are short in practice (per spec §9); this exists
// to turn a runaway recursion into a clear panic instead of a stack
// overflow.
const maxHelpDepth = 256

// helpStack is the C original's "__thread HelpStack" translated into an
// explicit value. The recursion it tracks (ExecuteOps -> helpOps ->
// kernel -> finishPendingTxn -> helpOps -> ...) never leaves the calling
// goroutine, so there is nothing to protect here that a goroutine-local
// value passed down the call chain doesn't already give us — no global,
// no registration step, and no risk of two goroutines sharing a stack by
// accident.
type helpStack struct {
	frames [maxHelpDepth]*Desc
	depth  int
}

// contains reports whether desc is already being helped somewhere up this
// call chain — the cyclic-dependency signal that causes helpOps to abort
// desc outright instead of helping it.
func (h *helpStack) contains(desc *Desc) bool {
	for i := 0; i < h.depth; i++ {
		if h.frames[i] == desc {
			return true
		}
	}
	return false
}

func (h *helpStack) push(desc *Desc) {
	if h.depth >= len(h.frames) {
		panic(fmt.Sprintf("translist: help stack depth exceeded %d", maxHelpDepth))
	}
	h.frames[h.depth] = desc
	h.depth++
}

func (h *helpStack) pop() {
	h.depth--
	h.frames[h.depth] = nil
}
