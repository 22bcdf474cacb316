package translist

import "errors"

// ErrPoolExhausted is returned by Pool.alloc once every pre-reserved slot
// has been handed out. The pools are sized once, by NewPool, and
// never shrink or recycle, so exhaustion always means the host
// under-provisioned capacity for its workload — a configuration error, not
// a transient condition worth retrying.
var ErrPoolExhausted = errors.New("translist: allocator pool exhausted")

// ErrInvalidOpCount is returned by AllocateDesc when size is zero or
// exceeds MaxOps.
var ErrInvalidOpCount = errors.New("translist: descriptor op count must be in [1, MaxOps]")

// ErrDescriptorSubmitted is returned by Desc.SetOp once the descriptor has
// been handed to ExecuteOps. The ops array and size are immutable from that
// point on; SetOp enforces it rather than leaving it to convention.
var ErrDescriptorSubmitted = errors.New("translist: descriptor already submitted")

// ErrOpIndexRange is returned by Desc.SetOp for an out-of-range index.
var ErrOpIndexRange = errors.New("translist: op index out of range")
