package translist

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// OpType identifies the kind of a single step inside a transaction
// descriptor.
type OpType uint8

const (
	Find OpType = iota
	Insert
	Delete
)

func (t OpType) String() string {
	switch t {
	case Find:
		return "find"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("OpType(%d)", uint8(t))
	}
}

// Status is a descriptor's terminal/live state. Transitions are monotonic
// and terminal: Live -> Committed or Live -> Aborted, never the reverse,
// and never out of a terminal state once reached.
type Status uint32

const (
	Live Status = iota
	Committed
	Aborted
)

func (s Status) String() string {
	switch s {
	case Live:
		return "live"
	case Committed:
		return "committed"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("Status(%d)", uint32(s))
	}
}

// Operator is one {find|insert|delete}(key) step in a descriptor. Key must
// not equal the list's sentinel values (0 or math.MaxUint32); the kernels
// do not re-check this per call, matching the source algorithm.
type Operator struct {
	Type OpType
	Key  uint32
}

// MaxOps bounds the number of operations a single descriptor can carry.
// The original represents ops as a C flexible array member sized at
// AllocateDesc time; Go's Pool pre-reserves fixed-size Desc records, so
// descriptors instead carry a fixed-capacity ops array and a size telling
// the engine how much of it is live. Raise this if a workload genuinely
// needs wider transactions.
const MaxOps = 8

// Desc is a single transaction: a fixed-size vector of ops plus the status
// that decides, once terminal, whether all of them took effect or none
// did. AllocateDesc returns a Desc with writable ops; after ExecuteOps is
// called the ops array and size are immutable — SetOp enforces this rather
// than leaving it to caller discipline, per spec §9's "enforce
// structurally" guidance.
type Desc struct {
	ID        uuid.UUID
	size      uint8
	status    atomic.Uint32
	submitted atomic.Bool
	ops       [MaxOps]Operator
}

func (d *Desc) reset(size uint8) {
	d.ID = uuid.New()
	d.size = size
	d.status.Store(uint32(Live))
	d.submitted.Store(false)
	for i := uint8(0); i < size; i++ {
		d.ops[i] = Operator{}
	}
}

// Size reports how many ops this descriptor carries.
func (d *Desc) Size() uint8 { return d.size }

// Status returns the descriptor's current status with acquire semantics:
// observing a terminal status here implies observing every node state the
// commit or abort left behind.
func (d *Desc) Status() Status { return Status(d.status.Load()) }

func (d *Desc) compareAndSwapStatus(old, new Status) bool {
	if old != Live || new == Live {
		return false
	}
	return d.status.CompareAndSwap(uint32(old), uint32(new))
}

// SetOp fills in op index i before submission. It returns
// ErrDescriptorSubmitted once the descriptor has been passed to
// ExecuteOps, and ErrOpIndexRange for i outside [0, Size()).
func (d *Desc) SetOp(i int, typ OpType, key uint32) error {
	if d.submitted.Load() {
		return ErrDescriptorSubmitted
	}
	if i < 0 || i >= int(d.size) {
		return fmt.Errorf("%w: index %d, size %d", ErrOpIndexRange, i, d.size)
	}
	d.ops[i] = Operator{Type: typ, Key: key}
	return nil
}

// Op returns a copy of op index i. It is always safe to call, including
// after submission.
func (d *Desc) Op(i int) Operator { return d.ops[i] }

func (d *Desc) submit() { d.submitted.Store(true) }
