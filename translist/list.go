package translist

import "fmt"

// List is a lock-free transactional linked-list set. The zero value is not
// usable; construct one with New.
type List struct {
	head *Node
	tail *Node

	nodes     *Pool[Node]
	descs     *Pool[Desc]
	nodeDescs *Pool[NodeDesc]

	metrics *Metrics
}

// New builds an empty List backed by the given pools. The pools' lifetime
// must exceed all concurrent activity on the returned List (see doc.go).
// The pools are shared by every goroutine calling ExecuteOps; there is no
// per-goroutine registration.
func New(nodes *Pool[Node], descs *Pool[Desc], nodeDescs *Pool[NodeDesc]) *List {
	tail := newSentinel(posInf)
	head := newSentinel(negInf)
	head.next.init(markedPtr[Node]{ptr: tail})

	return &List{
		head:      head,
		tail:      tail,
		nodes:     nodes,
		descs:     descs,
		nodeDescs: nodeDescs,
		metrics:   newMetrics(),
	}
}

// Metrics returns the List's counters. The returned pointer is stable for
// the List's lifetime and safe to read concurrently with ExecuteOps.
func (l *List) Metrics() *Metrics { return l.metrics }

// AllocateDesc returns a fresh descriptor with size writable ops and
// status Live. size must be in [1, MaxOps]. The returned error wraps
// ErrPoolExhausted if the descriptor pool's capacity has been reached,
// matching spec §6's "pool exhaustion (fatal)" — the host should treat
// this as a configuration bug (undersized pool) and fail loudly rather
// than retry.
func (l *List) AllocateDesc(size uint8) (*Desc, error) {
	if size == 0 || int(size) > MaxOps {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOpCount, size)
	}
	d, err := l.descs.alloc()
	if err != nil {
		return nil, fmt.Errorf("translist: allocate descriptor: %w", err)
	}
	d.reset(size)
	return d, nil
}

// ExecuteOps submits desc's ops as a single transaction. It returns true
// iff every op committed; false means none of them took effect anywhere
// observable. desc must not be mutated after this call (SetOp will refuse
// once submit() has run).
func (l *List) ExecuteOps(desc *Desc) bool {
	desc.submit()
	var hs helpStack
	return l.helpOps(desc, 0, &hs)
}

// allocNode pulls a fresh Node from the pool, already carrying key and an
// initial nodeDesc pointing at nd. next is left unset — callers always
// Store it immediately before attempting to publish the node, since the
// correct value of next depends on the predecessor observed at CAS time
// and can change across retries.
func (l *List) allocNode(key uint32, nd *NodeDesc) *Node {
	n, err := l.nodes.alloc()
	if err != nil {
		panic(fmt.Errorf("translist: %w (increase node pool capacity)", err))
	}
	n.key = key
	n.nodeDesc.init(markedPtr[NodeDesc]{ptr: nd})
	return n
}

// allocNodeDesc pulls a fresh NodeDesc from the pool for the given
// (desc, opid) pair.
func (l *List) allocNodeDesc(desc *Desc, opid uint8) *NodeDesc {
	nd, err := l.nodeDescs.alloc()
	if err != nil {
		panic(fmt.Errorf("translist: %w (increase nodedesc pool capacity)", err))
	}
	nd.desc = desc
	nd.opid = opid
	return nd
}

// locatePred walks from head to find (pred, curr) such that
// pred.key < key <= curr.key, opportunistically splicing out any run of
// logically-deleted nodes it passes through.
//
// Every newly-adopted curr — whether the very first one fetched off head or
// one reached by advancing pred forward — has its own mark checked before
// its key is ever compared against key. This mirrors the source's loop,
// which always starts curr at the head sentinel (key 0, unconditionally
// less than any real key) so the "is curr marked" check runs at least once
// for every curr before the key comparison does. Checking the mark only
// when curr.key < key would let a dead, unspliced node sitting exactly at
// key be handed back to the caller untouched: insert/delete's retry-on-
// old.marked path would then call locatePred(key) again, get the same dead
// node back, and loop forever, since nothing else is walking past key to
// ever splice it out.
//
// If a splice CAS fails, the walk restarts from head entirely, since pred
// can no longer be trusted as anyone's valid predecessor.
func (l *List) locatePred(key uint32) (pred, curr *Node) {
restart:
	for {
		pred = l.head
		predNext := pred.next.Load()
		curr = predNext.ptr

		for {
			next := curr.next.Load()

			for next.marked {
				spliced := next.ptr
				if !pred.next.CompareAndSwap(predNext, markedPtr[Node]{ptr: spliced}) {
					continue restart
				}
				predNext = markedPtr[Node]{ptr: spliced}
				curr = spliced
				next = curr.next.Load()
			}

			if curr.key >= key {
				return pred, curr
			}

			pred = curr
			predNext = next
			curr = next.ptr
		}
	}
}
