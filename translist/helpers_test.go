package translist

import "testing"

// newTestList builds a List over freshly-sized pools for a single test.
func newTestList(t *testing.T, nodeCap, descCap, nodeDescCap int) *List {
	t.Helper()
	return New(NewPool[Node](nodeCap), NewPool[Desc](descCap), NewPool[NodeDesc](nodeDescCap))
}

// members walks the list end to end and returns every key whose current
// nodeDesc derives a member, in ascending order. It is a test-only reader —
// the package has no public membership query because FIND deliberately
// doesn't report presence (see kernels.go).
func (l *List) members() []uint32 {
	var out []uint32
	for n := l.head.next.Load().ptr; n.key != posInf; n = n.next.Load().ptr {
		nd := n.nodeDesc.Load()
		if nd.marked || nd.ptr == nil {
			continue
		}
		if keyExists(nd.ptr) {
			out = append(out, n.key)
		}
	}
	return out
}

func (l *List) hasMember(key uint32) bool {
	for _, k := range l.members() {
		if k == key {
			return true
		}
	}
	return false
}

// exec is a small convenience for building and submitting a descriptor of
// ops in one call.
func exec(t *testing.T, l *List, ops ...Operator) bool {
	t.Helper()
	d, err := l.AllocateDesc(uint8(len(ops)))
	if err != nil {
		t.Fatalf("AllocateDesc: %v", err)
	}
	for i, op := range ops {
		if err := d.SetOp(i, op.Type, op.Key); err != nil {
			t.Fatalf("SetOp(%d): %v", i, err)
		}
	}
	return l.ExecuteOps(d)
}
