package translist

import "math"

// negInf and posInf are the sentinel keys bounding the list, matching
// original_source/src/translink/list/translist.cc's sentinel construction
// (head key 0, tail key 0xffffffff). User keys must therefore stay within
// [1, posInf-1]; Operator documents this rather than re-validating it on
// every call, matching the original.
const (
	negInf uint32 = 0
	posInf uint32 = math.MaxUint32
)

// Node is a sorted singly-linked list cell. Once CAS-published into a
// predecessor's next pointer it is never freed while the list is in use —
// see Pool and doc.go.
//
// next carries the logical-deletion mark: marked means this node is
// logically deleted but may still be linked, and any traverser that
// notices is obligated to splice it out. nodeDesc carries
// the finalized-dead mark, set independently of next's mark so helpers can
// make lock-free progress marking a node even if they haven't yet observed
// (or won successfully CASed) the next-pointer splice.
type Node struct {
	key      uint32
	next     atomicMarkedPtr[Node]
	nodeDesc atomicMarkedPtr[NodeDesc]
}

func newSentinel(key uint32) *Node {
	n := &Node{key: key}
	n.next.init(markedPtr[Node]{})
	n.nodeDesc.init(markedPtr[NodeDesc]{})
	return n
}

// ensureNextMarked ORs the deletion mark into n.next if some other
// traverser hasn't already done so. It is a best-effort cooperative repair:
// losing the CAS just means another thread got there first, which is
// exactly as good.
func ensureNextMarked(n *Node) {
	raw := n.next.Load()
	if raw.marked {
		return
	}
	n.next.CompareAndSwap(raw, withMark(raw, true))
}
