package translist

// NodeDesc is a node's evidence of the transaction that last touched its
// logical membership: the Desc that performed the touch, and the index of
// the responsible op within it. A node's membership is never stored
// directly — it is derived from *NodeDesc.desc's status and the type of
// ops[opid], per keyExists below.
type NodeDesc struct {
	desc *Desc
	opid uint8
}

// keyExists derives the logical membership of whichever node currently
// points at nd, per the invariant: committed inserts and aborted deletes
// are members, committed deletes and aborted inserts are not. A Live
// descriptor is only seen here by its own later ops (the kernels help any
// other Live descriptor to a terminal state first), so its own earlier
// ops count as applied: a Live insert is a member, a Live delete is not.
func keyExists(nd *NodeDesc) bool {
	status := nd.desc.Status()
	op := nd.desc.ops[nd.opid].Type
	if status == Live {
		return op == Insert
	}
	return (status == Committed && op == Insert) || (status == Aborted && op == Delete)
}

// sameOperation reports whether two NodeDescs were produced by the same
// (desc, opid) pair — i.e. the same logical attempt at touching a key,
// possibly observed by two different threads racing to publish it.
func sameOperation(a, b *NodeDesc) bool {
	return a.desc == b.desc && a.opid == b.opid
}
