package translist

// insert attempts to make key a member of the set as part of desc's opid'th
// op. It either finds no node at key yet and races to link a fresh one, or
// finds one already there and races to flip its NodeDesc to point at this
// attempt instead — reusing the node's key slot for a brand new logical
// insert rather than allocating a redundant skeleton node.
func (l *List) insert(key uint32, desc *Desc, opid uint8, hs *helpStack) bool {
	nd := l.allocNodeDesc(desc, opid)
	var newNode *Node

	pred, curr := l.locatePred(key)

	for {
		if curr.key != key {
			if desc.Status() != Live {
				return false
			}

			if newNode == nil {
				newNode = l.allocNode(key, nd)
			}
			newNode.next.Store(markedPtr[Node]{ptr: curr})

			if pred.next.CompareAndSwap(markedPtr[Node]{ptr: curr}, markedPtr[Node]{ptr: newNode}) {
				l.metrics.insertNew()
				return true
			}

			raw := pred.next.Load()
			if raw.marked {
				pred, curr = l.locatePred(key)
			} else {
				curr = raw.ptr
			}
			continue
		}

		old := curr.nodeDesc.Load()
		if old.marked {
			ensureNextMarked(curr)
			pred, curr = l.locatePred(key)
			continue
		}

		l.finishPendingTxn(old.ptr, desc, hs)

		if sameOperation(old.ptr, nd) {
			return true
		}

		if keyExists(old.ptr) {
			return false
		}

		if desc.Status() != Live {
			return false
		}

		if curr.nodeDesc.CompareAndSwap(old, markedPtr[NodeDesc]{ptr: nd}) {
			l.metrics.insert()
			return true
		}
		// Lost the race for curr's NodeDesc slot; reload and retry against
		// the same curr rather than re-walking from head.
	}
}

// delete attempts to remove key from the set as part of desc's opid'th op.
// If no node currently carries key, it installs a tombstone — a node whose
// NodeDesc is a DELETE, so it is non-member by construction — to preserve
// the at-most-one-node-per-key invariant against a concurrent INSERT of
// the same key this descriptor might be racing to pre-empt. A tombstone
// needs no physical finalization, so it reports (true, nil); an actual
// existing node that gets successfully flipped to DELETE is returned so
// the caller can finalize it on commit.
func (l *List) delete(key uint32, desc *Desc, opid uint8, hs *helpStack) (ok bool, deleted *Node) {
	nd := l.allocNodeDesc(desc, opid)
	var newNode *Node

	pred, curr := l.locatePred(key)

	for {
		if curr.key != key {
			if desc.Status() != Live {
				return false, nil
			}

			if newNode == nil {
				newNode = l.allocNode(key, nd)
			}
			newNode.next.Store(markedPtr[Node]{ptr: curr})

			if pred.next.CompareAndSwap(markedPtr[Node]{ptr: curr}, markedPtr[Node]{ptr: newNode}) {
				l.metrics.deleteNew()
				return true, nil
			}

			raw := pred.next.Load()
			if raw.marked {
				pred, curr = l.locatePred(key)
			} else {
				curr = raw.ptr
			}
			continue
		}

		old := curr.nodeDesc.Load()
		if old.marked {
			ensureNextMarked(curr)
			pred, curr = l.locatePred(key)
			continue
		}

		l.finishPendingTxn(old.ptr, desc, hs)

		if sameOperation(old.ptr, nd) {
			return true, curr
		}

		if !keyExists(old.ptr) {
			return false, nil
		}

		if desc.Status() != Live {
			return false, nil
		}

		if curr.nodeDesc.CompareAndSwap(old, markedPtr[NodeDesc]{ptr: nd}) {
			l.metrics.delete()
			return true, curr
		}
	}
}

// find walks to key's position and always reports success. Presence is
// not its job: the kernel exists so FIND participates in a descriptor's op
// sequence (and therefore in helping and cycle detection) the same way
// INSERT and DELETE do. Its boolean never reflects whether key is present,
// and the package exports no membership query — see spec §9's "Find
// semantics" note.
func (l *List) find(key uint32, desc *Desc) bool {
	l.locatePred(key)
	l.metrics.find()
	return true
}

// finishPendingTxn helps a LIVE descriptor encountered at some other
// node's NodeDesc along to a terminal state before this operation decides
// whether that node is a member. It is a no-op when the encountered
// descriptor is this same transaction's own — an operation in a
// transaction never needs to wait on itself.
func (l *List) finishPendingTxn(owner *NodeDesc, desc *Desc, hs *helpStack) {
	if owner.desc == desc {
		return
	}
	if owner.desc.Status() == Live {
		l.helpOps(owner.desc, owner.opid+1, hs)
	}
}

// finalize marks a committed-deleted node for physical reclamation: first
// the NodeDesc pointer gets its finalized-dead bit set (but only if it
// still points at one of the committing descriptor's DELETE ops — another
// transaction, or a later INSERT of this same one, may already have reused
// the key slot), then the next-pointer deletion mark
// follows, ordered after the NodeDesc CAS so any traverser that observes
// the next mark also observes the finalized NodeDesc.
func (l *List) finalize(n *Node, desc *Desc) {
	nd := n.nodeDesc.Load()
	if nd.marked || nd.ptr == nil || nd.ptr.desc != desc || desc.ops[nd.ptr.opid].Type != Delete {
		return
	}
	if n.nodeDesc.CompareAndSwap(nd, withMark(nd, true)) {
		ensureNextMarked(n)
	}
}
