package translist

// helpOps drives desc from startOpid to a terminal state: every remaining
// op is dispatched to its kernel in order, and the result commits only if
// all of them succeed. It is reentrant — a kernel that encounters another
// LIVE descriptor calls back into helpOps for it — which is exactly the
// helping protocol that makes the structure lock-free without locks: a
// thread that would otherwise block on another transaction instead
// finishes it itself.
func (l *List) helpOps(desc *Desc, startOpid uint8, hs *helpStack) bool {
	if hs.contains(desc) {
		// A cycle of mutually-helping descriptors: whichever thread
		// notices first breaks it by aborting the descriptor it was
		// about to help.
		if desc.compareAndSwapStatus(Live, Aborted) {
			l.metrics.abort()
		}
		return desc.Status() == Committed
	}

	hs.push(desc)

	ok := true
	var deletedNodes [MaxOps]*Node
	nDeleted := 0

	opid := startOpid
	for ok && desc.Status() == Live && opid < desc.size {
		op := desc.ops[opid]

		switch op.Type {
		case Insert:
			ok = l.insert(op.Key, desc, opid, hs)
		case Delete:
			var deleted *Node
			ok, deleted = l.delete(op.Key, desc, opid, hs)
			deletedNodes[nDeleted] = deleted
			nDeleted++
		default:
			ok = l.find(op.Key, desc)
		}

		opid++
	}

	hs.pop()

	// The CAS below may lose to a concurrent helper that already drove desc
	// to its terminal state (e.g. the cycle-detection abort above, racing
	// against this goroutine finishing its own op loop). When that happens
	// the locally-computed ok no longer reflects reality: desc's actual
	// status is authoritative, so the return value is read back from it
	// rather than assumed from ok.
	if ok {
		if desc.compareAndSwapStatus(Live, Committed) {
			for i := 0; i < nDeleted; i++ {
				if n := deletedNodes[i]; n != nil {
					l.finalize(n, desc)
				}
			}
			l.metrics.commit()
		}
	} else if desc.compareAndSwapStatus(Live, Aborted) {
		l.metrics.abort()
	}

	return desc.Status() == Committed
}
