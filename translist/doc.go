// Package translist implements a lock-free transactional linked-list set.
//
// Callers group {find|insert|delete}(key) operations into a Desc and submit
// it with ExecuteOps; either every operation takes effect and the
// descriptor commits, or none do and it aborts. There are no locks: threads
// that encounter another thread's in-progress descriptor help drive it to a
// terminal state before continuing their own work, which is what makes the
// structure lock-free across arbitrary groupings of set operations rather
// than just for single-key operations.
//
// Nodes, Descs, and NodeDescs are never returned to the Go allocator once
// handed out by a List's Pools. A thread may still be reading one on a
// concurrent retry path long after it has logically died, so no slot is
// ever freed or reused: each Pool reserves its full capacity up front, and
// allocation fails with ErrPoolExhausted once that capacity is spent.
package translist
