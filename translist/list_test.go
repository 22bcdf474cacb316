package translist

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func ins(k uint32) Operator { return Operator{Type: Insert, Key: k} }
func del(k uint32) Operator { return Operator{Type: Delete, Key: k} }
func fnd(k uint32) Operator { return Operator{Type: Find, Key: k} }

// S1
func TestScenarioInsertIntoEmpty(t *testing.T) {
	l := newTestList(t, 32, 32, 32)
	require.True(t, exec(t, l, ins(5)))
	require.Equal(t, []uint32{5}, l.members())
}

// S2
func TestScenarioInsertPresentFails(t *testing.T) {
	l := newTestList(t, 32, 32, 32)
	require.True(t, exec(t, l, ins(5)))
	require.False(t, exec(t, l, ins(5)))
	require.Equal(t, []uint32{5}, l.members())
}

// S3
func TestScenarioDeleteThenInsertSameDescriptor(t *testing.T) {
	l := newTestList(t, 32, 32, 32)
	require.True(t, exec(t, l, ins(5)))
	require.True(t, exec(t, l, del(5), ins(5)))
	require.Equal(t, []uint32{5}, l.members())
}

// R1
func TestRoundTripInsertThenDelete(t *testing.T) {
	l := newTestList(t, 32, 32, 32)
	require.True(t, exec(t, l, ins(7)))
	require.True(t, exec(t, l, del(7)))
	require.False(t, l.hasMember(7))
}

// R2
func TestRoundTripInsertDeleteSameDescriptor(t *testing.T) {
	l := newTestList(t, 32, 32, 32)
	require.True(t, exec(t, l, ins(9), del(9)))
	require.False(t, l.hasMember(9))
}

// R3
func TestRoundTripDeleteThenInsertAbsentKey(t *testing.T) {
	l := newTestList(t, 32, 32, 32)
	require.True(t, exec(t, l, del(3), ins(3)))
	require.True(t, l.hasMember(3))
}

// B1
func TestBoundarySingleOpDescriptors(t *testing.T) {
	l := newTestList(t, 32, 32, 32)
	require.True(t, exec(t, l, ins(1)))
	require.True(t, exec(t, l, fnd(1)))
	require.True(t, exec(t, l, del(1)))
	require.False(t, l.hasMember(1))
}

// B2
func TestBoundaryRacingInsertsSameKey(t *testing.T) {
	const trials = 200
	for trial := 0; trial < trials; trial++ {
		l := newTestList(t, 64, 64, 64)
		var wg sync.WaitGroup
		results := make([]bool, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = exec(t, l, ins(42))
			}(i)
		}
		wg.Wait()

		oneCommitted := results[0] != results[1]
		require.True(t, oneCommitted, "trial %d: exactly one of two racing inserts must commit, got %v", trial, results)
		require.Equal(t, []uint32{42}, l.members())
	}
}

// B3: mutually-dependent descriptors must not deadlock. Whether a genuine
// help-cycle forms depends on scheduling — if the two never observe each
// other's LIVE descriptor, both can commit independently, which is still a
// valid serialization. What must never happen is a hang, a duplicate key,
// or a state inconsistent with every committed descriptor's ops having
// applied in some order.
func TestBoundaryMutualDependencyNoDeadlock(t *testing.T) {
	const trials = 200
	for trial := 0; trial < trials; trial++ {
		l := newTestList(t, 64, 64, 64)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			exec(t, l, ins(1), del(2))
		}()
		go func() {
			defer wg.Done()
			exec(t, l, ins(2), del(1))
		}()
		wg.Wait()

		members := l.members()
		seen := make(map[uint32]bool)
		for _, k := range members {
			require.False(t, seen[k], "trial %d: duplicate key %d", trial, k)
			seen[k] = true
			require.Contains(t, []uint32{1, 2}, k)
		}
	}
}

// S4: FIND-only descriptors must always commit (FIND never fails by
// construction). DELETE(5) commits while 5 is present, and once more when
// no node carries 5 (it installs a tombstone); once a tombstone carries 5,
// further DELETE(5)s abort as deletes of an absent key. A committed
// descriptor's status is terminal (never commits a second time), which is
// all "at most once" means for any one of them.
func TestScenarioRepeatedDeleteAndFind(t *testing.T) {
	const rounds = 100
	l := newTestList(t, rounds+8, 2*rounds+8, 2*rounds+8)
	require.True(t, exec(t, l, ins(5)))

	var wg sync.WaitGroup
	var findCommits int64
	var mu sync.Mutex

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			exec(t, l, del(5))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if exec(t, l, fnd(5)) {
				mu.Lock()
				findCommits++
				mu.Unlock()
			}
		}
	}()
	wg.Wait()

	require.Equal(t, int64(rounds), findCommits, "every FIND-only descriptor must commit")
	require.False(t, l.hasMember(5))
}

// S5
func TestScenarioDisjointKeysAcrossThreads(t *testing.T) {
	const threads = 8
	l := newTestList(t, threads*4+4, threads*2+4, threads*6+4)

	var wg sync.WaitGroup
	results := make([]bool, threads)
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k := uint32(i + 1)
			results[i] = exec(t, l, ins(k), ins(k+1000), del(k))
		}(i)
	}
	wg.Wait()

	for i, ok := range results {
		require.True(t, ok, "thread %d's descriptor should commit", i)
	}

	members := l.members()
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })

	var want []uint32
	for i := 0; i < threads; i++ {
		want = append(want, uint32(i+1+1000))
	}
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
	require.Equal(t, want, members)
}

// S6
func TestScenarioSwappedInsertDeletePairsNoDuplicates(t *testing.T) {
	const rounds = 50
	for round := 0; round < rounds; round++ {
		l := newTestList(t, 16, 16, 16)
		var wg sync.WaitGroup
		var r1, r2 bool
		wg.Add(2)
		go func() {
			defer wg.Done()
			r1 = exec(t, l, ins(1), del(2))
		}()
		go func() {
			defer wg.Done()
			r2 = exec(t, l, ins(2), del(1))
		}()
		wg.Wait()
		_ = r1
		_ = r2

		members := l.members()
		seen := make(map[uint32]bool)
		for _, k := range members {
			require.False(t, seen[k], "round %d: duplicate key %d observed", round, k)
			seen[k] = true
		}
	}
}

// P1/P2: after quiescence, keys are strictly ascending and unique.
func TestSortednessAndUniquenessAfterQuiescence(t *testing.T) {
	const n = 500
	l := newTestList(t, 4*n+4, 2*n+4, 4*n+4)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			exec(t, l, ins(uint32(i+1)))
		}(i)
	}
	wg.Wait()

	members := l.members()
	require.Len(t, members, n)
	for i := 1; i < len(members); i++ {
		require.Less(t, members[i-1], members[i], "members must be strictly ascending")
	}
}

// P5: a committed INSERT(k) is visible to a subsequently-issued FIND chain
// (via list walk) until a committed DELETE(k) removes it.
func TestNoLostUpdatesInsertVisibleUntilDeleted(t *testing.T) {
	l := newTestList(t, 32, 32, 32)
	require.True(t, exec(t, l, ins(11)))
	require.True(t, l.hasMember(11))
	require.True(t, exec(t, l, fnd(11)))
	require.True(t, l.hasMember(11))
	require.True(t, exec(t, l, del(11)))
	require.False(t, l.hasMember(11))
}

func TestMetricsCountCommitsAndAborts(t *testing.T) {
	l := newTestList(t, 32, 32, 32)
	require.True(t, exec(t, l, ins(1)))
	require.False(t, exec(t, l, ins(1)))

	snap := l.Metrics().Snapshot()
	require.Equal(t, uint64(1), snap.Commits)
	require.Equal(t, uint64(1), snap.Aborts)
	require.Equal(t, uint64(1), snap.Inserts)
	require.Equal(t, uint64(1), snap.InsertsNew)
}
