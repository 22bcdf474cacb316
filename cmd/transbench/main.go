// Command transbench drives translist.List and two peer.Set baselines
// (peer.MutexSet and peer.SkipListSet) under the same workload and reports
// throughput. It exists only as the
// external benchmark-harness collaborator the core's interface table
// promises (spec.md §6) — correctness is tested elsewhere, in
// package translist's tests.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/nearline-systems/translist/peer"
	"github.com/nearline-systems/translist/translist"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	var (
		threads     int
		keyRange    uint32
		opsPerTxn   uint8
		duration    time.Duration
		poolPerGoro int
	)

	cmd := &cobra.Command{
		Use:   "transbench",
		Short: "Benchmark translist.List against mutex-guarded and lock-free skiplist baseline sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opsPerTxn == 0 || int(opsPerTxn) > translist.MaxOps {
				return fmt.Errorf("--ops must be in [1, %d]", translist.MaxOps)
			}
			if keyRange < 2 {
				return fmt.Errorf("--keys must be at least 2 (sentinels occupy 0 and max)")
			}

			listResult := runListBench(threads, keyRange, opsPerTxn, duration, poolPerGoro)
			mutexResult := runPeerBench(peer.NewMutexSet(), threads, keyRange, duration)
			skiplistResult := runPeerBench(peer.NewSkipListSet(), threads, keyRange, duration)

			fmt.Printf("translist.List:   %d commits, %d aborts, %.0f commits/sec\n",
				listResult.commits, listResult.aborts, listResult.rate())
			fmt.Printf("peer.MutexSet:    %d ops,     %.0f ops/sec\n",
				mutexResult.ops, mutexResult.rate())
			fmt.Printf("peer.SkipListSet: %d ops,     %.0f ops/sec\n",
				skiplistResult.ops, skiplistResult.rate())
			return nil
		},
	}

	cmd.Flags().IntVar(&threads, "threads", 4, "number of concurrent goroutines")
	cmd.Flags().Uint32Var(&keyRange, "keys", 1<<16, "keys drawn from [1, keys)")
	cmd.Flags().Uint8Var(&opsPerTxn, "ops", 2, "ops per translist descriptor")
	cmd.Flags().DurationVar(&duration, "duration", 2*time.Second, "run duration")
	cmd.Flags().IntVar(&poolPerGoro, "pool-per-goroutine", 1<<20, "allocator pool slots reserved per goroutine")

	return cmd
}

type benchResult struct {
	commits, aborts, ops uint64
	elapsed              time.Duration
}

func (r benchResult) rate() float64 {
	total := r.commits + r.ops
	if r.elapsed <= 0 {
		return 0
	}
	return float64(total) / r.elapsed.Seconds()
}

func runListBench(threads int, keyRange uint32, opsPerTxn uint8, duration time.Duration, poolPerGoro int) benchResult {
	poolCap := threads * poolPerGoro
	l := translist.New(
		translist.NewPool[translist.Node](poolCap),
		translist.NewPool[translist.Desc](poolCap),
		translist.NewPool[translist.NodeDesc](poolCap),
	)

	deadline := time.Now().Add(duration)
	var wg sync.WaitGroup
	start := time.Now()

	for g := 0; g < threads; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for time.Now().Before(deadline) {
				desc, err := l.AllocateDesc(opsPerTxn)
				if err != nil {
					return
				}
				for i := uint8(0); i < opsPerTxn; i++ {
					key := 1 + uint32(rng.Int63n(int64(keyRange-1)))
					op := pickOp(rng)
					if err := desc.SetOp(int(i), op, key); err != nil {
						return
					}
				}
				l.ExecuteOps(desc)
			}
		}(int64(g + 1))
	}
	wg.Wait()

	snap := l.Metrics().Snapshot()
	return benchResult{commits: snap.Commits, aborts: snap.Aborts, elapsed: time.Since(start)}
}

func runPeerBench(s peer.Set, threads int, keyRange uint32, duration time.Duration) benchResult {
	deadline := time.Now().Add(duration)
	var ops uint64
	var mu sync.Mutex
	var wg sync.WaitGroup
	start := time.Now()

	for g := 0; g < threads; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			local := uint64(0)
			for time.Now().Before(deadline) {
				key := 1 + uint32(rng.Int63n(int64(keyRange-1)))
				switch pickOp(rng) {
				case translist.Insert:
					s.Insert(key)
				case translist.Delete:
					s.Delete(key)
				default:
					s.Contains(key)
				}
				local++
			}
			mu.Lock()
			ops += local
			mu.Unlock()
		}(int64(g + 1))
	}
	wg.Wait()

	return benchResult{ops: ops, elapsed: time.Since(start)}
}

func pickOp(rng *rand.Rand) translist.OpType {
	switch rng.Intn(3) {
	case 0:
		return translist.Insert
	case 1:
		return translist.Delete
	default:
		return translist.Find
	}
}
