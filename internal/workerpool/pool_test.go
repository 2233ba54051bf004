package workerpool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestPoolRunsAllJobs(t *testing.T) {
	t.Parallel()

	p := New(4, zap.NewNop().Sugar())
	defer p.Stop()

	const n = 100
	var completed atomic.Int32
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		p.Spawn(func() {
			defer wg.Done()
			completed.Add(1)
		})
	}

	wg.Wait()
	if got := completed.Load(); got != n {
		t.Fatalf("expected %d completed jobs, got %d", n, got)
	}
}

func TestPoolSurvivesPanickingJobs(t *testing.T) {
	t.Parallel()

	p := New(2, zap.NewNop().Sugar())
	defer p.Stop()

	var wg sync.WaitGroup
	wg.Add(1)
	p.Spawn(func() {
		defer wg.Done()
		panic("boom")
	})
	wg.Wait()

	// Give the replacement worker goroutine a moment to start before
	// showing the pool still runs every job submitted after the panic.
	time.Sleep(50 * time.Millisecond)

	const n = 50
	var completed atomic.Int32
	var wg2 sync.WaitGroup
	wg2.Add(n)
	for i := 0; i < n; i++ {
		p.Spawn(func() {
			defer wg2.Done()
			completed.Add(1)
		})
	}
	wg2.Wait()

	if got := completed.Load(); got != n {
		t.Fatalf("expected %d jobs to complete after a panic, got %d", n, got)
	}
}

func TestPoolRegainsFullParallelismAfterPanic(t *testing.T) {
	t.Parallel()

	const n = 4
	p := New(n, zap.NewNop().Sugar())
	defer p.Stop()

	var wg sync.WaitGroup
	wg.Add(1)
	p.Spawn(func() {
		defer wg.Done()
		panic("boom")
	})
	wg.Wait()

	// Give the replacement worker goroutine a moment to start before
	// timing the pool's throughput below.
	time.Sleep(50 * time.Millisecond)

	const sleep = 200 * time.Millisecond
	var wg2 sync.WaitGroup
	wg2.Add(n)
	start := time.Now()
	for i := 0; i < n; i++ {
		p.Spawn(func() {
			defer wg2.Done()
			time.Sleep(sleep)
		})
	}
	wg2.Wait()
	elapsed := time.Since(start)

	// n jobs that each sleep for `sleep` finish in about `sleep` if the
	// pool still runs all n workers concurrently, but in 2*sleep if a
	// worker was lost to the panic, since n jobs on n-1 survivors need two
	// rounds. 400ms is that two-round time while leaving headroom above
	// 200ms.
	if elapsed >= 400*time.Millisecond {
		t.Fatalf("n=%d jobs sleeping %v took %v; pool did not regain full parallelism after the panic", n, sleep, elapsed)
	}
}

func TestStopUnblocksWorkersAndWaits(t *testing.T) {
	t.Parallel()

	p := New(3, zap.NewNop().Sugar())

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return in time")
	}
}
