// Package workerpool provides a fixed-size pool of goroutines draining a
// shared, bounded job queue, backing the network front end's connection
// handling.
//
// The one subtlety this package exists to get right: a job panicking must
// not permanently shrink the pool. Each worker recovers from its own job's
// panic and spawns a replacement worker before exiting, so steady-state
// parallelism never decays no matter how many jobs panic over the pool's
// lifetime. This is the Go translation of the original thread pool's
// "replacement worker spawned from a scope guard run during stack unwind"
// pattern — Go has no unwind hooks, but recover() inside a deferred
// function gives the same observe-then-replace moment.
package workerpool

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Pool is a fixed-size set of worker goroutines draining a bounded job
// queue of capacity 2*size, mirroring the bounded channel capacity the
// original thread pool used.
type Pool struct {
	jobs     chan func()
	shutdown atomic.Bool
	log      *zap.SugaredLogger
	size     int
	wg       sync.WaitGroup
}

// New creates a pool of size workers and starts them immediately.
func New(size int, log *zap.SugaredLogger) *Pool {
	p := &Pool{
		jobs: make(chan func(), size*2),
		log:  log,
		size: size,
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.runWorker()
	}
	return p
}

// Spawn submits a job to be run exactly once by some worker. It blocks if
// the queue is full, providing backpressure to whatever is submitting jobs.
func (p *Pool) Spawn(job func()) {
	p.jobs <- job
}

func (p *Pool) runWorker() {
	defer p.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			p.log.Errorw("worker recovered from a panicking job, spawning replacement", "panic", r)
			p.wg.Add(1)
			go p.runWorker()
		}
	}()

	for job := range p.jobs {
		job()
		if p.shutdown.Load() {
			return
		}
	}
}

// Stop flags the pool for shutdown and pushes one no-op job per worker to
// unblock every current receive, then waits for all workers (including any
// panic-spawned replacements) to exit. It does not wait for jobs submitted
// concurrently with Stop.
func (p *Pool) Stop() {
	p.shutdown.Store(true)
	for i := 0; i < p.size; i++ {
		p.jobs <- func() {}
	}
	p.wg.Wait()
}
