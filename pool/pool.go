// Package pool provides the worker-pool handle that carries all parallelism
// in the module. A Runner is provisioned once per pipeline invocation, passed
// explicitly into the dependence estimator, and released unconditionally with
// a deferred Close; there is no process-global backend to toggle.
//
// Workers ≤ 1 yields a sequential runner: no goroutines are provisioned, Map
// runs on the calling goroutine, and Close has nothing to tear down.
package pool

import (
	"errors"
	"sync"
)

// ErrClosed indicates that Map was called on a released Runner.
var ErrClosed = errors.New("pool: runner is closed")

// Runner executes indexed jobs, either sequentially or across a fixed set of
// worker goroutines. It is not reentrant: one Runner serves one estimation
// call at a time, and a second concurrent pipeline run must provision its own.
type Runner struct {
	workers int
	jobs    chan func() // nil for the sequential runner

	mu     sync.Mutex
	closed bool

	wg sync.WaitGroup // worker goroutine lifetimes
}

// New provisions a Runner. workers > 1 starts that many worker goroutines
// reading from an unbuffered job channel; workers ≤ 1 returns the sequential
// fallback with no resources attached.
func New(workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	r := &Runner{workers: workers}
	if workers == 1 {
		return r
	}

	r.jobs = make(chan func())
	r.wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer r.wg.Done()
			for job := range r.jobs {
				job()
			}
		}()
	}

	return r
}

// Workers returns the configured worker count (≥ 1).
func (r *Runner) Workers() int { return r.workers }

// Parallel reports whether a worker pool was actually provisioned.
func (r *Runner) Parallel() bool { return r.jobs != nil }

// Closed reports whether the Runner has been released.
func (r *Runner) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.closed
}

// Close releases the pool: the job channel is closed and every worker is
// joined. Idempotent; a no-op beyond bookkeeping for the sequential runner.
// Close must not race with an in-flight Map call.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	if r.jobs != nil {
		close(r.jobs)
		r.wg.Wait()
	}
}

// Map runs fn(0..n-1), fanning out across the pool when one is provisioned.
// All jobs run to completion even when some fail; the error reported is the
// one from the lowest job index, so the outcome does not depend on worker
// scheduling. The sequential runner stops at the first error instead (there
// is no in-flight work to drain).
func (r *Runner) Map(n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}
	if r.Closed() {
		return ErrClosed
	}

	if r.jobs == nil {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}

		return nil
	}

	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		r.jobs <- func() {
			defer wg.Done()
			errs[i] = fn(i)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}
