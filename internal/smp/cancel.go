// Package smp implements the Lazy-SMP parallel driver of spec.md §4.11: T
// worker threads iterative-deepen independently over a shared lock-free
// transposition table, with the master thread (index 0) authoritative over
// the final move and helper threads diversifying TT population only.
package smp

import (
	"go.uber.org/atomic"
)

// CancellationSource is the single flag every worker polls and any worker
// may trip once its own hard time bound elapses, matching spec.md §4.11
// point 3 ("a single CancellationSource; a worker cancels all when
// elapsed >= hard_bound"). Grounded on morlock's legacy iterative-deepening
// handle (pkg/search/iterative.go), whose done/initialized atomic.Bool pair
// is the same CAS-guarded close-once idiom used here.
type CancellationSource struct {
	tripped atomic.Bool
	quit    chan struct{}
}

// NewCancellationSource returns an untripped source.
func NewCancellationSource() *CancellationSource {
	return &CancellationSource{quit: make(chan struct{})}
}

// Trip cancels every worker sharing this source. Idempotent.
func (c *CancellationSource) Trip() {
	if c.tripped.CAS(false, true) {
		close(c.quit)
	}
}

// Tripped reports whether Trip has been called.
func (c *CancellationSource) Tripped() bool {
	return c.tripped.Load()
}

// Done returns a channel closed exactly once, when Trip is first called.
func (c *CancellationSource) Done() <-chan struct{} {
	return c.quit
}
