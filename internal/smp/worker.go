package smp

import (
	"context"
	"math/rand"
	"time"

	"github.com/seekerror/stdlib/pkg/util/contextx"

	"github.com/caroengine/core/internal/board"
	"github.com/caroengine/core/internal/heuristics"
	"github.com/caroengine/core/internal/pattern"
	"github.com/caroengine/core/internal/search"
	"github.com/caroengine/core/internal/timectl"
)

// WorkerResult is one worker's deepest completed iteration, used both by the
// master (indirectly, via searchctl.Outcome) and by helpers for the
// fallback-aggregation tiers of spec.md §4.11 point 4.
type WorkerResult struct {
	Move  board.Move
	Score search.Score
	Depth int
	Nodes uint64
	PV    []board.Move
}

// Worker is one Lazy-SMP thread: its own Position clone (supplied per call
// to run, not stored), its own heuristic tables, and — for every thread but
// the master — an RNG that jitters MovePicker's within-stage order so the
// shared TT gets populated from a different move order than the master's
// (spec.md §4.11 point 2).
type Worker struct {
	ThreadIndex int
	Searcher    *search.Searcher
	Depth       *timectl.DepthPlanner
}

// NewWorker builds one worker sharing tt. wallSeed plus threadIndex seeds
// the helper's jitter RNG ("an RNG seeded from thread_index + wallclock",
// spec.md §4.11); threadIndex 0 is the master and is left without a Jitter,
// since the master's ordering must stay deterministic.
func NewWorker(threadIndex int, tt search.TranspositionTable, eval pattern.Evaluator, cfg search.Config, wallSeed int64) *Worker {
	s := &search.Searcher{
		TT:          tt,
		Heuristics:  heuristics.NewSet(),
		Eval:        eval,
		Config:      cfg,
		ThreadIndex: threadIndex,
	}
	if threadIndex != 0 {
		s.Jitter = rand.New(rand.NewSource(wallSeed + int64(threadIndex)))
	}
	return &Worker{ThreadIndex: threadIndex, Searcher: s, Depth: timectl.NewDepthPlanner()}
}

// run iterative-deepens this worker's own search on pos up to maxDepth,
// stopping early on cancellation, a hard-bound wall-clock overrun, or a
// discovered forced mate. Used for helper threads only — the master thread
// runs the full get_best_move pipeline via searchctl.Iterative instead,
// which already implements iterative deepening with aspiration windows.
func (w *Worker) run(ctx context.Context, pos *board.Position, side board.Side, maxDepth int, hardBound time.Duration) WorkerResult {
	start := time.Now()
	result := WorkerResult{Move: board.NoMove}

	for depth := 1; depth <= maxDepth; depth++ {
		if contextx.IsCancelled(ctx) {
			break
		}

		iterStart := time.Now()
		score, pv := w.Searcher.SearchRoot(ctx, pos, side, depth, search.NegInf, search.Inf, nil)
		elapsed := time.Since(iterStart)

		nodes := w.Searcher.Nodes()
		w.Depth.UpdateNPS(nodes, elapsed)
		if len(pv) == 0 {
			break
		}
		result = WorkerResult{Move: pv[0], Score: score, Depth: depth, Nodes: nodes, PV: pv}

		if time.Since(start) >= hardBound {
			break
		}
		if md, ok := score.MateDistance(); ok && md <= depth {
			break
		}
	}
	return result
}
