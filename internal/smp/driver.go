package smp

import (
	"context"
	"sync"
	"time"

	"github.com/caroengine/core/internal/board"
	"github.com/caroengine/core/internal/difficulty"
	"github.com/caroengine/core/internal/picker"
	"github.com/caroengine/core/internal/search"
	"github.com/caroengine/core/internal/search/searchctl"
	"github.com/caroengine/core/internal/threat"
	"github.com/caroengine/core/internal/timectl"
)

// Driver is the Lazy-SMP fan-out of spec.md §4.11. It wraps one
// searchctl.Iterative as the master (thread_index 0, the full get_best_move
// pipeline: Open Rule, emergency path, critical defense, VCF pre-check,
// aspiration-windowed iterative deepening) and zero or more plain Workers as
// helpers, all sharing one lock-free TT and one CancellationSource. Calling
// code is responsible for bypassing this package entirely when the
// difficulty profile's HelperThreads is 0 (spec.md §4.11: "T = 0 means
// single-threaded path, bypassing this component").
type Driver struct {
	Master  *searchctl.Iterative
	Helpers []*Worker
	Time    *timectl.Manager
}

// handle aggregates the master's Handle with the still-running helper
// threads; Halt blocks until both the master and every helper have stopped.
type handle struct {
	master  searchctl.Handle
	source  *CancellationSource
	cancel  context.CancelFunc
	timer   *time.Timer
	wg      sync.WaitGroup
	results []WorkerResult
}

// Launch starts the master and every helper against pos for side, sharing
// one CancellationSource armed off a single TimeManager allocation (spec.md
// §4.11 point 3: "a single CancellationSource; a worker cancels all when
// elapsed >= hard_bound"). The returned channel streams the master's
// successive Outcomes exactly as a single-threaded searchctl.Iterative
// would; only Halt's fallback aggregation differs when the master produced
// nothing at all.
func (d *Driver) Launch(ctx context.Context, pos *board.Position, side board.Side, masterTT search.TranspositionTable, diff difficulty.Level, opt searchctl.Options) (searchctl.Handle, <-chan searchctl.Outcome) {
	profile := diff.Profile()
	d.Time.DifficultyTimeMultiplier = profile.TimeMultiplier

	cands := picker.Candidates(pos)
	stones := pos.Red().PopCount() + pos.Blue().PopCount()
	openThreats := countForcingThreats(pos, side)
	alloc := d.Time.Allocate(opt.TimeRemaining, opt.Increment, opt.MoveNumber, len(cands), stones, openThreats)

	source := NewCancellationSource()
	derivedCtx, cancel := context.WithCancel(ctx)
	go func() {
		<-source.Done()
		cancel()
	}()

	var timer *time.Timer
	if alloc.Hard > 0 {
		timer = time.AfterFunc(alloc.Hard, source.Trip)
	} else {
		source.Trip()
	}

	masterHandle, masterOut := d.Master.Launch(derivedCtx, pos.Clone(), side, masterTT, diff, opt)

	h := &handle{master: masterHandle, source: source, cancel: cancel, timer: timer, results: make([]WorkerResult, len(d.Helpers))}

	for i, w := range d.Helpers {
		h.wg.Add(1)
		go func(i int, w *Worker) {
			defer h.wg.Done()
			maxDepth := w.Depth.MaxDepth(alloc.Soft, profile.MinDepth)
			h.results[i] = w.run(derivedCtx, pos.Clone(), side, maxDepth, alloc.Hard)
		}(i, w)
	}

	return h, masterOut
}

// Halt stops the master and every helper, waits for all of them to return,
// then aggregates per spec.md §4.11 point 4: the master's deepest result
// (which doubles as "fallback 1 = any master result", since
// searchctl.Iterative always publishes at least one Outcome before a
// non-empty board's search can produce no move); failing that, the
// best-scoring helper result at depth >= the deepest helper depth reached
// minus 2 ("fallback 2"); failing that, the best-scoring helper result
// outright ("fallback 3").
func (h *handle) Halt() searchctl.Outcome {
	masterOut := h.master.Halt()
	h.source.Trip()
	if h.timer != nil {
		h.timer.Stop()
	}
	h.cancel()
	h.wg.Wait()

	return Aggregate(masterOut, h.results)
}

// Aggregate implements spec.md §4.11 point 4's three-tier fallback. Exported
// so it can be tested directly against synthetic worker results, without
// spinning up a real search.
func Aggregate(masterOut searchctl.Outcome, helperResults []WorkerResult) searchctl.Outcome {
	if masterOut.Move != board.NoMove {
		return masterOut
	}

	targetDepth := 0
	for _, r := range helperResults {
		if r.Depth > targetDepth {
			targetDepth = r.Depth
		}
	}

	best := WorkerResult{Move: board.NoMove, Score: search.NegInf}
	for _, r := range helperResults {
		if r.Move != board.NoMove && r.Depth >= targetDepth-2 && r.Score > best.Score {
			best = r
		}
	}
	if best.Move == board.NoMove {
		// Fallback 3: best by score outright, ignoring depth.
		for _, r := range helperResults {
			if r.Move != board.NoMove && r.Score > best.Score {
				best = r
			}
		}
	}

	return searchctl.Outcome{Move: best.Move, DepthReached: best.Depth, Nodes: best.Nodes, Score: best.Score, PV: best.PV}
}

// countForcingThreats counts side's and the opponent's forcing threats,
// feeding TimeManager.Allocate's complexity multiplier (spec.md §4.12) —
// duplicated from searchctl's unexported helper of the same name, since
// the Driver computes its own allocation independent of the master's.
func countForcingThreats(pos *board.Position, side board.Side) int {
	n := 0
	for _, th := range threat.Detect(pos, side) {
		if threat.IsForcing(th.Type) {
			n++
		}
	}
	for _, th := range threat.Detect(pos, side.Opponent()) {
		if threat.IsForcing(th.Type) {
			n++
		}
	}
	return n
}
