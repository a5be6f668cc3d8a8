package searchctl

import (
	"context"
	"sync"
	"time"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"

	"github.com/caroengine/core/internal/board"
	"github.com/caroengine/core/internal/difficulty"
	"github.com/caroengine/core/internal/picker"
	"github.com/caroengine/core/internal/search"
	"github.com/caroengine/core/internal/threat"
	"github.com/caroengine/core/internal/timectl"
	"github.com/caroengine/core/internal/vcf"
)

// vcfBudgetFraction is the "small fraction of the soft bound" spec.md §4.10
// step 5 allots to the VCF pre-check.
const vcfBudgetFraction = 0.1

// vcfMaxDepth bounds the VCF pre-check's search depth, independent of the
// time budget.
const vcfMaxDepth = 20

// emergencyTTDepth is the minimum stored depth spec.md §4.10 step 3 requires
// of a TT-only emergency move.
const emergencyTTDepth = 5

// aspirationWindow is the initial half-width spec.md §4.10 step 6 opens
// around the previous iteration's score.
const aspirationWindow = 50

// Iterative is the Launcher implementing spec.md §4.10's `get_best_move`:
// Open Rule restriction, time allocation, emergency path, critical defense
// preguard, VCF pre-check, and aspiration-windowed iterative deepening.
// Mirrors morlock's searchctl.Iterative (pkg/search/searchctl/iterative.go),
// generalized from a flat depth/time-control loop to this engine's staged
// decision sequence.
type Iterative struct {
	Searcher *search.Searcher
	VCF      *vcf.Solver
	Time     *timectl.Manager
	Depth    *timectl.DepthPlanner
}

func (it *Iterative) Launch(ctx context.Context, pos *board.Position, side board.Side, tt search.TranspositionTable, diff difficulty.Level, opt Options) (Handle, <-chan Outcome) {
	out := make(chan Outcome, 1)
	h := &handle{
		init:    iox.NewAsyncCloser(),
		quit:    iox.NewAsyncCloser(),
		outcome: Outcome{Move: board.NoMove},
	}
	it.Searcher.TT = tt

	go h.process(ctx, it, pos, side, diff, opt, out)
	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	outcome Outcome
	mu      sync.Mutex
}

func (h *handle) Halt() Outcome {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.outcome
}

func (h *handle) publish(o Outcome, out chan<- Outcome) {
	h.mu.Lock()
	h.outcome = o
	h.mu.Unlock()

	select {
	case <-out:
	default:
	}
	out <- o
	h.init.Close()
}

func (h *handle) process(ctx context.Context, it *Iterative, pos *board.Position, side board.Side, diff difficulty.Level, opt Options, out chan Outcome) {
	defer h.init.Close()
	defer close(out)

	start := time.Now()
	profile := diff.Profile()

	// Step 1: Open Rule restriction.
	cands := picker.Candidates(pos)
	forbidden := OpenRuleForbidden(opt.MoveNumber, profile.OpenRuleZoneSize)
	if forbidden != nil {
		cands = filterForbidden(cands, forbidden)
	}
	it.Searcher.Forbidden = forbidden

	// No legal candidate (a full board, or every cell forbidden): spec.md
	// §7's NoLegalMove terminal outcome, the sentinel (-1,-1) move. Must be
	// checked before any of the steps below, none of which have a legal move
	// to search.
	if len(cands) == 0 {
		h.publish(Outcome{Move: board.NoMove, TimeSpent: time.Since(start)}, out)
		return
	}

	// Step 2: time allocation.
	it.Time.DifficultyTimeMultiplier = profile.TimeMultiplier
	stones := pos.Red().PopCount() + pos.Blue().PopCount()
	openThreats := countForcingThreats(pos, side)
	alloc := it.Time.Allocate(opt.TimeRemaining, opt.Increment, opt.MoveNumber, len(cands), stones, openThreats)

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()
	if alloc.Hard > 0 {
		timer := time.AfterFunc(alloc.Hard, func() { h.quit.Close() })
		defer timer.Stop()
	}

	// Step 3: emergency path.
	if alloc.IsEmergency && profile.IsHigh() {
		if cutoff, value, move, found := it.Searcher.TT.Lookup(pos.Hash(), emergencyTTDepth, int32(search.NegInf), int32(search.Inf)); cutoff && found && move != board.NoMove {
			h.publish(Outcome{Move: move, DepthReached: emergencyTTDepth, Score: search.Score(value), PV: []board.Move{move}, TimeSpent: time.Since(start)}, out)
			logw.Debugf(ctx, "Emergency TT move at %v: %v", pos, move)
			return
		}
	}

	// Step 4: critical defense preguard.
	if mv, ok := criticalDefense(pos, side); ok {
		h.publish(Outcome{Move: mv, DepthReached: 0, PV: []board.Move{mv}, TimeSpent: time.Since(start)}, out)
		logw.Debugf(ctx, "Critical defense preguard at %v: %v", pos, mv)
		return
	}

	// Step 5: VCF pre-check.
	vcfBudget := time.Duration(float64(alloc.Soft) * vcfBudgetFraction)
	if res := it.VCF.Solve(wctx, pos, side, vcfBudget, vcfMaxDepth); res.Outcome == vcf.Win {
		h.publish(Outcome{Move: res.Move, DepthReached: res.Depth, Nodes: res.Nodes, Score: search.MateIn(res.Depth), PV: []board.Move{res.Move}, TimeSpent: time.Since(start), VCFHit: true}, out)
		logw.Debugf(ctx, "VCF pre-check win at %v: %v", pos, res.Move)
		return
	}

	// Step 6: aspiration-windowed iterative deepening.
	maxDepth := it.Depth.MaxDepth(alloc.Soft, profile.MinDepth)
	if limit, ok := opt.DepthLimit.V(); ok && int(limit) < maxDepth {
		maxDepth = int(limit)
	}
	if maxDepth < 1 {
		maxDepth = 1
	}

	var (
		bestMove     = board.NoMove
		bestPV       []board.Move
		prevScore    = search.Score(0)
		prevNodes    uint64
		stableRounds int
	)

	for depth := min(2, maxDepth); depth <= maxDepth; depth++ {
		if contextx.IsCancelled(wctx) || h.quit.IsClosed() {
			break
		}

		iterStart := time.Now()
		score, pv := it.searchWithAspiration(wctx, pos, side, depth, prevScore)
		elapsed := time.Since(iterStart)

		nodes := it.Searcher.Nodes()
		it.Depth.UpdateNPS(nodes, elapsed)
		it.Depth.UpdateEBF(prevNodes, nodes)
		prevNodes = nodes

		if len(pv) > 0 {
			if bestMove == pv[0] {
				stableRounds++
			} else {
				stableRounds = 0
			}
			bestMove = pv[0]
			bestPV = pv
		}
		prevScore = score

		h.publish(Outcome{
			Move:         bestMove,
			DepthReached: depth,
			Nodes:        nodes,
			Score:        score,
			PV:           bestPV,
			TimeSpent:    time.Since(start),
		}, out)

		logw.Debugf(ctx, "Searched %v to depth=%v: score=%v move=%v nodes=%v", pos, depth, score, bestMove, nodes)

		totalElapsed := time.Since(start)
		if totalElapsed >= alloc.Hard {
			return // halt: hard bound exceeded
		}
		if md, ok := score.MateDistance(); ok && md <= depth {
			return // halt: forced mate found within full-width search
		}
		if totalElapsed >= alloc.Soft && stableRounds >= 2 {
			return // halt: soft bound reached and the move has been stable
		}
		if !it.Depth.ShouldContinue(totalElapsed, alloc.Soft) {
			return // halt: next iteration unlikely to finish within budget
		}
	}
}

// searchWithAspiration runs SearchRoot at depth around an aspiration window
// centered on prevScore, widening (doubling, then to infinity) on fail-high
// or fail-low, per spec.md §4.10 step 6.
func (it *Iterative) searchWithAspiration(ctx context.Context, pos *board.Position, side board.Side, depth int, prevScore search.Score) (search.Score, []board.Move) {
	if depth <= 2 {
		return it.Searcher.SearchRoot(ctx, pos, side, depth, search.NegInf, search.Inf, nil)
	}

	width := search.Score(aspirationWindow)
	alpha, beta := prevScore-width, prevScore+width

	for {
		score, pv := it.Searcher.SearchRoot(ctx, pos, side, depth, alpha, beta, nil)
		switch {
		case score <= alpha && alpha > search.NegInf:
			width *= 2
			alpha = prevScore - width
			if width > aspirationWindow*64 {
				alpha = search.NegInf
			}
		case score >= beta && beta < search.Inf:
			width *= 2
			beta = prevScore + width
			if width > aspirationWindow*64 {
				beta = search.Inf
			}
		default:
			return score, pv
		}
	}
}

func filterForbidden(cands []board.Move, forbidden map[board.Move]bool) []board.Move {
	out := make([]board.Move, 0, len(cands))
	for _, mv := range cands {
		if !forbidden[mv] {
			out = append(out, mv)
		}
	}
	return out
}

// countForcingThreats counts side's and the opponent's forcing threats,
// feeding TimeManager.Allocate's complexity multiplier (spec.md §4.12).
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
