// Package vcf implements the VCFSolver of spec.md §4.6: an attacker-only
// threat-space search for a forced win by continuous fours (and the threes
// that set them up), with a time-bounded result cache keyed by position hash.
package vcf

import (
	"context"
	"time"

	"github.com/seekerror/stdlib/pkg/util/contextx"

	"github.com/caroengine/core/internal/board"
	"github.com/caroengine/core/internal/threat"
)

// Outcome is the VCF solver's verdict for one (position, attacker) pair.
type Outcome uint8

const (
	Unsolved Outcome = iota
	Win
	Loss
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Loss:
		return "loss"
	default:
		return "unsolved"
	}
}

// Result is the outcome of a Solve call.
type Result struct {
	Outcome Outcome
	Move    board.Move // valid only when Outcome == Win
	Depth   int
	Nodes   uint64
}

// defenderResponseCap bounds the defender-response fan-out per spec.md §4.6
// step 3b ("up to 10").
const defenderResponseCap = 10

type cacheEntry struct {
	outcome Outcome
	depth   int
	age     uint32
}

// Solver holds the hash-keyed result cache across repeated Solve calls within
// one search (spec.md §4.6's "result cache keyed by position hash").
type Solver struct {
	capacity int
	cache    map[uint64]cacheEntry
	age      uint32
}

// NewSolver returns a Solver whose cache is purged lazily above capacity.
func NewSolver(capacity int) *Solver {
	return &Solver{capacity: capacity, cache: make(map[uint64]cacheEntry)}
}

// Solve searches for a forced win for attacker within the given time budget
// and depth limit. pos is not mutated on return (make/unmake is restored on
// every path).
func (s *Solver) Solve(ctx context.Context, pos *board.Position, attacker board.Side, budget time.Duration, maxDepth int) Result {
	s.age++

	// The cache does not keep the winning move, so a cached Win is searched
	// again to return it.
	if e, ok := s.cache[pos.Hash()]; ok && e.depth >= maxDepth && e.outcome != Win {
		return Result{Outcome: e.outcome, Depth: e.depth}
	}

	if threat.IsWin(pos, attacker.Opponent()) {
		res := Result{Outcome: Loss, Depth: maxDepth}
		s.store(pos.Hash(), res.Outcome, maxDepth)
		return res
	}

	deadline := time.Now().Add(budget)
	var nodes uint64

	mv, ok := s.search(ctx, pos, attacker, 0, maxDepth, deadline, &nodes)

	res := Result{Depth: maxDepth, Nodes: nodes}
	if ok {
		res.Outcome, res.Move = Win, mv
	} else {
		res.Outcome = Unsolved
	}

	s.store(pos.Hash(), res.Outcome, maxDepth)
	return res
}

// search implements spec.md §4.6's 4-step algorithm: attacker to move at pos.
// Returns the winning move and true if every defender response to some
// attacker forcing move still loses.
func (s *Solver) search(ctx context.Context, pos *board.Position, attacker board.Side, depth, maxDepth int, deadline time.Time, nodes *uint64) (board.Move, bool) {
	if depth > maxDepth || timeExpired(deadline) || contextx.IsCancelled(ctx) {
		return board.NoMove, false
	}
	*nodes++

	if mv, ok := immediateWin(pos, attacker); ok {
		return mv, true
	}
	if _, ok := immediateWin(pos, attacker.Opponent()); ok {
		return board.NoMove, false // defender would win first; cannot force through
	}

	for _, mv := range forcingGainSquares(pos, attacker) {
		if err := pos.Place(mv.X, mv.Y, attacker); err != nil {
			continue
		}

		won := s.tryMove(ctx, pos, attacker, mv, depth, maxDepth, deadline, nodes)
		_ = pos.Unplace(mv.X, mv.Y, attacker)

		if won {
			return mv, true
		}
		if timeExpired(deadline) || contextx.IsCancelled(ctx) {
			return board.NoMove, false
		}
	}
	return board.NoMove, false
}

// tryMove assumes mv has already been played by attacker; it checks for an
// outright win, else enumerates defender responses and requires every one of
// them to still lose for attacker.
func (s *Solver) tryMove(ctx context.Context, pos *board.Position, attacker board.Side, mv board.Move, depth, maxDepth int, deadline time.Time, nodes *uint64) bool {
	if threat.IsWin(pos, attacker) {
		return true
	}

	responses := defenderResponses(pos, attacker)
	if len(responses) == 0 {
		return false // mv created no forcing follow-up worth pursuing
	}

	for _, resp := range responses {
		if err := pos.Place(resp.X, resp.Y, attacker.Opponent()); err != nil {
			continue
		}
		_, stillWins := s.search(ctx, pos, attacker, depth+1, maxDepth, deadline, nodes)
		_ = pos.Unplace(resp.X, resp.Y, attacker.Opponent())

		if !stillWins {
			return false
		}
	}
	return true
}

func (s *Solver) store(hash uint64, outcome Outcome, depth int) {
	if len(s.cache) >= s.capacity {
		s.evictStale()
	}
	s.cache[hash] = cacheEntry{outcome: outcome, depth: depth, age: s.age}
}

// evictStale purges entries more than a few generations old; called lazily
// only once the cache is at capacity (spec.md §4.6).
func (s *Solver) evictStale() {
	const staleWindow = 3
	for h, e := range s.cache {
		if s.age-e.age > staleWindow {
			delete(s.cache, h)
		}
	}
}

func timeExpired(deadline time.Time) bool {
	return time.Now().After(deadline)
}

// immediateWin reports a gain square of one of side's forcing four-threats
// that, if played, wins outright.
func immediateWin(pos *board.Position, side board.Side) (board.Move, bool) {
	for _, th := range threat.Detect(pos, side) {
		if th.Type != threat.StraightFour && th.Type != threat.BrokenFour {
			continue
		}
		for _, g := range th.Gains {
			if won, err := threat.IsWinningMove(pos, side, g.X, g.Y); err == nil && won {
				return g, true
			}
		}
	}
	return board.NoMove, false
}

// forcingGainSquares dedups the gain squares of all of side's forcing threats
// (every type except BrokenThree).
func forcingGainSquares(pos *board.Position, side board.Side) []board.Move {
	seen := make(map[board.Move]bool)
	var moves []board.Move

	for _, th := range threat.Detect(pos, side) {
		if !threat.IsForcing(th.Type) {
			continue
		}
		for _, g := range th.Gains {
			if !seen[g] {
				seen[g] = true
				moves = append(moves, g)
			}
		}
	}
	return moves
}

// defenderResponses enumerates the squares defender must consider after
// attacker's move just played: the gain squares of attacker's (new) forcing
// threats (defender must block one of them), plus defender's own forcing
// counter-threats, capped at defenderResponseCap (spec.md §4.6 step 3b).
func defenderResponses(pos *board.Position, attacker board.Side) []board.Move {
	seen := make(map[board.Move]bool)
	var moves []board.Move

	add := func(ms []board.Move) {
		for _, m := range ms {
			if len(moves) >= defenderResponseCap {
				return
			}
			if !seen[m] {
				seen[m] = true
				moves = append(moves, m)
			}
		}
	}

	add(forcingGainSquares(pos, attacker))
	add(forcingGainSquares(pos, attacker.Opponent()))
	return moves
}
