package search

import (
	"context"
	"math/rand"

	"github.com/seekerror/stdlib/pkg/util/contextx"

	"github.com/caroengine/core/internal/board"
	"github.com/caroengine/core/internal/heuristics"
	"github.com/caroengine/core/internal/pattern"
	"github.com/caroengine/core/internal/picker"
	"github.com/caroengine/core/internal/threat"
	"github.com/caroengine/core/internal/tt"
)

// Searcher holds everything one search thread needs across a full iterative
// deepening run: the shared TT (sequential or lock-free, behind the
// TranspositionTable interface below), this thread's private heuristic
// tables, and the evaluator. Mirrors morlock's runAlphaBeta/runPVS: one
// struct per in-flight search, reused node by node (pkg/search/alphabeta.go,
// pkg/search/pvs.go).
type Searcher struct {
	TT          TranspositionTable
	Heuristics  *heuristics.Set
	Eval        pattern.Evaluator
	Config      Config
	ThreadIndex int

	// Forbidden, if non-nil, excludes cells from the root's candidate set
	// only (the Open Rule restriction, spec.md §4.10 step 1); interior
	// nodes are never restricted.
	Forbidden map[board.Move]bool

	// Jitter, if non-nil, perturbs MovePicker's within-stage move order at
	// every node. A Lazy-SMP helper thread sets this (seeded from its thread
	// index, spec.md §4.11) to diversify the shared TT's population; the
	// master thread leaves it nil so its search stays fully deterministic.
	Jitter *rand.Rand

	nodes uint64
}

// TranspositionTable abstracts over internal/tt's sequential Table and
// LockFreeTT, so Searcher works unmodified under both single-threaded and
// Lazy-SMP search (spec.md §4.7 vs §4.8).
type TranspositionTable interface {
	Lookup(hash uint64, depth int, alpha, beta int32) (cutoff bool, value int32, move board.Move, found bool)
	Store(hash uint64, depth int, value int32, move board.Move, alpha, beta int32)
}

var _ TranspositionTable = (*tt.Table)(nil)

// lockFreeAdapter adapts tt.LockFreeTT (Load/Store by Entry) to the
// TranspositionTable interface's Lookup/Store shape, since the lock-free
// table has no alpha/beta-aware cutoff logic of its own (spec.md §4.8: it is
// a pure key-value store, cutoff derivation happens at the call site).
type lockFreeAdapter struct {
	t   *tt.LockFreeTT
	age uint8
}

// NewLockFreeAdapter wraps t so it satisfies TranspositionTable. age tags
// every store from this search generation; the engine bumps it once per
// move played so stale entries lose replacement priority (spec.md §4.8).
func NewLockFreeAdapter(t *tt.LockFreeTT, age uint8) TranspositionTable {
	return lockFreeAdapter{t: t, age: age}
}

func (a lockFreeAdapter) Lookup(hash uint64, depth int, alpha, beta int32) (bool, int32, board.Move, bool) {
	e, ok := a.t.Load(hash)
	if !ok {
		return false, 0, board.NoMove, false
	}
	if int(e.Depth) < depth {
		return false, 0, e.Move, true
	}
	switch e.Bound {
	case tt.Exact:
		return true, e.Value, e.Move, true
	case tt.Lower:
		if e.Value >= beta {
			return true, e.Value, e.Move, true
		}
	case tt.Upper:
		if e.Value <= alpha {
			return true, e.Value, e.Move, true
		}
	}
	return false, 0, e.Move, true
}

func (a lockFreeAdapter) Store(hash uint64, depth int, value int32, move board.Move, alpha, beta int32) {
	a.t.Store(hash, depth, value, move, alpha, beta, a.age)
}

// Nodes returns the node count accumulated since the Searcher was created.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Negamax implements spec.md §4.10's `minimax` (negamax form): returns the
// score for side to move, and the best move found at this node: the TT move
// on a TT cutoff, board.NoMove on cancellation, a terminal position, the
// horizon, or a null-move cutoff.
func (s *Searcher) Negamax(ctx context.Context, pos *board.Position, side board.Side, depth, ply int, alpha, beta Score, priorMoves []board.Move) (Score, board.Move) {
	if contextx.IsCancelled(ctx) {
		return 0, board.NoMove
	}
	if threat.IsWin(pos, side.Opponent()) {
		return -MateIn(ply), board.NoMove
	}
	if depth <= 0 {
		return s.quiesce(ctx, pos, side, alpha, beta, 0), board.NoMove
	}

	s.nodes++
	origAlpha, origBeta := alpha, beta
	isPV := beta-alpha > 1

	if depth >= s.Config.NullMoveMinDepth && !isPV && isNullMoveSafe(pos, side, s.Config.MinStonesForNullMove) {
		score, _ := s.Negamax(ctx, pos, side.Opponent(), depth-1-s.Config.NullMoveReduction, ply+1, beta.Negate(), beta.Negate()+1, priorMoves)
		if score.Negate() >= beta {
			return beta, board.NoMove
		}
	}

	hash := pos.Hash()
	var ttMove = board.NoMove
	if cutoff, value, move, found := s.TT.Lookup(hash, depth, int32(alpha), int32(beta)); found {
		ttMove = move
		if cutoff {
			return Score(value), move
		}
	}

	oppThreats := threat.Detect(pos, side.Opponent())
	mustBlock := mustBlockSquares(oppThreats)

	p := picker.New(pos, side, ttMove, ply, s.Heuristics, priorMoves, s.rootForbidden(ply))
	if s.Jitter != nil {
		p.Shuffle(s.Jitter)
	}

	best := board.NoMove
	bestScore := NegInf
	i := 0
	for {
		mv, ok := p.NextMove()
		if !ok {
			break
		}

		_ = pos.Place(mv.X, mv.Y, side)
		childPrior := append(append([]board.Move{}, priorMoves...), mv)

		var score Score
		switch {
		case i == 0 && depth >= 2:
			score, _ = s.Negamax(ctx, pos, side.Opponent(), depth-1, ply+1, beta.Negate(), alpha.Negate(), childPrior)
			score = score.Negate()
		default:
			reduction := 0
			if depth >= s.Config.LMRMinDepth && i >= s.Config.LMRFullDepthMoves && !isCritical(pos, side, mv, mustBlock) {
				reduction = 1 + minInt(2, (i-s.Config.LMRFullDepthMoves)/4)
			}
			newDepth := depth - 1 - reduction
			if newDepth < 0 {
				newDepth = 0
			}
			score, _ = s.Negamax(ctx, pos, side.Opponent(), newDepth, ply+1, alpha.Negate()-1, alpha.Negate(), childPrior)
			score = score.Negate()
			if score > alpha && score < beta {
				score, _ = s.Negamax(ctx, pos, side.Opponent(), depth-1, ply+1, beta.Negate(), alpha.Negate(), childPrior)
				score = score.Negate()
			}
		}
		_ = pos.Unplace(mv.X, mv.Y, side)
		i++

		if score > bestScore {
			bestScore = score
			best = mv
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			s.Heuristics.RecordCutoff(ply, side, mv, depth, priorMoves)
			break
		}
	}

	if best == board.NoMove {
		return 0, board.NoMove // no legal moves: board full, a draw
	}

	s.TT.Store(hash, depth, int32(bestScore), best, int32(origAlpha), int32(origBeta))
	return bestScore, best
}

// rootForbidden returns the Open Rule restriction set only for the root
// node (ply 0); every interior node sees an unrestricted board.
func (s *Searcher) rootForbidden(ply int) map[board.Move]bool {
	if ply != 0 {
		return nil
	}
	return s.Forbidden
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
