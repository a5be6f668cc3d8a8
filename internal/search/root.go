package search

import (
	"context"

	"github.com/caroengine/core/internal/board"
	"github.com/caroengine/core/internal/picker"
)

// SearchRoot implements spec.md §4.10's `search_root`: it iterates
// MovePicker at the root exactly like an interior Negamax node, but keeps
// the full principal variation instead of only the best move, and is always
// a PV (full-window) node. Mirrors morlock's runPVS.search top frame
// (pkg/search/pvs.go), generalized from a fixed pv-slice accumulation to
// this engine's move representation.
func (s *Searcher) SearchRoot(ctx context.Context, pos *board.Position, side board.Side, depth int, alpha, beta Score, priorMoves []board.Move) (Score, []board.Move) {
	hash := pos.Hash()

	var ttMove = board.NoMove
	if _, _, move, found := s.TT.Lookup(hash, depth, int32(alpha), int32(beta)); found {
		ttMove = move
	}

	p := picker.New(pos, side, ttMove, 0, s.Heuristics, priorMoves, s.Forbidden)
	if s.Jitter != nil {
		p.Shuffle(s.Jitter)
	}

	var bestPV []board.Move
	best := board.NoMove
	bestScore := NegInf
	origAlpha, origBeta := alpha, beta
	i := 0

	for {
		mv, ok := p.NextMove()
		if !ok {
			break
		}

		_ = pos.Place(mv.X, mv.Y, side)
		childPrior := append(append([]board.Move{}, priorMoves...), mv)

		var score Score
		var childPV []board.Move
		if i == 0 {
			score, childPV = s.pvChild(ctx, pos, side.Opponent(), depth-1, 1, beta.Negate(), alpha.Negate(), childPrior)
		} else {
			score, childPV = s.pvChild(ctx, pos, side.Opponent(), depth-1, 1, alpha.Negate()-1, alpha.Negate(), childPrior)
			if score.Negate() > alpha && score.Negate() < beta {
				score, childPV = s.pvChild(ctx, pos, side.Opponent(), depth-1, 1, beta.Negate(), alpha.Negate(), childPrior)
			}
		}
		score = score.Negate()
		_ = pos.Unplace(mv.X, mv.Y, side)
		i++

		if score > bestScore {
			bestScore = score
			best = mv
			bestPV = append([]board.Move{mv}, childPV...)
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			s.Heuristics.RecordCutoff(0, side, mv, depth, priorMoves)
			break
		}
	}

	if best == board.NoMove {
		return 0, nil
	}

	s.TT.Store(hash, depth, int32(bestScore), best, int32(origAlpha), int32(origBeta))
	return bestScore, bestPV
}

// pvChild runs one root child to depth and also reconstructs its own PV tail
// by re-deriving it from the TT best-move chain, since Negamax itself only
// returns the immediate best move at each node (spec.md §4.10 leaves PV
// reconstruction to the root driver, the way morlock's runPVS does via its
// recursive pv slice).
func (s *Searcher) pvChild(ctx context.Context, pos *board.Position, side board.Side, depth, ply int, alpha, beta Score, priorMoves []board.Move) (Score, []board.Move) {
	score, _ := s.Negamax(ctx, pos, side, depth, ply, alpha, beta, priorMoves)
	return score, s.extractPV(pos, side, depth)
}

// extractPV walks the TT's best-move chain from pos forward, playing and
// unplaying each stored move, up to depth plies or until the chain breaks.
func (s *Searcher) extractPV(pos *board.Position, side board.Side, depth int) []board.Move {
	if depth <= 0 {
		return nil
	}

	_, _, move, found := s.TT.Lookup(pos.Hash(), 0, int32(NegInf), int32(Inf))
	if !found || move == board.NoMove {
		return nil
	}
	if err := pos.Place(move.X, move.Y, side); err != nil {
		return nil
	}
	defer func() { _ = pos.Unplace(move.X, move.Y, side) }()

	return append([]board.Move{move}, s.extractPV(pos, side.Opponent(), depth-1)...)
}
