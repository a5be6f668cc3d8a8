package search

import (
	"context"

	"github.com/seekerror/stdlib/pkg/util/contextx"

	"github.com/caroengine/core/internal/board"
	"github.com/caroengine/core/internal/picker"
	"github.com/caroengine/core/internal/threat"
)

// quiesce implements spec.md §4.10's quiescence search: the static
// evaluation is the stand-pat lower bound, and only tactical moves (threats
// created or blocked) are explored, capped at Config.QuiescenceMaxPly beyond
// the main search horizon.
func (s *Searcher) quiesce(ctx context.Context, pos *board.Position, side board.Side, alpha, beta Score, qply int) Score {
	if contextx.IsCancelled(ctx) {
		return 0
	}
	if threat.IsWin(pos, side.Opponent()) {
		return -Mate
	}

	s.nodes++

	standPat := Score(s.Eval.Evaluate(pos, side))
	if standPat >= beta {
		return beta
	}
	alpha = maxScore(alpha, standPat)

	if qply >= s.Config.QuiescenceMaxPly {
		return alpha
	}

	mustBlock := mustBlockSquares(threat.Detect(pos, side.Opponent()))
	for _, mv := range picker.Candidates(pos) {
		if !isCritical(pos, side, mv, mustBlock) {
			continue
		}

		_ = pos.Place(mv.X, mv.Y, side)
		score := s.quiesce(ctx, pos, side.Opponent(), beta.Negate(), alpha.Negate(), qply+1).Negate()
		_ = pos.Unplace(mv.X, mv.Y, side)

		alpha = maxScore(alpha, score)
		if alpha >= beta {
			return beta
		}
	}
	return alpha
}
