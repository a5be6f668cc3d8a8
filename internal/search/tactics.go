package search

import (
	"github.com/caroengine/core/internal/board"
	"github.com/caroengine/core/internal/pattern"
	"github.com/caroengine/core/internal/threat"
)

// mustBlockSquares collects the gain squares of side's live four-type
// threats: the squares an opponent move must occupy to avoid an immediate
// loss (spec.md §4.10 step "blocker").
func mustBlockSquares(threats []threat.Threat) map[board.Move]bool {
	out := make(map[board.Move]bool)
	for _, th := range threats {
		if th.Type != threat.StraightFour && th.Type != threat.BrokenFour {
			continue
		}
		for _, g := range th.Gains {
			out[g] = true
		}
	}
	return out
}

// isTacticalPattern reports whether p is forcing enough to be worth a
// quiescence extension or to exempt a move from late-move reduction.
func isTacticalPattern(p pattern.Pattern) bool {
	switch p {
	case pattern.Flex3, pattern.Block4, pattern.Flex4, pattern.DoubleFlex3, pattern.Flex4Flex3, pattern.Exactly5:
		return true
	default:
		return false
	}
}

// isCritical reports whether placing mv for side in pos would itself create
// a forcing pattern, or whether mv occupies one of mustBlock's squares. Both
// are "critical" in spec.md §4.10's LMR exemption sense.
func isCritical(pos *board.Position, side board.Side, mv board.Move, mustBlock map[board.Move]bool) bool {
	if mustBlock[mv] {
		return true
	}
	if err := pos.Place(mv.X, mv.Y, side); err != nil {
		return false
	}
	p := pattern.ClassifyAt(pos, side, mv.X, mv.Y)
	_ = pos.Unplace(mv.X, mv.Y, side)
	return isTacticalPattern(p)
}

// isNullMoveSafe reports whether passing the move is safe from side's
// perspective: the opponent holds no live four and no open three, and the
// board is past the opening where zugzwang-like tactics dominate (spec.md
// §4.10 "is_null_move_safe").
func isNullMoveSafe(pos *board.Position, side board.Side, minStones int) bool {
	stones := pos.Red().PopCount() + pos.Blue().PopCount()
	if stones < minStones {
		return false
	}
	for _, th := range threat.Detect(pos, side.Opponent()) {
		if threat.IsForcing(th.Type) {
			return false
		}
	}
	return true
}
