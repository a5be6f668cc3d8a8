package searchctl

import (
	"github.com/caroengine/core/internal/board"
	"github.com/caroengine/core/internal/threat"
)

// criticalDefense implements spec.md §4.10 step 4: if the opponent has a
// live StraightFour or an open three (StraightThree — both ends open, by
// construction of threat.Detect), return a blocking gain square immediately,
// ties broken by proximity to the board center.
func criticalDefense(pos *board.Position, side board.Side) (board.Move, bool) {
	opp := side.Opponent()
	best := board.NoMove
	bestDist := 1 << 30
	found := false

	for _, th := range threat.Detect(pos, opp) {
		if th.Type != threat.StraightFour && th.Type != threat.StraightThree {
			continue
		}
		for _, g := range th.Gains {
			d := centerDistance(g)
			if !found || d < bestDist {
				found, best, bestDist = true, g, d
			}
		}
	}
	return best, found
}

func centerDistance(mv board.Move) int {
	const cx, cy = board.Size / 2, board.Size / 2
	return absInt(mv.X-cx) + absInt(mv.Y-cy)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
