package threat

import (
	"github.com/caroengine/core/internal/board"
	"github.com/caroengine/core/internal/pattern"
)

// IsWin reports whether side already has an unambiguous five-in-a-row: a
// maximal run of exactly five stones, not sandwiched by the opponent on both
// ends (spec.md §4.5). Overlines and sandwiched fives do not count.
func IsWin(pos *board.Position, side board.Side) bool {
	won := false

	bitboardOf(pos, side).IterSetBits(func(x, y int) bool {
		for _, d := range pattern.Directions {
			dx, dy := d[0], d[1]
			if owns(pos, side, x-dx, y-dy) {
				continue // not this run's anchor
			}
			if pattern.RunThrough(pos, side, x, y, dx, dy).Classify() == pattern.Exactly5 {
				won = true
				return false
			}
		}
		return true
	})
	return won
}

// Winner returns the side that has won, if any.
func Winner(pos *board.Position) (board.Side, bool) {
	if IsWin(pos, board.Red) {
		return board.Red, true
	}
	if IsWin(pos, board.Blue) {
		return board.Blue, true
	}
	return 0, false
}
