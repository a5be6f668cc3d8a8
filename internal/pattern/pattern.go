// Package pattern implements the line-pattern taxonomy and the asymmetric
// PatternEvaluator described in spec.md §3 and §4.3.
package pattern

import (
	"github.com/caroengine/core/internal/board"
)

// Pattern classifies a run of same-side stones along one line, given its length and
// the openness of its two flanking cells. See spec.md §3 "Pattern taxonomy".
type Pattern uint8

const (
	None Pattern = iota
	Flex1
	Block1
	Flex2
	Block2
	Flex3
	Block3
	Flex4  // open four: both ends open
	Block4 // semi-open four: exactly one end open
	DoubleFlex3
	Flex4Flex3
	Exactly5
	Overline
)

func (p Pattern) String() string {
	switch p {
	case None:
		return "none"
	case Flex1:
		return "flex1"
	case Block1:
		return "block1"
	case Flex2:
		return "flex2"
	case Block2:
		return "block2"
	case Flex3:
		return "flex3"
	case Block3:
		return "block3"
	case Flex4:
		return "flex4"
	case Block4:
		return "block4"
	case DoubleFlex3:
		return "double-flex3"
	case Flex4Flex3:
		return "flex4-flex3"
	case Exactly5:
		return "exactly5"
	case Overline:
		return "overline"
	default:
		return "?"
	}
}

// Directions are the four axes scanned by the evaluator and the threat detector.
var Directions = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// Run describes a maximal same-side run of stones along one direction, anchored at its
// first (lowest-offset) stone.
type Run struct {
	X, Y       int // anchor (start) cell
	DX, DY     int
	Length     int
	OpenLeft   bool // flank cell before the run is empty and in bounds
	OpenRight  bool // flank cell after the run is empty and in bounds
	Sandwiched bool // both flank cells in bounds and occupied by the opponent
}

func (r Run) openEnds() int {
	n := 0
	if r.OpenLeft {
		n++
	}
	if r.OpenRight {
		n++
	}
	return n
}

// Classify maps a run's shape to the Pattern taxonomy (spec.md §3 rules: Exactly5 is the
// only winning length; overline and OXXXXXO never win; open/closed determined by flanks).
func (r Run) Classify() Pattern {
	switch {
	case r.Length >= 6:
		return Overline
	case r.Length == 5:
		if r.Sandwiched {
			return Overline
		}
		return Exactly5
	case r.Length == 4:
		switch r.openEnds() {
		case 2:
			return Flex4
		case 1:
			return Block4
		default:
			return None
		}
	case r.Length == 3:
		switch r.openEnds() {
		case 2:
			return Flex3
		case 1:
			return Block3
		default:
			return None
		}
	case r.Length == 2:
		switch r.openEnds() {
		case 2:
			return Flex2
		case 1:
			return Block2
		default:
			return None
		}
	case r.Length == 1:
		switch r.openEnds() {
		case 2:
			return Flex1
		case 1:
			return Block1
		default:
			return None
		}
	default:
		return None
	}
}

// RunThrough returns the maximal run of side's stones along (dx,dy) through (x,y),
// which must already be occupied by side. The run is anchored at its first stone so
// that repeated calls along a scan line agree on the same Run for every cell in it.
func RunThrough(pos *board.Position, side board.Side, x, y, dx, dy int) Run {
	sx, sy := x, y
	for owns(pos, side, sx-dx, sy-dy) {
		sx -= dx
		sy -= dy
	}

	length := 0
	cx, cy := sx, sy
	for owns(pos, side, cx, cy) {
		length++
		cx += dx
		cy += dy
	}
	// cx,cy is now the right flank; left flank is one step before sx,sy.
	lx, ly := sx-dx, sy-dy

	return Run{
		X: sx, Y: sy, DX: dx, DY: dy, Length: length,
		OpenLeft:   isEmptyInBounds(pos, lx, ly),
		OpenRight:  isEmptyInBounds(pos, cx, cy),
		Sandwiched: isOpponentInBounds(pos, side, lx, ly) && isOpponentInBounds(pos, side, cx, cy),
	}
}

func owns(pos *board.Position, side board.Side, x, y int) bool {
	return inBounds(x, y) && pos.At(x, y) == cellOf(side)
}

func isEmptyInBounds(pos *board.Position, x, y int) bool {
	return inBounds(x, y) && pos.IsEmpty(x, y)
}

func isOpponentInBounds(pos *board.Position, side board.Side, x, y int) bool {
	return inBounds(x, y) && pos.At(x, y) == cellOf(side.Opponent())
}

func inBounds(x, y int) bool {
	return x >= 0 && x < board.Size && y >= 0 && y < board.Size
}

func cellOf(s board.Side) board.Cell {
	if s == board.Red {
		return board.RedCell
	}
	return board.BlueCell
}

// ClassifyAt returns the strongest combined Pattern at an occupied cell (x,y), considering
// all four axes together: DoubleFlex3 when two distinct axes each yield Flex3, Flex4Flex3
// when one axis yields Flex4 and another yields Flex3, otherwise the single strongest axis
// classification.
func ClassifyAt(pos *board.Position, side board.Side, x, y int) Pattern {
	var best Pattern
	flex3Count, hasFlex4 := 0, false

	for _, d := range Directions {
		p := RunThrough(pos, side, x, y, d[0], d[1]).Classify()
		switch p {
		case Flex3:
			flex3Count++
		case Flex4:
			hasFlex4 = true
		}
		if p > best {
			best = p
		}
	}

	switch {
	case hasFlex4 && flex3Count >= 1:
		return Flex4Flex3
	case flex3Count >= 2:
		return DoubleFlex3
	default:
		return best
	}
}

// IsWinningPattern returns true for the patterns the MovePicker's "Winning" stage admits:
// Flex4, Flex4Flex3, DoubleFlex3 or Exactly5 (spec.md §4.9).
func IsWinningPattern(p Pattern) bool {
	switch p {
	case Flex4, Flex4Flex3, DoubleFlex3, Exactly5:
		return true
	default:
		return false
	}
}
