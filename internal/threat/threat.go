// Package threat implements the ThreatDetector and WinDetector described in
// spec.md §4.4/§4.5: classifying near-winning shapes into a small taxonomy of
// forcing threats, and deciding outright whether a side has already won.
package threat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/caroengine/core/internal/board"
	"github.com/caroengine/core/internal/pattern"
)

// Type is the threat taxonomy of spec.md §4.4.
type Type uint8

const (
	StraightFour Type = iota
	BrokenFour
	StraightThree
	BrokenThree
)

func (t Type) String() string {
	switch t {
	case StraightFour:
		return "straight-four"
	case BrokenFour:
		return "broken-four"
	case StraightThree:
		return "straight-three"
	case BrokenThree:
		return "broken-three"
	default:
		return "?"
	}
}

// IsForcing reports whether a threat of this type compels an immediate
// response; every type does except BrokenThree.
func IsForcing(t Type) bool {
	return t != BrokenThree
}

// Threat is a classified near-winning shape together with the squares that
// would complete or advance it.
type Threat struct {
	Type   Type
	Side   board.Side
	Stones []board.Move
	Gains  []board.Move
}

// Detect scans every one of side's stones along the four scan axes and
// classifies the maximal line context around each into the threat taxonomy,
// deduplicated by (type, stones).
func Detect(pos *board.Position, side board.Side) []Threat {
	var threats []Threat
	seen := make(map[string]bool)

	bitboardOf(pos, side).IterSetBits(func(x, y int) bool {
		for _, d := range pattern.Directions {
			dx, dy := d[0], d[1]
			threats = appendStraightThreat(pos, side, x, y, dx, dy, threats, seen)
			threats = appendBrokenFour(pos, side, x, y, dx, dy, threats, seen)
			threats = appendBrokenThree(pos, side, x, y, dx, dy, threats, seen)
		}
		return true
	})
	return threats
}

// IsWinningMove places side at (x,y), checks whether that wins outright, and
// unplaces it again. (x,y) must be empty and in bounds.
func IsWinningMove(pos *board.Position, side board.Side, x, y int) (bool, error) {
	if err := pos.Place(x, y, side); err != nil {
		return false, err
	}
	won := IsWin(pos, side)
	if err := pos.Unplace(x, y, side); err != nil {
		return false, err
	}
	return won, nil
}

// appendStraightThreat handles the two shapes built from a single maximal
// contiguous run: StraightFour (length 4, at least one open end) and
// StraightThree (length 3, both ends open).
func appendStraightThreat(pos *board.Position, side board.Side, x, y, dx, dy int, threats []Threat, seen map[string]bool) []Threat {
	if owns(pos, side, x-dx, y-dy) {
		return threats // (x,y) is not this run's anchor
	}
	run := pattern.RunThrough(pos, side, x, y, dx, dy)

	switch {
	case run.Length == 4:
		gains := openFlankGains(pos, side, run)
		if len(gains) == 0 {
			return threats // both candidate gain squares would overline or sandwich
		}
		return appendThreat(threats, seen, StraightFour, side, stonesOfRun(run), gains)
	case run.Length == 3 && run.OpenLeft && run.OpenRight:
		gains := []board.Move{
			{X: run.X - dx, Y: run.Y - dy},
			{X: run.X + 3*dx, Y: run.Y + 3*dy},
		}
		return appendThreat(threats, seen, StraightThree, side, stonesOfRun(run), gains)
	default:
		return threats
	}
}

// openFlankGains returns the open flank cells of a length-4 run, excluding any
// flank at which placing side's stone would complete an Overline or a
// sandwiched five rather than a genuine Exactly5 (spec.md §4.4).
func openFlankGains(pos *board.Position, side board.Side, run pattern.Run) []board.Move {
	var gains []board.Move
	if run.OpenLeft {
		gx, gy := run.X-run.DX, run.Y-run.DY
		if completesCleanFive(pos, side, gx, gy, run.DX, run.DY) {
			gains = append(gains, board.Move{X: gx, Y: gy})
		}
	}
	if run.OpenRight {
		gx, gy := run.X+run.Length*run.DX, run.Y+run.Length*run.DY
		if completesCleanFive(pos, side, gx, gy, run.DX, run.DY) {
			gains = append(gains, board.Move{X: gx, Y: gy})
		}
	}
	return gains
}

func completesCleanFive(pos *board.Position, side board.Side, x, y, dx, dy int) bool {
	if err := pos.Place(x, y, side); err != nil {
		return false
	}
	cls := pattern.RunThrough(pos, side, x, y, dx, dy).Classify()
	_ = pos.Unplace(x, y, side)
	return cls != pattern.Overline // Overline also covers the sandwiched-five case
}

// appendBrokenFour looks for a 5-cell window, starting at (x,y), containing
// exactly four of side's stones and one internal gap (XXX_X / X_XXX / XX_XX).
func appendBrokenFour(pos *board.Position, side board.Side, x, y, dx, dy int, threats []Threat, seen map[string]bool) []Threat {
	states := lineStates(pos, side, x, y, dx, dy, 5)
	ones, gapIdx := countStates(states)
	if ones != 4 || gapIdx < 1 || gapIdx > 3 {
		return threats
	}

	gx, gy := x+gapIdx*dx, y+gapIdx*dy
	stones := make([]board.Move, 0, 4)
	for i := 0; i < 5; i++ {
		if i == gapIdx {
			continue
		}
		stones = append(stones, board.Move{X: x + i*dx, Y: y + i*dy})
	}
	return appendThreat(threats, seen, BrokenFour, side, stones, []board.Move{{X: gx, Y: gy}})
}

// appendBrokenThree looks for a 4-cell window, starting at (x,y), containing
// exactly three of side's stones and one internal gap (XX_X / X_XX).
func appendBrokenThree(pos *board.Position, side board.Side, x, y, dx, dy int, threats []Threat, seen map[string]bool) []Threat {
	states := lineStates(pos, side, x, y, dx, dy, 4)
	ones, gapIdx := countStates(states)
	if ones != 3 || (gapIdx != 1 && gapIdx != 2) {
		return threats
	}

	gx, gy := x+gapIdx*dx, y+gapIdx*dy
	stones := make([]board.Move, 0, 3)
	for i := 0; i < 4; i++ {
		if i == gapIdx {
			continue
		}
		stones = append(stones, board.Move{X: x + i*dx, Y: y + i*dy})
	}
	return appendThreat(threats, seen, BrokenThree, side, stones, []board.Move{{X: gx, Y: gy}})
}

func appendThreat(threats []Threat, seen map[string]bool, t Type, side board.Side, stones, gains []board.Move) []Threat {
	key := threatKey(t, stones)
	if seen[key] {
		return threats
	}
	seen[key] = true
	return append(threats, Threat{Type: t, Side: side, Stones: stones, Gains: gains})
}

func threatKey(t Type, stones []board.Move) string {
	sorted := append([]board.Move(nil), stones...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	var b strings.Builder
	fmt.Fprintf(&b, "%d", t)
	for _, s := range sorted {
		fmt.Fprintf(&b, ":%d,%d", s.X, s.Y)
	}
	return b.String()
}

func stonesOfRun(r pattern.Run) []board.Move {
	stones := make([]board.Move, r.Length)
	for i := 0; i < r.Length; i++ {
		stones[i] = board.Move{X: r.X + i*r.DX, Y: r.Y + i*r.DY}
	}
	return stones
}

// lineStates reports, for n consecutive cells starting at (x,y) stepping by
// (dx,dy): 1 for side's own stone, 0 for empty, 2 for the opponent's stone, -1
// for off-board.
func lineStates(pos *board.Position, side board.Side, x, y, dx, dy, n int) []int8 {
	states := make([]int8, n)
	for i := 0; i < n; i++ {
		states[i] = stateAt(pos, side, x+i*dx, y+i*dy)
	}
	return states
}

// countStates returns the count of side's own stones, and the index of the
// single empty cell if there is exactly one (and no opponent or off-board
// cell in the window); otherwise gapIdx is -1.
func countStates(states []int8) (ones int, gapIdx int) {
	gapIdx = -1
	zeros := 0
	for i, s := range states {
		switch s {
		case 1:
			ones++
		case 0:
			zeros++
			gapIdx = i
		default:
			return -1, -1
		}
	}
	if zeros != 1 {
		gapIdx = -1
	}
	return ones, gapIdx
}

func stateAt(pos *board.Position, side board.Side, x, y int) int8 {
	if x < 0 || x >= board.Size || y < 0 || y >= board.Size {
		return -1
	}
	switch pos.At(x, y) {
	case board.Empty:
		return 0
	case cellOf(side):
		return 1
	default:
		return 2
	}
}

func owns(pos *board.Position, side board.Side, x, y int) bool {
	return x >= 0 && x < board.Size && y >= 0 && y < board.Size && pos.At(x, y) == cellOf(side)
}

func bitboardOf(pos *board.Position, side board.Side) board.BitBoard {
	if side == board.Red {
		return pos.Red()
	}
	return pos.Blue()
}

func cellOf(s board.Side) board.Cell {
	if s == board.Red {
		return board.RedCell
	}
	return board.BlueCell
}
