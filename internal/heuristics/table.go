package heuristics

import "github.com/caroengine/core/internal/board"

// Table is the shared shape of the History and Butterfly heuristics:
// `[side][x][y]` scores, bounded-updated on cutoff (spec.md §3). They are
// distinct instances of the same table shape, scored with different weights
// by the caller.
type Table struct {
	values [board.NumSides][board.NumCells]int32
}

func NewTable() *Table {
	return &Table{}
}

func (t *Table) Get(side board.Side, x, y int) int32 {
	return t.values[side][board.CellIndex(x, y)]
}

func (t *Table) Add(side board.Side, x, y int, b int32) {
	idx := board.CellIndex(x, y)
	t.values[side][idx] = boundedUpdate(t.values[side][idx], b)
}

func (t *Table) Reset() {
	*t = Table{}
}
