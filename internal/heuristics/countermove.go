package heuristics

import "github.com/caroengine/core/internal/board"

// CounterMoveTable scores a response cell against the opponent's last-move
// cell: `CounterMove[side][225][225]` (spec.md §3), bounded to [-Max,+Max].
type CounterMoveTable struct {
	values [board.NumSides][board.NumCells][board.NumCells]int32
}

func NewCounterMoveTable() *CounterMoveTable {
	return &CounterMoveTable{}
}

func (c *CounterMoveTable) Score(side board.Side, lastX, lastY, x, y int) int32 {
	return c.values[side][board.CellIndex(lastX, lastY)][board.CellIndex(x, y)]
}

func (c *CounterMoveTable) Update(side board.Side, lastX, lastY, x, y int, b int32) {
	li, ci := board.CellIndex(lastX, lastY), board.CellIndex(x, y)
	c.values[side][li][ci] = boundedUpdate(c.values[side][li][ci], b)
}

func (c *CounterMoveTable) Reset() {
	*c = CounterMoveTable{}
}
