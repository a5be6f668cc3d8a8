package heuristics

import "github.com/caroengine/core/internal/board"

// ContinuationDepth is how many previous plies continuation history tracks
// (spec.md §3: "up to 6 previous plies").
const ContinuationDepth = 6

// ContinuationHistory scores a response cell against the cell played
// `distance` plies ago, for distance in [1,ContinuationDepth]. It reuses
// CounterMoveTable's shape per distance, since both are a (side, prior cell,
// current cell) -> bounded score table.
type ContinuationHistory struct {
	byDistance [ContinuationDepth]*CounterMoveTable
}

func NewContinuationHistory() *ContinuationHistory {
	ch := &ContinuationHistory{}
	for i := range ch.byDistance {
		ch.byDistance[i] = NewCounterMoveTable()
	}
	return ch
}

func (c *ContinuationHistory) Score(distance int, side board.Side, prevX, prevY, x, y int) int32 {
	if distance < 1 || distance > ContinuationDepth {
		return 0
	}
	return c.byDistance[distance-1].Score(side, prevX, prevY, x, y)
}

func (c *ContinuationHistory) Update(distance int, side board.Side, prevX, prevY, x, y int, b int32) {
	if distance < 1 || distance > ContinuationDepth {
		return
	}
	c.byDistance[distance-1].Update(side, prevX, prevY, x, y, b)
}

func (c *ContinuationHistory) Reset() {
	for _, t := range c.byDistance {
		t.Reset()
	}
}
