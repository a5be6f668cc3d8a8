package heuristics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caroengine/core/internal/board"
	"github.com/caroengine/core/internal/heuristics"
)

func TestKillerMoves_PushAndDemote(t *testing.T) {
	k := heuristics.NewKillerMoves()
	a, b, c := board.Move{X: 1, Y: 1}, board.Move{X: 2, Y: 2}, board.Move{X: 3, Y: 3}

	k.Push(5, a)
	assert.True(t, k.Contains(5, a))

	k.Push(5, b)
	assert.True(t, k.Contains(5, a))
	assert.True(t, k.Contains(5, b))

	k.Push(5, c)
	assert.False(t, k.Contains(5, a), "oldest killer must be evicted once two newer ones exist")
	assert.True(t, k.Contains(5, b))
	assert.True(t, k.Contains(5, c))
}

func TestKillerMoves_DifferentPliesAreIndependent(t *testing.T) {
	k := heuristics.NewKillerMoves()
	mv := board.Move{X: 4, Y: 4}
	k.Push(1, mv)
	assert.False(t, k.Contains(2, mv))
}

func TestTable_BoundedUpdateStaysWithinMax(t *testing.T) {
	table := heuristics.NewTable()
	for i := 0; i < 1000; i++ {
		table.Add(board.Red, 7, 7, heuristics.Max)
		assert.LessOrEqual(t, table.Get(board.Red, 7, 7), int32(heuristics.Max))
		assert.GreaterOrEqual(t, table.Get(board.Red, 7, 7), int32(-heuristics.Max))
	}
}

func TestTable_NegativeUpdatesAlsoStayBounded(t *testing.T) {
	table := heuristics.NewTable()
	for i := 0; i < 1000; i++ {
		table.Add(board.Blue, 0, 0, -heuristics.Max)
		assert.GreaterOrEqual(t, table.Get(board.Blue, 0, 0), int32(-heuristics.Max))
	}
}

func TestTable_SidesAreIndependent(t *testing.T) {
	table := heuristics.NewTable()
	table.Add(board.Red, 1, 1, 500)
	assert.Equal(t, int32(0), table.Get(board.Blue, 1, 1))
}

func TestCounterMoveTable_BoundedAndIndexedByLastMove(t *testing.T) {
	cm := heuristics.NewCounterMoveTable()
	cm.Update(board.Red, 3, 3, 4, 4, 1000)
	assert.Equal(t, int32(1000), cm.Score(board.Red, 3, 3, 4, 4))
	assert.Equal(t, int32(0), cm.Score(board.Red, 3, 3, 5, 5))

	for i := 0; i < 500; i++ {
		cm.Update(board.Red, 3, 3, 4, 4, heuristics.Max)
	}
	assert.LessOrEqual(t, cm.Score(board.Red, 3, 3, 4, 4), int32(heuristics.Max))
}

func TestContinuationHistory_DistanceOutOfRangeIsNoop(t *testing.T) {
	ch := heuristics.NewContinuationHistory()
	ch.Update(0, board.Red, 1, 1, 2, 2, 1000)
	ch.Update(heuristics.ContinuationDepth+1, board.Red, 1, 1, 2, 2, 1000)
	assert.Equal(t, int32(0), ch.Score(0, board.Red, 1, 1, 2, 2))
}

func TestContinuationHistory_DistancesAreIndependent(t *testing.T) {
	ch := heuristics.NewContinuationHistory()
	ch.Update(1, board.Red, 1, 1, 2, 2, 500)
	assert.Equal(t, int32(0), ch.Score(2, board.Red, 1, 1, 2, 2))
	assert.Equal(t, int32(500), ch.Score(1, board.Red, 1, 1, 2, 2))
}

func TestSet_RecordCutoffUpdatesAllTables(t *testing.T) {
	s := heuristics.NewSet()
	mv := board.Move{X: 7, Y: 7}
	prior := []board.Move{{X: 1, Y: 1}, {X: 2, Y: 2}}

	s.RecordCutoff(3, board.Red, mv, 4, prior)

	assert.True(t, s.Killers.Contains(3, mv))
	assert.Equal(t, int32(16), s.History.Get(board.Red, 7, 7))   // depth^2 = 16
	assert.Equal(t, int32(32), s.Butterfly.Get(board.Red, 7, 7)) // 2*depth^2 = 32
	assert.Greater(t, s.CounterMove.Score(board.Red, 2, 2, 7, 7), int32(0))
	assert.Greater(t, s.Continuation.Score(1, board.Red, 2, 2, 7, 7), int32(0))
	assert.Greater(t, s.Continuation.Score(2, board.Red, 1, 1, 7, 7), int32(0))
}

func TestSet_Reset(t *testing.T) {
	s := heuristics.NewSet()
	s.RecordCutoff(0, board.Red, board.Move{X: 1, Y: 1}, 3, nil)
	s.Reset()
	assert.Equal(t, int32(0), s.History.Get(board.Red, 1, 1))
	assert.False(t, s.Killers.Contains(0, board.Move{X: 1, Y: 1}))
}
