package picker_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caroengine/core/internal/board"
	"github.com/caroengine/core/internal/heuristics"
	"github.com/caroengine/core/internal/picker"
)

func place(t *testing.T, pos *board.Position, side board.Side, cells ...[2]int) {
	t.Helper()
	for _, c := range cells {
		require.NoError(t, pos.Place(c[0], c[1], side))
	}
}

func newPos() *board.Position {
	return board.NewPosition(board.NewZobristTable(1))
}

func indexOf(cands []picker.Candidate, mv board.Move) int {
	for i, c := range cands {
		if c.Move.Equals(mv) {
			return i
		}
	}
	return -1
}

func TestCandidates_EmptyBoardIsCenterOnly(t *testing.T) {
	pos := newPos()
	cands := picker.Candidates(pos)
	require.Len(t, cands, 1)
	assert.Equal(t, board.Move{X: board.Size / 2, Y: board.Size / 2}, cands[0])
}

func TestCandidates_ExcludeOccupiedIncludeRadiusTwo(t *testing.T) {
	pos := newPos()
	place(t, pos, board.Red, [2]int{7, 7})
	cands := picker.Candidates(pos)

	assert.Equal(t, -1, indexOfMove(cands, board.Move{X: 7, Y: 7}), "occupied cell must not be a candidate")
	assert.NotEqual(t, -1, indexOfMove(cands, board.Move{X: 9, Y: 7}), "cell at radius 2 must be a candidate")
	assert.Equal(t, -1, indexOfMove(cands, board.Move{X: 11, Y: 7}), "cell at radius 4 must not be a candidate")
}

func indexOfMove(cands []board.Move, mv board.Move) int {
	for i, c := range cands {
		if c.Equals(mv) {
			return i
		}
	}
	return -1
}

func TestNew_TTMoveIsFirst(t *testing.T) {
	pos := newPos()
	place(t, pos, board.Red, [2]int{7, 7})

	tt := board.Move{X: 9, Y: 7}
	p := picker.New(pos, board.Blue, tt, 0, heuristics.NewSet(), nil)

	mv, ok := p.NextMove()
	require.True(t, ok)
	assert.Equal(t, tt, mv)
}

func TestNew_MustBlockOutranksQuietMoves(t *testing.T) {
	pos := newPos()
	// Red has an open straight four threatening to win at either flank.
	place(t, pos, board.Red, [2]int{4, 7}, [2]int{5, 7}, [2]int{6, 7}, [2]int{7, 7})

	p := picker.New(pos, board.Blue, board.NoMove, 0, heuristics.NewSet(), nil)

	mv, ok := p.NextMove()
	require.True(t, ok)
	assert.True(t, mv.Equals(board.Move{X: 3, Y: 7}) || mv.Equals(board.Move{X: 8, Y: 7}),
		"first move out of an empty-TT picker facing an open four must be one of the blocking flanks, got %v", mv)
}

func TestNew_WinningMoveOutranksQuietMove(t *testing.T) {
	pos := newPos()
	// Blue (to move) has an open four completing at (3,7) or (8,7); Red's
	// diagonal three supplies (4,4), a quiet move for Blue.
	place(t, pos, board.Blue, [2]int{4, 7}, [2]int{5, 7}, [2]int{6, 7}, [2]int{7, 7})
	place(t, pos, board.Red, [2]int{1, 1}, [2]int{2, 2}, [2]int{3, 3})

	p := picker.New(pos, board.Blue, board.NoMove, 0, heuristics.NewSet(), nil)

	var firstWinningIdx, firstRedNoiseIdx = -1, -1
	for i := 0; i < p.Len(); i++ {
		mv, _ := p.NextMove()
		if mv.Equals(board.Move{X: 3, Y: 7}) || mv.Equals(board.Move{X: 8, Y: 7}) {
			if firstWinningIdx == -1 {
				firstWinningIdx = i
			}
		}
		if mv.Equals(board.Move{X: 4, Y: 4}) && firstRedNoiseIdx == -1 {
			firstRedNoiseIdx = i
		}
	}
	require.NotEqual(t, -1, firstWinningIdx)
	require.NotEqual(t, -1, firstRedNoiseIdx)
	assert.Less(t, firstWinningIdx, firstRedNoiseIdx)
}

func TestNew_KillerMoveOutranksUnseenQuietMove(t *testing.T) {
	pos := newPos()
	place(t, pos, board.Red, [2]int{7, 7})

	h := heuristics.NewSet()
	killer := board.Move{X: 9, Y: 7}
	h.Killers.Push(2, killer)

	p := picker.New(pos, board.Red, board.NoMove, 2, h, nil)

	var killerIdx, otherIdx = -1, -1
	for i := 0; i < p.Len(); i++ {
		mv, _ := p.NextMove()
		if mv.Equals(killer) {
			killerIdx = i
		}
		if mv.Equals(board.Move{X: 5, Y: 9}) {
			otherIdx = i
		}
	}
	require.NotEqual(t, -1, killerIdx)
	require.NotEqual(t, -1, otherIdx)
	assert.Less(t, killerIdx, otherIdx)
}

func TestNew_ForbiddenSetExcludesCells(t *testing.T) {
	pos := newPos()
	place(t, pos, board.Red, [2]int{7, 7})

	forbidden := map[board.Move]bool{{X: 9, Y: 7}: true}
	p := picker.New(pos, board.Blue, board.NoMove, 0, heuristics.NewSet(), nil, forbidden)

	for i := 0; i < p.Len(); i++ {
		mv, _ := p.NextMove()
		assert.False(t, mv.Equals(board.Move{X: 9, Y: 7}))
	}
}

func TestShuffle_PreservesStagesAndMembership(t *testing.T) {
	pos := newPos()
	place(t, pos, board.Red, [2]int{4, 7}, [2]int{5, 7}, [2]int{6, 7}, [2]int{7, 7})

	before := picker.New(pos, board.Blue, board.NoMove, 0, heuristics.NewSet(), nil)
	var beforeMoves []board.Move
	var beforeStages []picker.Stage
	for i := 0; i < before.Len(); i++ {
		mv, _ := before.NextMove()
		beforeMoves = append(beforeMoves, mv)
		beforeStages = append(beforeStages, before.StageAt(i))
	}

	after := picker.New(pos, board.Blue, board.NoMove, 0, heuristics.NewSet(), nil)
	after.Shuffle(rand.New(rand.NewSource(1)))
	var afterMoves []board.Move
	var afterStages []picker.Stage
	for i := 0; i < after.Len(); i++ {
		mv, _ := after.NextMove()
		afterMoves = append(afterMoves, mv)
		afterStages = append(afterStages, after.StageAt(i))
	}

	require.Equal(t, beforeStages, afterStages, "shuffling must not change the stage at any position")
	assert.ElementsMatch(t, beforeMoves, afterMoves, "shuffling must not drop or duplicate a move")
}

func TestNew_ExhaustsExactlyLenMoves(t *testing.T) {
	pos := newPos()
	place(t, pos, board.Red, [2]int{7, 7})

	p := picker.New(pos, board.Blue, board.NoMove, 0, heuristics.NewSet(), nil)
	count := 0
	for {
		if _, ok := p.NextMove(); !ok {
			break
		}
		count++
	}
	assert.Equal(t, p.Len(), count)

	_, ok := p.NextMove()
	assert.False(t, ok)
}
