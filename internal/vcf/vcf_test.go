package vcf_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caroengine/core/internal/board"
	"github.com/caroengine/core/internal/vcf"
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

func TestSolve_ImmediateWin(t *testing.T) {
	pos := newPos()
	place(t, pos, board.Red, [2]int{7, 7}, [2]int{7, 8}, [2]int{7, 9}, [2]int{7, 10})
	place(t, pos, board.Blue, [2]int{0, 0}, [2]int{1, 1})

	s := vcf.NewSolver(64)
	start := time.Now()
	res := s.Solve(context.Background(), pos, board.Red, time.Second, 3)
	elapsed := time.Since(start)

	require.Equal(t, vcf.Win, res.Outcome)
	assert.True(t, res.Move.Equals(board.Move{X: 7, Y: 6}) || res.Move.Equals(board.Move{X: 7, Y: 11}))
	assert.Less(t, elapsed, time.Millisecond, "an immediate win must resolve essentially instantly")
}

func TestSolve_OpenThreeForcesOpenFourWin(t *testing.T) {
	pos := newPos()
	place(t, pos, board.Red, [2]int{5, 5}, [2]int{5, 6}, [2]int{5, 7})

	s := vcf.NewSolver(64)
	res := s.Solve(context.Background(), pos, board.Red, time.Second, 3)

	require.Equal(t, vcf.Win, res.Outcome)
	assert.True(t, res.Move.Equals(board.Move{X: 5, Y: 4}) || res.Move.Equals(board.Move{X: 5, Y: 8}))
}

func TestSolve_EmptyBoardIsUnsolved(t *testing.T) {
	pos := newPos()
	s := vcf.NewSolver(64)
	res := s.Solve(context.Background(), pos, board.Red, 10*time.Millisecond, 3)

	assert.Equal(t, vcf.Unsolved, res.Outcome)
}

func TestSolve_AlreadyLostReturnsLoss(t *testing.T) {
	pos := newPos()
	place(t, pos, board.Blue, [2]int{0, 0}, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3}, [2]int{0, 4})

	s := vcf.NewSolver(64)
	res := s.Solve(context.Background(), pos, board.Red, time.Second, 3)

	assert.Equal(t, vcf.Loss, res.Outcome)
}

func TestSolve_DoesNotMutatePosition(t *testing.T) {
	pos := newPos()
	place(t, pos, board.Red, [2]int{5, 5}, [2]int{5, 6}, [2]int{5, 7})
	before := pos.Clone()

	s := vcf.NewSolver(64)
	_ = s.Solve(context.Background(), pos, board.Red, time.Second, 3)

	assert.True(t, pos.Equals(before))
}

func TestSolve_CacheHitReturnsSameOutcome(t *testing.T) {
	pos := newPos()
	place(t, pos, board.Red, [2]int{5, 5}, [2]int{5, 6}, [2]int{5, 7})

	s := vcf.NewSolver(64)
	first := s.Solve(context.Background(), pos, board.Red, time.Second, 3)
	second := s.Solve(context.Background(), pos, board.Red, time.Second, 3)

	assert.Equal(t, first.Outcome, second.Outcome)
}

func TestSolve_RespectsCancellation(t *testing.T) {
	pos := newPos()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := vcf.NewSolver(64)
	res := s.Solve(ctx, pos, board.Red, time.Second, 3)

	assert.Equal(t, vcf.Unsolved, res.Outcome)
}
