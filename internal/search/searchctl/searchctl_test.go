package searchctl_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caroengine/core/internal/board"
	"github.com/caroengine/core/internal/difficulty"
	"github.com/caroengine/core/internal/heuristics"
	"github.com/caroengine/core/internal/pattern"
	"github.com/caroengine/core/internal/search"
	"github.com/caroengine/core/internal/search/searchctl"
	"github.com/caroengine/core/internal/timectl"
	"github.com/caroengine/core/internal/tt"
	"github.com/caroengine/core/internal/vcf"
	"github.com/seekerror/stdlib/pkg/lang"
)

func newIterative() *searchctl.Iterative {
	return &searchctl.Iterative{
		Searcher: &search.Searcher{
			Heuristics: heuristics.NewSet(),
			Eval:       pattern.NewEvaluator(),
			Config:     search.DefaultConfig(),
		},
		VCF:   vcf.NewSolver(1024),
		Time:  timectl.NewManager(),
		Depth: timectl.NewDepthPlanner(),
	}
}

func place(t *testing.T, pos *board.Position, side board.Side, cells ...[2]int) {
	t.Helper()
	for _, c := range cells {
		require.NoError(t, pos.Place(c[0], c[1], side))
	}
}

func newPos() *board.Position {
	return board.NewPosition(board.NewZobristTable(1))
}

func TestIterative_CriticalDefensePreguardBlocksOpenThree(t *testing.T) {
	pos := newPos()
	place(t, pos, board.Blue, [2]int{5, 5}, [2]int{5, 6}, [2]int{5, 7})
	place(t, pos, board.Red, [2]int{7, 7})

	it := newIterative()
	h, out := it.Launch(context.Background(), pos, board.Red, tt.NewTable(1), difficulty.Medium, searchctl.Options{
		TimeRemaining: 10 * time.Second,
		MoveNumber:    4,
	})

	o := <-out
	h.Halt()

	assert.True(t, o.Move.Equals(board.Move{X: 5, Y: 8}),
		"expected the center-closer flank of the open three, got %v", o.Move)
}

func TestIterative_CriticalDefensePreguardBlocksLiveFour(t *testing.T) {
	pos := newPos()
	place(t, pos, board.Blue, [2]int{4, 7}, [2]int{5, 7}, [2]int{6, 7}, [2]int{7, 7})
	place(t, pos, board.Red, [2]int{1, 1})

	it := newIterative()
	h, out := it.Launch(context.Background(), pos, board.Red, tt.NewTable(1), difficulty.Medium, searchctl.Options{
		TimeRemaining: 10 * time.Second,
		MoveNumber:    6,
	})

	o := <-out
	h.Halt()

	assert.True(t, o.Move.Equals(board.Move{X: 8, Y: 7}),
		"expected the center-closer flank of the live four, got %v", o.Move)
}

func TestIterative_OpenRuleRestrictsThirdMove(t *testing.T) {
	pos := newPos()
	place(t, pos, board.Red, [2]int{7, 7})
	place(t, pos, board.Blue, [2]int{1, 1})

	it := newIterative()
	h, out := it.Launch(context.Background(), pos, board.Red, tt.NewTable(1), difficulty.Hard, searchctl.Options{
		TimeRemaining: 200 * time.Millisecond,
		MoveNumber:    3,
		DepthLimit:    lang.Some(uint(2)),
	})

	var last searchctl.Outcome
	for o := range out {
		last = o
	}
	h.Halt()

	require.False(t, last.Move.Equals(board.NoMove))
	forbiddenZone := map[board.Move]bool{}
	for x := 5; x <= 9; x++ {
		for y := 5; y <= 9; y++ {
			forbiddenZone[board.Move{X: x, Y: y}] = true
		}
	}
	assert.False(t, forbiddenZone[last.Move], "move %v must avoid the Hard-difficulty 5x5 Open Rule zone", last.Move)
}

func TestIterative_EmergencyPathReturnsDeepTTMove(t *testing.T) {
	pos := newPos()
	place(t, pos, board.Red, [2]int{7, 7})
	place(t, pos, board.Blue, [2]int{7, 8})

	table := tt.NewTable(1)
	ttMove := board.Move{X: 9, Y: 9}
	table.Store(pos.Hash(), 6, 123, ttMove, int32(search.NegInf), int32(search.Inf))

	it := newIterative()
	h, out := it.Launch(context.Background(), pos, board.Red, table, difficulty.Expert, searchctl.Options{
		TimeRemaining: 1500 * time.Millisecond, // below CriticalThreshold (2s) => emergency
		MoveNumber:    10,
	})

	o := <-out
	h.Halt()

	assert.True(t, o.Move.Equals(ttMove))
	assert.Equal(t, 5, o.DepthReached)
}

func TestIterative_VCFPreCheckReturnsForcedWin(t *testing.T) {
	pos := newPos()
	// Red has a broken four completing at (7,7); no prior Blue threat to defend.
	place(t, pos, board.Red, [2]int{4, 7}, [2]int{5, 7}, [2]int{6, 7}, [2]int{8, 7})
	place(t, pos, board.Blue, [2]int{1, 1}, [2]int{1, 2})

	it := newIterative()
	h, out := it.Launch(context.Background(), pos, board.Red, tt.NewTable(1), difficulty.Medium, searchctl.Options{
		TimeRemaining: 10 * time.Second,
		MoveNumber:    8,
	})

	o := <-out
	h.Halt()

	assert.True(t, o.Move.Equals(board.Move{X: 7, Y: 7}))
	assert.True(t, o.VCFHit)
}

func TestIterative_IterativeDeepeningReachesDepthLimit(t *testing.T) {
	pos := newPos()
	place(t, pos, board.Red, [2]int{7, 7})
	place(t, pos, board.Blue, [2]int{2, 2})

	it := newIterative()
	h, out := it.Launch(context.Background(), pos, board.Blue, tt.NewTable(1), difficulty.Medium, searchctl.Options{
		TimeRemaining: 10 * time.Second,
		MoveNumber:    4,
		DepthLimit:    lang.Some(uint(3)),
	})

	var last searchctl.Outcome
	for o := range out {
		last = o
	}
	h.Halt()

	assert.Equal(t, 3, last.DepthReached)
	assert.False(t, last.Move.Equals(board.NoMove))
}
