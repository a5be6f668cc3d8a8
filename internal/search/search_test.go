package search_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caroengine/core/internal/board"
	"github.com/caroengine/core/internal/heuristics"
	"github.com/caroengine/core/internal/pattern"
	"github.com/caroengine/core/internal/search"
	"github.com/caroengine/core/internal/tt"
)

func newSearcher() *search.Searcher {
	return &search.Searcher{
		TT:         tt.NewTable(1),
		Heuristics: heuristics.NewSet(),
		Eval:       pattern.NewEvaluator(),
		Config:     search.DefaultConfig(),
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

func TestNegamax_TakesImmediateWinWhenAvailable(t *testing.T) {
	pos := newPos()
	// Red to move completes a five at (3,7).
	place(t, pos, board.Red, [2]int{4, 7}, [2]int{5, 7}, [2]int{6, 7}, [2]int{7, 7})

	s := newSearcher()
	score, move := s.Negamax(context.Background(), pos, board.Red, 3, 0, search.NegInf, search.Inf, nil)

	assert.True(t, move.Equals(board.Move{X: 3, Y: 7}) || move.Equals(board.Move{X: 8, Y: 7}))
	d, isMate := score.MateDistance()
	assert.True(t, isMate)
	assert.Positive(t, d)
}

func TestNegamax_AlreadyLostReturnsNegativeMate(t *testing.T) {
	pos := newPos()
	place(t, pos, board.Blue, [2]int{4, 7}, [2]int{5, 7}, [2]int{6, 7}, [2]int{7, 7}, [2]int{8, 7})

	s := newSearcher()
	score, _ := s.Negamax(context.Background(), pos, board.Red, 3, 0, search.NegInf, search.Inf, nil)

	assert.Less(t, score, -search.MateThreshold)
}

func TestNegamax_DoesNotMutatePosition(t *testing.T) {
	pos := newPos()
	place(t, pos, board.Red, [2]int{7, 7})
	place(t, pos, board.Blue, [2]int{7, 8})
	before := pos.Hash()

	s := newSearcher()
	_, _ = s.Negamax(context.Background(), pos, board.Red, 3, 0, search.NegInf, search.Inf, nil)

	assert.Equal(t, before, pos.Hash())
}

func TestNegamax_RespectsCancellation(t *testing.T) {
	pos := newPos()
	place(t, pos, board.Red, [2]int{7, 7})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newSearcher()
	score, move := s.Negamax(ctx, pos, board.Red, 4, 0, search.NegInf, search.Inf, nil)

	assert.Equal(t, search.Score(0), score)
	assert.True(t, move.Equals(board.NoMove))
}

func TestSearchRoot_BlocksOpponentOpenFour(t *testing.T) {
	pos := newPos()
	// Blue has an open straight four; Red (to move) must block a flank.
	place(t, pos, board.Blue, [2]int{4, 7}, [2]int{5, 7}, [2]int{6, 7}, [2]int{7, 7})

	s := newSearcher()
	_, pv := s.SearchRoot(context.Background(), pos, board.Red, 2, search.NegInf, search.Inf, nil)

	require.NotEmpty(t, pv)
	assert.True(t, pv[0].Equals(board.Move{X: 3, Y: 7}) || pv[0].Equals(board.Move{X: 8, Y: 7}))
}

func TestSearchRoot_NodesAccumulate(t *testing.T) {
	pos := newPos()
	place(t, pos, board.Red, [2]int{7, 7})

	s := newSearcher()
	_, _ = s.SearchRoot(context.Background(), pos, board.Blue, 2, search.NegInf, search.Inf, nil)

	assert.Positive(t, s.Nodes())
}
