package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caroengine/core/internal/board"
)

func TestPosition_PlaceUnplaceIsIdentity(t *testing.T) {
	zt := board.NewZobristTable(1)
	p := board.NewPosition(zt)

	before := p.Clone()
	require.NoError(t, p.Place(7, 7, board.Red))
	require.NoError(t, p.Unplace(7, 7, board.Red))

	assert.True(t, p.Equals(before), "place -> unplace must be identity")
}

func TestPosition_HashMatchesFromScratch(t *testing.T) {
	zt := board.NewZobristTable(2)
	p := board.NewPosition(zt)

	moves := []struct {
		x, y int
		s    board.Side
	}{
		{7, 7, board.Red}, {7, 8, board.Blue}, {8, 7, board.Red}, {6, 6, board.Blue},
	}
	for _, m := range moves {
		require.NoError(t, p.Place(m.x, m.y, m.s))
		assert.Equal(t, p.RecomputeHash(), p.Hash())
	}

	require.NoError(t, p.Unplace(6, 6, board.Blue))
	assert.Equal(t, p.RecomputeHash(), p.Hash())
}

func TestPosition_PlaceRejectsOccupied(t *testing.T) {
	zt := board.NewZobristTable(3)
	p := board.NewPosition(zt)

	require.NoError(t, p.Place(0, 0, board.Red))
	assert.ErrorIs(t, p.Place(0, 0, board.Blue), board.ErrOccupied)
}

func TestPosition_UnplaceRejectsWrongOwner(t *testing.T) {
	zt := board.NewZobristTable(4)
	p := board.NewPosition(zt)

	require.NoError(t, p.Place(0, 0, board.Red))
	assert.ErrorIs(t, p.Unplace(0, 0, board.Blue), board.ErrNotOwned)
}

func TestPosition_LegalMovesMask(t *testing.T) {
	zt := board.NewZobristTable(5)
	p := board.NewPosition(zt)
	require.NoError(t, p.Place(7, 7, board.Red))

	mask := p.LegalMovesMask()
	assert.False(t, mask.Get(7, 7))
	assert.True(t, mask.Get(0, 0))
	assert.Equal(t, board.NumCells-1, mask.PopCount())
}

func TestPosition_RedBlueDisjoint(t *testing.T) {
	zt := board.NewZobristTable(6)
	p := board.NewPosition(zt)
	require.NoError(t, p.Place(3, 3, board.Red))
	require.NoError(t, p.Place(4, 4, board.Blue))

	assert.True(t, p.Red().And(p.Blue()).IsEmpty())
}
