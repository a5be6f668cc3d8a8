package tt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caroengine/core/internal/board"
	"github.com/caroengine/core/internal/tt"
)

func TestLockFreeTT_StoreLoadRoundTrip(t *testing.T) {
	lf := tt.NewLockFreeTT(1, 4)
	mv := board.Move{X: 9, Y: 9}

	lf.Store(0xABCDEF, 7, 42, mv, -50, 50, 3)

	entry, ok := lf.Load(0xABCDEF)
	require.True(t, ok)
	assert.Equal(t, int32(42), entry.Value)
	assert.True(t, entry.Move.Equals(mv))
	assert.Equal(t, int8(7), entry.Depth)
}

func TestLockFreeTT_MissOnUnknownHash(t *testing.T) {
	lf := tt.NewLockFreeTT(1, 4)
	_, ok := lf.Load(0x12345)
	assert.False(t, ok)
}

func TestLockFreeTT_DeeperEntryReplacesShallower(t *testing.T) {
	lf := tt.NewLockFreeTT(1, 1) // single shard forces a small slot table
	mv1 := board.Move{X: 1, Y: 1}
	mv2 := board.Move{X: 2, Y: 2}

	lf.Store(7, 2, 10, mv1, -50, 50, 1)
	lf.Store(7, 9, 20, mv2, -50, 50, 1)

	entry, ok := lf.Load(7)
	require.True(t, ok)
	assert.Equal(t, int32(20), entry.Value)
	assert.True(t, entry.Move.Equals(mv2))
}

func TestLockFreeTT_ShallowerDoesNotReplaceDeeperAtSameAge(t *testing.T) {
	lf := tt.NewLockFreeTT(1, 1)
	mv1 := board.Move{X: 1, Y: 1}
	mv2 := board.Move{X: 2, Y: 2}

	lf.Store(7, 9, 20, mv1, -50, 50, 1)
	lf.Store(7, 2, 10, mv2, -50, 50, 1)

	entry, ok := lf.Load(7)
	require.True(t, ok)
	assert.Equal(t, int32(20), entry.Value, "a shallower, same-age write must not evict a deeper entry")
}

func TestLockFreeTT_CollidingSlotDifferentHashIsRejectedAsMiss(t *testing.T) {
	lf := tt.NewLockFreeTT(1, 1) // 1 shard, 32768 slots -> mask 0x7FFF

	const hash1 = uint64(1)
	const hash2 = uint64(1 + 1<<15) // same low 15 bits as hash1, different full hash

	lf.Store(hash1, 5, 11, board.Move{X: 0, Y: 0}, -50, 50, 1)
	lf.Store(hash2, 5, 22, board.Move{X: 1, Y: 1}, -50, 50, 1)

	entry, ok := lf.Load(hash2)
	require.True(t, ok)
	assert.Equal(t, int32(22), entry.Value)

	_, ok = lf.Load(hash1)
	assert.False(t, ok, "the slot now holds hash2's entry; hash1 must read back as a miss, not a wrong hit")
}
