package board

import "math/rand"

// ZobristTable is a pseudo-randomized table of per-cell, per-side 64-bit keys, seeded
// deterministically. It is process-wide read-only after construction; used only by XOR.
// See: https://research.cs.wisc.edu/techreports/1970/TR88.pdf.
type ZobristTable struct {
	keys [NumSides][Size][Size]uint64
}

// NewZobristTable builds a table from the given seed. The same seed always yields the
// same table, which keeps hashes reproducible across a process restart.
func NewZobristTable(seed int64) *ZobristTable {
	t := &ZobristTable{}
	r := rand.New(rand.NewSource(seed))
	for s := Side(0); s < NumSides; s++ {
		for x := 0; x < Size; x++ {
			for y := 0; y < Size; y++ {
				t.keys[s][x][y] = r.Uint64()
			}
		}
	}
	return t
}

// Key returns the zobrist key for placing/removing side's stone at (x,y).
func (t *ZobristTable) Key(s Side, x, y int) uint64 {
	return t.keys[s][x][y]
}

// Hash computes the hash for a position from scratch by XOR-ing every occupied cell's key.
func (t *ZobristTable) Hash(red, blue BitBoard) uint64 {
	var h uint64
	red.IterSetBits(func(x, y int) bool {
		h ^= t.Key(Red, x, y)
		return true
	})
	blue.IterSetBits(func(x, y int) bool {
		h ^= t.Key(Blue, x, y)
		return true
	})
	return h
}
