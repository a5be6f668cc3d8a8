// Package tt implements the two transposition tables of spec.md §4.7/§4.8: a
// sequential, 3-way clustered table for single-threaded search, and a
// lock-free sharded table for Lazy-SMP.
package tt

import (
	"math/bits"

	"github.com/caroengine/core/internal/board"
)

// Bound classifies a stored score the way alpha-beta search leaves it.
type Bound uint8

const (
	Exact Bound = iota
	Lower
	Upper
)

func (b Bound) String() string {
	switch b {
	case Exact:
		return "exact"
	case Lower:
		return "lower"
	case Upper:
		return "upper"
	default:
		return "?"
	}
}

// Entry is one transposition table record.
type Entry struct {
	Key16 uint16 // top16(hash) | 1; 0 means empty
	Depth int8
	Bound Bound
	Value int32
	Move  board.Move
	Age   uint8
}

func (e Entry) empty() bool {
	return e.Key16 == 0
}

const clusterSize = 3

type cluster [clusterSize]Entry

// Table is the sequential transposition table of spec.md §4.7: a 3-entry
// clustered table with depth/age replacement for single-threaded use. The
// engine itself uses LockFreeTT for the master and the helpers alike.
type Table struct {
	clusters []cluster
	mask     uint64
	age      uint8 // 6-bit counter, cycles through [1,63]; 0 never used
}

// NewTable allocates a table of at most about 1.5 * sizeMB megabytes (see
// bytesPerCluster).
func NewTable(sizeMB int) *Table {
	const bytesPerCluster = 64 // budget per cluster; an Entry is 32 bytes on 64-bit, so a cluster really takes 96
	n := nextPow2(uint64(sizeMB) << 20 / bytesPerCluster)
	if n == 0 {
		n = 1
	}
	return &Table{clusters: make([]cluster, n), mask: n - 1, age: 1}
}

// IncrementAge bumps the 6-bit age counter, wrapping to 1 (never 0).
func (t *Table) IncrementAge() {
	t.age++
	if t.age > 63 {
		t.age = 1
	}
}

// Store implements spec.md §4.7's replacement policy.
func (t *Table) Store(hash uint64, depth int, value int32, move board.Move, alpha, beta int32) {
	key16 := top16(hash) | 1
	fresh := Entry{Key16: key16, Depth: int8(depth), Bound: deriveBound(value, alpha, beta), Value: value, Move: move, Age: t.age}

	cl := &t.clusters[hash&t.mask]

	for i := range cl {
		if cl[i].empty() {
			cl[i] = fresh
			return
		}
	}
	for i := range cl {
		if cl[i].Key16 == key16 && cl[i].Depth <= fresh.Depth {
			cl[i] = fresh
			return
		}
	}

	worst := 0
	worstVal := t.replacementValue(cl[0])
	for i := 1; i < clusterSize; i++ {
		if v := t.replacementValue(cl[i]); v < worstVal {
			worst, worstVal = i, v
		}
	}
	cl[worst] = fresh
}

// Lookup returns the deepest entry matching hash's key16. cutoff is true when
// depth is sufficient and the stored bound proves a cutoff against alpha/beta;
// found is true whenever a matching entry exists at all (useful for move
// ordering even without a cutoff).
func (t *Table) Lookup(hash uint64, depth int, alpha, beta int32) (cutoff bool, value int32, move board.Move, found bool) {
	key16 := top16(hash) | 1
	cl := &t.clusters[hash&t.mask]

	var best *Entry
	for i := range cl {
		if cl[i].Key16 == key16 && (best == nil || cl[i].Depth > best.Depth) {
			best = &cl[i]
		}
	}
	if best == nil {
		return false, 0, board.NoMove, false
	}

	if int(best.Depth) >= depth {
		switch {
		case best.Bound == Exact:
			return true, best.Value, best.Move, true
		case best.Bound == Lower && best.Value >= beta:
			return true, best.Value, best.Move, true
		case best.Bound == Upper && best.Value <= alpha:
			return true, best.Value, best.Move, true
		}
	}
	return false, best.Value, best.Move, true
}

// replacementValue favors deeper and more recent entries; older generations
// become steadily more replaceable even at equal depth.
func (t *Table) replacementValue(e Entry) int32 {
	if e.empty() {
		return -1 << 30
	}
	return int32(e.Depth) - 8*int32(ageDistance(t.age, e.Age))
}

func ageDistance(cur, stored uint8) int32 {
	d := int32(cur) - int32(stored)
	if d < 0 {
		d += 63
	}
	return d
}

func deriveBound(value, alpha, beta int32) Bound {
	switch {
	case value <= alpha:
		return Upper
	case value >= beta:
		return Lower
	default:
		return Exact
	}
}

func top16(hash uint64) uint16 {
	return uint16(hash >> 48)
}

func nextPow2(v uint64) uint64 {
	if v == 0 {
		return 0
	}
	return uint64(1) << (63 - bits.LeadingZeros64(v))
}
