package board

// Position represents a Gomoku/Caro board: two disjoint BitBoards, an incrementally
// maintained Zobrist hash, a ply counter and the last move played. See spec.md §3.
//
// The search core treats Position as its only mutable state; all search exploration is
// done via Place/Unplace (make/unmake) so no allocation is needed in the hot loop.
type Position struct {
	zt *ZobristTable

	red, blue BitBoard
	hash      uint64
	ply       uint32
	lastMove  Move
}

// NewPosition returns an empty 15x15 position keyed by the given table.
func NewPosition(zt *ZobristTable) *Position {
	return &Position{zt: zt, lastMove: NoMove}
}

// Clone returns an independent copy. BitBoards are value types, so this is a cheap,
// allocation-only-once copy; zt is shared (read-only) by design.
func (p *Position) Clone() *Position {
	cp := *p
	return &cp
}

func (p *Position) Red() BitBoard  { return p.red }
func (p *Position) Blue() BitBoard { return p.blue }
func (p *Position) Hash() uint64   { return p.hash }
func (p *Position) Ply() uint32    { return p.ply }
func (p *Position) LastMove() Move { return p.lastMove }

func (p *Position) bitboard(s Side) BitBoard {
	if s == Red {
		return p.red
	}
	return p.blue
}

// IsEmpty reports whether (x,y) is unoccupied.
func (p *Position) IsEmpty(x, y int) bool {
	return !p.red.Get(x, y) && !p.blue.Get(x, y)
}

// At returns the content of (x,y).
func (p *Position) At(x, y int) Cell {
	switch {
	case p.red.Get(x, y):
		return RedCell
	case p.blue.Get(x, y):
		return BlueCell
	default:
		return Empty
	}
}

// Place puts s's stone at (x,y). Fails with ErrOccupied if the cell is taken, or
// ErrOutOfBounds if (x,y) is outside the board. Updates both bitboards, XORs the
// zobrist key into hash, sets LastMove and increments Ply.
func (p *Position) Place(x, y int, s Side) error {
	if !inBounds(x, y) {
		return ErrOutOfBounds
	}
	if !p.IsEmpty(x, y) {
		return ErrOccupied
	}
	if s == Red {
		p.red = p.red.Set(x, y)
	} else {
		p.blue = p.blue.Set(x, y)
	}
	p.hash ^= p.zt.Key(s, x, y)
	p.lastMove = Move{X: x, Y: y}
	p.ply++
	return nil
}

// Unplace removes s's stone from (x,y); the exact inverse of Place. Fails with
// ErrNotOwned if (x,y) is not currently owned by s. Note: callers are responsible for
// restoring LastMove to its prior value (the inverse isn't derivable from the cell
// alone), matching the teacher's make/unmake discipline of restoring state from the
// search stack rather than the node itself.
func (p *Position) Unplace(x, y int, s Side) error {
	if !inBounds(x, y) {
		return ErrOutOfBounds
	}
	if !p.bitboard(s).Get(x, y) {
		return ErrNotOwned
	}
	if s == Red {
		p.red = p.red.Clear(x, y)
	} else {
		p.blue = p.blue.Clear(x, y)
	}
	p.hash ^= p.zt.Key(s, x, y)
	p.ply--
	return nil
}

// LegalMovesMask returns the bitboard of empty cells: NOT (red | blue).
func (p *Position) LegalMovesMask() BitBoard {
	return p.red.Or(p.blue).Not()
}

// RecomputeHash returns the hash computed from scratch, for invariant-checking (spec.md
// §8 invariant 1). It never mutates p.
func (p *Position) RecomputeHash() uint64 {
	return p.zt.Hash(p.red, p.blue)
}

// Equals reports bit-identical state (spec.md §8 round-trip law: place -> unplace is
// identity), excluding LastMove which is caller-managed across unplace per spec.md §3.
func (p *Position) Equals(o *Position) bool {
	return p.red == o.red && p.blue == o.blue && p.hash == o.hash && p.ply == o.ply
}

func (p *Position) String() string {
	buf := make([]byte, 0, NumCells+Size)
	for y := 0; y < Size; y++ {
		if y > 0 {
			buf = append(buf, '/')
		}
		for x := 0; x < Size; x++ {
			switch p.At(x, y) {
			case RedCell:
				buf = append(buf, 'R')
			case BlueCell:
				buf = append(buf, 'B')
			default:
				buf = append(buf, '-')
			}
		}
	}
	return string(buf)
}
