package search

import "fmt"

// Score is a signed position score from the perspective of the side to move
// (negamax convention): positive favors the side whose turn it is.
type Score int32

const (
	// Inf bounds the search window; no real evaluation reaches it.
	Inf Score = 1 << 20
	// NegInf is the symmetric lower bound.
	NegInf Score = -Inf
	// Mate is the base score for a forced win found at ply 0. A mate found
	// at ply p is scored Mate-Score(p), so shorter mates sort higher.
	Mate Score = 1 << 18
	// MateThreshold separates ordinary evaluations from mate scores.
	MateThreshold Score = Mate - 1000
)

func (s Score) String() string {
	if d, ok := s.MateDistance(); ok {
		return fmt.Sprintf("mate%+d", d)
	}
	return fmt.Sprintf("%d", int32(s))
}

// MateDistance reports the number of plies to a forced mate, signed from the
// perspective this Score was computed in (positive: this side mates).
func (s Score) MateDistance() (int, bool) {
	switch {
	case s > MateThreshold:
		return int(Mate - s), true
	case s < -MateThreshold:
		return -int(Mate + s), true
	default:
		return 0, false
	}
}

// MateIn builds the score for a forced mate found at the given ply.
func MateIn(ply int) Score {
	return Mate - Score(ply)
}

// Negate flips perspective, the way every negamax recursion must at a ply
// boundary.
func (s Score) Negate() Score {
	return -s
}

func maxScore(a, b Score) Score {
	if a > b {
		return a
	}
	return b
}

func minScore(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}
