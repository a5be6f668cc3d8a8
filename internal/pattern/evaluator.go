package pattern

import "github.com/caroengine/core/internal/board"

// Weights holds the tunable scoring parameters of spec.md §4.3. The recommended defaults
// are the primary asymmetry knob; only their ordering, not their exact values, is tested.
type Weights struct {
	Five         int32 // W5
	OpenFour     int32 // W_OF
	ClosedFour   int32 // W_CF
	OpenThree    int32 // W_OT3
	ClosedThree  int32 // W_CT3
	OpenTwo      int32 // W_O2
	Center       int32 // CENTER
	DefenseNum   int32 // defense multiplier numerator
	DefenseDen   int32 // defense multiplier denominator
	CenterRadius int   // half-width of the center bonus zone around (7,7)

	// FiveOpenBonus breaks ties among winning fives: an unblocked five must score
	// strictly higher than a one-end-blocked five, which must score strictly higher
	// than a sandwiched five (spec.md §8 boundary behaviors). It is a minor tiebreaker,
	// always small relative to Five so it never changes move ordering on its own.
	FiveOpenBonus int32
}

// DefaultWeights returns the recommended weight set from spec.md §4.3/§6.
func DefaultWeights() Weights {
	return Weights{
		Five: 100000, OpenFour: 10000, ClosedFour: 1000,
		OpenThree: 1000, ClosedThree: 100, OpenTwo: 100,
		Center: 50, DefenseNum: 3, DefenseDen: 2, CenterRadius: 2,
		FiveOpenBonus: 10,
	}
}

// Evaluator is the canonical scalar PatternEvaluator. spec.md §9 calls for one canonical
// scalar implementation -- SIMD variants, if ever added, must be byte-for-byte equivalent
// and are out of scope here (see DESIGN.md).
type Evaluator struct {
	W Weights
}

// NewEvaluator returns an Evaluator using the recommended default weights.
func NewEvaluator() Evaluator {
	return Evaluator{W: DefaultWeights()}
}

// Evaluate returns the position score for side: side's directional pattern total, minus
// the opponent's directional pattern total scaled by the defense multiplier, plus a
// center-proximity bonus for side's own stones. See spec.md §4.3.
func (e Evaluator) Evaluate(pos *board.Position, side board.Side) int32 {
	own := e.directionalTotal(pos, side)
	opp := e.directionalTotal(pos, side.Opponent())
	defended := opp * e.W.DefenseNum / e.W.DefenseDen

	score := own - defended
	score += e.centerBonus(pos, side)
	return score
}

// directionalTotal sums, over the four scan axes, the weight of every maximal run of
// side's stones (each run counted exactly once, at its anchor cell).
func (e Evaluator) directionalTotal(pos *board.Position, side board.Side) int32 {
	var total int32
	bb := bitboardOf(pos, side)

	bb.IterSetBits(func(x, y int) bool {
		for _, d := range Directions {
			dx, dy := d[0], d[1]
			if owns(pos, side, x-dx, y-dy) {
				continue // not this run's anchor; it will be (or was) counted from its start
			}
			total += e.scoreRun(RunThrough(pos, side, x, y, dx, dy))
		}
		return true
	})
	return total
}

func (e Evaluator) scoreRun(r Run) int32 {
	switch {
	case r.Length == 5 && !r.Sandwiched:
		// Both-ends-open and one-end-blocked fives both win, but must not tie: see
		// FiveOpenBonus.
		return e.W.Five + int32(r.openEnds())*e.W.FiveOpenBonus
	case r.Length == 5: // sandwiched: Overline-equivalent, never counts as a win
		return 0
	case r.Length >= 6:
		// Overline: a strong shape but explicitly not a win (spec.md §8 boundary
		// behaviors); capped at the open-four weight so it never outscores Exactly5.
		return e.W.OpenFour
	case r.Length == 4:
		if r.openEnds() >= 1 {
			return e.W.OpenFour
		}
		return e.W.ClosedFour
	case r.Length == 3:
		switch r.openEnds() {
		case 2:
			return 2 * e.W.OpenThree
		case 1:
			return e.W.OpenThree
		default:
			return e.W.ClosedThree
		}
	case r.Length == 2 && r.openEnds() == 2:
		return e.W.OpenTwo
	default:
		return 0
	}
}

func (e Evaluator) centerBonus(pos *board.Position, side board.Side) int32 {
	const cx, cy = 7, 7
	var total int32

	bitboardOf(pos, side).IterSetBits(func(x, y int) bool {
		ax, ay := abs(x-cx), abs(y-cy)
		if ax <= e.W.CenterRadius && ay <= e.W.CenterRadius { // zone [5..9]x[5..9] when CenterRadius==2
			if bonus := e.W.Center - 5*int32(ax+ay); bonus > 0 {
				total += bonus
			}
		}
		return true
	})
	return total
}

func bitboardOf(pos *board.Position, side board.Side) board.BitBoard {
	if side == board.Red {
		return pos.Red()
	}
	return pos.Blue()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
