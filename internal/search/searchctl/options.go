package searchctl

import (
	"fmt"
	"time"

	"github.com/seekerror/stdlib/pkg/lang"
)

// Options hold the per-call parameters of spec.md §4.10's
// `get_best_move(pos, side, diff, time_remaining, move_number, pondering)`,
// minus the position/side/difficulty/TT arguments that Launch takes
// directly. Mirrors morlock's searchctl.Options (pkg/search/searchctl/
// launcher.go), generalized from a depth/time-control pair to this engine's
// richer allocation inputs; DepthLimit keeps the teacher's lang.Optional
// shape since zero is a legitimate depth-limit-disabled sentinel, not a
// literal "unlimited" depth.
type Options struct {
	// DepthLimit, if set, caps iterative deepening regardless of the
	// DepthPlanner's recommendation.
	DepthLimit lang.Optional[uint]
	// TimeRemaining and Increment feed TimeManager.Allocate.
	TimeRemaining time.Duration
	Increment     time.Duration
	// MoveNumber is the 1-indexed move about to be played (Red's first move
	// is 1); used for phase classification and the Open Rule restriction.
	MoveNumber int
	// Pondering marks a background search whose result is speculative. It is
	// carried into log lines only; neither the search nor the engine facade
	// treats a pondering search differently.
	Pondering bool
}

func (o Options) String() string {
	var depth any = "-"
	if v, ok := o.DepthLimit.V(); ok {
		depth = v
	}
	return fmt.Sprintf("{depth_limit=%v time=%v+%v move=%v pondering=%v}",
		depth, o.TimeRemaining, o.Increment, o.MoveNumber, o.Pondering)
}
