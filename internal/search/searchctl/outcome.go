package searchctl

import (
	"fmt"
	"time"

	"github.com/caroengine/core/internal/board"
	"github.com/caroengine/core/internal/search"
)

// Outcome is one completed (or in-progress, best-so-far) verdict of
// `get_best_move`, matching spec.md §6's SearchOutcome.
type Outcome struct {
	Move         board.Move
	DepthReached int
	Nodes        uint64
	Score        search.Score
	PV           []board.Move
	TimeSpent    time.Duration
	TTHitRate    float32 // not computed by any search path; always 0
	VCFHit       bool
}

func (o Outcome) String() string {
	return fmt.Sprintf("{move=%v depth=%v nodes=%v score=%v pv=%v time=%v tt_hit_rate=%.2f vcf=%v}",
		o.Move, o.DepthReached, o.Nodes, o.Score, o.PV, o.TimeSpent, o.TTHitRate, o.VCFHit)
}
