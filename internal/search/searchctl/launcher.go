package searchctl

import (
	"context"

	"github.com/caroengine/core/internal/board"
	"github.com/caroengine/core/internal/difficulty"
	"github.com/caroengine/core/internal/search"
)

// Launcher manages get_best_move searches (spec.md §4.10). Mirrors morlock's
// searchctl.Launcher (pkg/search/searchctl/launcher.go), generalized to this
// engine's difficulty-parameterized allocation.
type Launcher interface {
	// Launch starts a new search from pos for side. pos is not retained
	// beyond Launch's own goroutine's lifetime and must not be touched by
	// the caller until the returned Handle is halted. Returns a channel of
	// successively deeper Outcomes, closed when the search is exhausted.
	Launch(ctx context.Context, pos *board.Position, side board.Side, tt search.TranspositionTable, diff difficulty.Level, opt Options) (Handle, <-chan Outcome)
}

// Handle lets the caller manage a running search. Mirrors morlock's
// searchctl.Handle.
type Handle interface {
	// Halt stops the search, if running, and returns the best Outcome found
	// so far. Idempotent.
	Halt() Outcome
}
