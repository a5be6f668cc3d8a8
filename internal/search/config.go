package search

// Config holds the tunables spec.md §6 names for SearchCore itself (the
// time-control and thread-count knobs live in internal/timectl and
// internal/smp respectively).
type Config struct {
	// LMRMinDepth is the minimum remaining depth at which late-move
	// reduction may apply.
	LMRMinDepth int
	// LMRFullDepthMoves is the move index (0-based) at and after which
	// non-critical moves become reduction candidates.
	LMRFullDepthMoves int
	// NullMoveMinDepth is the minimum remaining depth at which null-move
	// pruning may apply.
	NullMoveMinDepth int
	// NullMoveReduction is the depth reduction applied to the null-move
	// search.
	NullMoveReduction int
	// QuiescenceMaxPly caps the quiescence extension beyond the main
	// search horizon.
	QuiescenceMaxPly int
	// MinStonesForNullMove is the minimum stone count on the board before
	// null-move pruning is considered safe.
	MinStonesForNullMove int
}

// DefaultConfig returns spec.md §6's recommended defaults.
func DefaultConfig() Config {
	return Config{
		LMRMinDepth:          3,
		LMRFullDepthMoves:    4,
		NullMoveMinDepth:     3,
		NullMoveReduction:    3,
		QuiescenceMaxPly:     4,
		MinStonesForNullMove: 10,
	}
}
