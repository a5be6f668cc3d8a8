package engine

import "fmt"

// Config holds the recognized options of spec.md §6, beyond whatever the
// Difficulty Profile already decides (time multiplier, min depth, helper
// count, error rate). Mirrors morlock's Options (pkg/engine/engine.go) in
// spirit — a flat struct of tunables the caller can override — generalized
// to this engine's richer option set.
type Config struct {
	// TTSizeMB sizes the shared transposition table.
	TTSizeMB int
	// ShardCount is the LockFreeTT's shard count; must be a power of two.
	ShardCount int
	// MaxHelpers, if non-negative, overrides the difficulty-derived helper
	// thread count. -1 means "use the difficulty profile's value".
	MaxHelpers        int
	LMRFullDepthMoves int
	LMRMinDepth       int
	NullMoveMinDepth  int
	NullMoveReduction int
	// DefenseMultiplierNum/Den scale the opponent-threat penalty relative
	// to the side-to-move's own threat bonus (spec.md §8's asymmetry
	// property: "an opponent's open four is penalized more than one's own
	// open four is rewarded").
	DefenseMultiplierNum int
	DefenseMultiplierDen int
	// CenterZoneRadius is the center bonus's radius (zone is
	// (2r+1)x(2r+1) around the board center).
	CenterZoneRadius int
	// EmergencyTimeMS sets the clock BestMove assumes when the caller gives
	// no remaining time: four times this many milliseconds. It does not set
	// the emergency-path threshold, which is the time manager's
	// CriticalThreshold (see WithTimeManager).
	EmergencyTimeMS int
}

// DefaultConfig returns spec.md §6's recommended defaults.
func DefaultConfig() Config {
	return Config{
		TTSizeMB:             256,
		ShardCount:           16,
		MaxHelpers:           -1,
		LMRFullDepthMoves:    4,
		LMRMinDepth:          3,
		NullMoveMinDepth:     3,
		NullMoveReduction:    3,
		DefenseMultiplierNum: 3,
		DefenseMultiplierDen: 2,
		CenterZoneRadius:     2,
		EmergencyTimeMS:      2000,
	}
}

func (c Config) String() string {
	return fmt.Sprintf("{tt=%vMB shards=%v max_helpers=%v lmr=%v/%v null_move=%v/%v defense=%v/%v center_radius=%v emergency=%vms}",
		c.TTSizeMB, c.ShardCount, c.MaxHelpers, c.LMRMinDepth, c.LMRFullDepthMoves,
		c.NullMoveMinDepth, c.NullMoveReduction, c.DefenseMultiplierNum, c.DefenseMultiplierDen,
		c.CenterZoneRadius, c.EmergencyTimeMS)
}
