// Package difficulty implements the Difficulty ordinal of spec.md §3: a
// scale that parameterizes only the time multiplier, minimum search depth,
// helper thread count, and blunder rate, never search logic itself.
package difficulty

import "fmt"

// Level is the AIDifficulty ordinal of spec.md §6, lowest to highest.
type Level uint8

const (
	Beginner Level = iota
	Easy
	Medium
	Hard
	Expert
)

func (l Level) String() string {
	switch l {
	case Beginner:
		return "beginner"
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "expert"
	}
}

// Profile is the tuple of parameters spec.md §3 allows Difficulty to touch:
// "(i) a time_multiplier ∈ (0,1], (ii) a min_depth ≥ 1, (iii) a helper
// thread count, and (iv) an error-rate ∈ [0,1]".
type Profile struct {
	TimeMultiplier   float64
	MinDepth         int
	HelperThreads    int
	ErrorRate        float64
	OpenRuleZoneSize int // 3 or 5, per spec.md §6's open_rule_restricted_zone_size
}

func (p Profile) String() string {
	return fmt.Sprintf("{time=%.2f min_depth=%v helpers=%v error=%.2f zone=%v}",
		p.TimeMultiplier, p.MinDepth, p.HelperThreads, p.ErrorRate, p.OpenRuleZoneSize)
}

// profiles is indexed by Level; error-rate is zero above the lowest two
// levels, per spec.md §3.
var profiles = [...]Profile{
	Beginner: {TimeMultiplier: 0.35, MinDepth: 1, HelperThreads: 0, ErrorRate: 0.35, OpenRuleZoneSize: 3},
	Easy:     {TimeMultiplier: 0.55, MinDepth: 2, HelperThreads: 0, ErrorRate: 0.12, OpenRuleZoneSize: 3},
	Medium:   {TimeMultiplier: 0.75, MinDepth: 4, HelperThreads: 1, ErrorRate: 0, OpenRuleZoneSize: 3},
	Hard:     {TimeMultiplier: 1.0, MinDepth: 6, HelperThreads: 3, ErrorRate: 0, OpenRuleZoneSize: 5},
	Expert:   {TimeMultiplier: 1.0, MinDepth: 8, HelperThreads: 7, ErrorRate: 0, OpenRuleZoneSize: 5},
}

// Profile returns l's parameter tuple, clamping out-of-range levels to Expert.
func (l Level) Profile() Profile {
	if int(l) >= len(profiles) {
		return profiles[Expert]
	}
	return profiles[l]
}

// IsHigh reports whether l is at least Hard, the threshold spec.md §4.10's
// emergency path gates on ("if allocation is emergency and difficulty is
// high").
func (l Level) IsHigh() bool {
	return l >= Hard
}

// AtLeastMedium reports whether l meets spec.md §8's "difficulty ≥ medium"
// threshold for the critical-defense and open-three testable properties.
func (l Level) AtLeastMedium() bool {
	return l >= Medium
}
