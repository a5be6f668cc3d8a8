// Package timectl implements the TimeManager and DepthPlanner of spec.md
// §4.12: per-move time allocation and a log-EBF depth planner, generalizing
// morlock's flat TimeControl.Limits formula (pkg/search/searchctl/
// timectrl.go) to spec.md's phase- and complexity-aware allocation.
package timectl

import (
	"fmt"
	"math"
	"time"
)

// Phase is the game phase used to pick the expected-moves-left constant.
type Phase uint8

const (
	Opening Phase = iota
	EarlyMid
	LateMid
	Endgame
)

func (p Phase) String() string {
	switch p {
	case Opening:
		return "opening"
	case EarlyMid:
		return "early-mid"
	case LateMid:
		return "late-mid"
	default:
		return "endgame"
	}
}

// expectedMovesLeft is the phase-dependent constant spec.md §4.12 names:
// 40 in the opening, 25 early midgame, 15 late midgame, 10 endgame.
func expectedMovesLeft(p Phase) float64 {
	switch p {
	case Opening:
		return 40
	case EarlyMid:
		return 25
	case LateMid:
		return 15
	default:
		return 10
	}
}

// classifyPhase buckets by move number and stone count, per spec.md §4.12.
func classifyPhase(moveNumber, stoneCount int) Phase {
	switch {
	case moveNumber <= 4:
		return Opening
	case stoneCount <= 30:
		return EarlyMid
	case stoneCount <= 80:
		return LateMid
	default:
		return Endgame
	}
}

// Allocation is the TimeManager's verdict for one move.
type Allocation struct {
	Soft        time.Duration
	Hard        time.Duration
	Optimal     time.Duration
	Phase       Phase
	Complexity  float64
	IsEmergency bool
}

func (a Allocation) String() string {
	return fmt.Sprintf("{soft=%v hard=%v optimal=%v phase=%v complexity=%.2f emergency=%v}",
		a.Soft, a.Hard, a.Optimal, a.Phase, a.Complexity, a.IsEmergency)
}

// Manager allocates search time per move. Config fields mirror spec.md §6's
// recognized options. DifficultyTimeMultiplier is set per search by the
// caller (searchctl.Iterative and smp.Driver, from the difficulty profile);
// SafetyMargin and CriticalThreshold keep NewManager's defaults unless the
// engine is given another Manager via WithTimeManager.
type Manager struct {
	SafetyMargin             time.Duration
	CriticalThreshold        time.Duration
	DifficultyTimeMultiplier float64
}

// NewManager returns a Manager with spec.md §6's defaults
// (emergency_time_ms=2000) and a neutral 1.0 difficulty multiplier.
func NewManager() *Manager {
	return &Manager{
		SafetyMargin:             200 * time.Millisecond,
		CriticalThreshold:        2000 * time.Millisecond,
		DifficultyTimeMultiplier: 1.0,
	}
}

// Allocate implements spec.md §4.12's TimeManager.allocate. candidateCount
// and openThreatCount drive the complexity multiplier; moveNumber and
// stoneCount drive the phase.
func (m *Manager) Allocate(timeRemaining, increment time.Duration, moveNumber, candidateCount, stoneCount, openThreatCount int) Allocation {
	phase := classifyPhase(moveNumber, stoneCount)
	complexity := complexityMultiplier(candidateCount, openThreatCount)

	usable := timeRemaining - m.SafetyMargin
	if usable < 0 {
		usable = 0
	}

	base := float64(usable)/expectedMovesLeft(phase) + 0.8*float64(increment)
	soft := time.Duration(base * complexity * m.DifficultyTimeMultiplier)
	if soft < 0 {
		soft = 0
	}

	hard := 2 * soft
	if max := timeRemaining - m.SafetyMargin; hard > max {
		hard = max
	}
	if hard < soft {
		hard = soft
	}

	return Allocation{
		Soft:        soft,
		Hard:        hard,
		Optimal:     soft,
		Phase:       phase,
		Complexity:  complexity,
		IsEmergency: timeRemaining < m.CriticalThreshold,
	}
}

// complexityMultiplier maps candidate count and open-threat count into
// spec.md §4.12's [0.5, 2.0] range: more candidates and more live threats
// make the position harder to resolve quickly, so more time is worth
// spending; a narrow, quiet position can move faster.
func complexityMultiplier(candidateCount, openThreatCount int) float64 {
	c := 0.5 + float64(candidateCount)/40.0 + float64(openThreatCount)*0.15
	return math.Max(0.5, math.Min(2.0, c))
}

// DepthPlanner picks a search-depth target from the soft time bound and the
// engine's running nodes-per-second / effective-branching-factor estimates
// (spec.md §4.12).
type DepthPlanner struct {
	// NPS is the running nodes-per-second estimate (EMA), updated by the
	// caller after each completed search.
	NPS float64
	// EBF is the running effective-branching-factor estimate (EMA).
	EBF float64
}

// NewDepthPlanner returns a planner seeded with conservative defaults before
// any search has run.
func NewDepthPlanner() *DepthPlanner {
	return &DepthPlanner{NPS: 200000, EBF: 6.0}
}

// MaxDepth implements spec.md §4.12's log-EBF formula, clamped to
// [minDepth, 15].
func (d *DepthPlanner) MaxDepth(soft time.Duration, minDepth int) int {
	if d.EBF <= 1 || soft <= 0 || d.NPS <= 0 {
		return minDepth
	}

	budget := soft.Seconds() * d.NPS
	if budget < 1 {
		budget = 1
	}
	depth := int(math.Log(budget) / math.Log(d.EBF))

	if depth < minDepth {
		depth = minDepth
	}
	if depth > 15 {
		depth = 15
	}
	return depth
}

// ShouldContinue reports whether another iteration is likely to finish
// within the soft bound, per spec.md §4.12's 0.8·elapsed·ebf heuristic.
func (d *DepthPlanner) ShouldContinue(elapsed, soft time.Duration) bool {
	remaining := soft - elapsed
	if remaining <= 0 {
		return false
	}
	return float64(remaining) >= 0.8*float64(elapsed)*d.EBF
}

// UpdateNPS folds a completed search's node count and wall-clock time into
// the running NPS estimate (exponential moving average, alpha=0.3).
func (d *DepthPlanner) UpdateNPS(nodes uint64, elapsed time.Duration) {
	if elapsed <= 0 {
		return
	}
	observed := float64(nodes) / elapsed.Seconds()
	d.NPS = 0.7*d.NPS + 0.3*observed
}

// UpdateEBF folds a completed iteration's node-count ratio into the running
// EBF estimate (exponential moving average, alpha=0.3).
func (d *DepthPlanner) UpdateEBF(prevNodes, curNodes uint64) {
	if prevNodes == 0 || curNodes <= prevNodes {
		return
	}
	observed := float64(curNodes) / float64(prevNodes)
	d.EBF = 0.7*d.EBF + 0.3*observed
}
