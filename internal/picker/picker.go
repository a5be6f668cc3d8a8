// Package picker implements the staged MovePicker of spec.md §4.9: a
// one-shot constructor that pre-scores every candidate move into a stage
// (TT, MustBlock, Winning, ThreatCreate, KillerCounter, GoodQuiet, BadQuiet)
// and returns them in stage order, each stage sorted by descending secondary
// score.
package picker

import (
	"math/rand"
	"sort"

	"github.com/caroengine/core/internal/board"
	"github.com/caroengine/core/internal/heuristics"
	"github.com/caroengine/core/internal/pattern"
	"github.com/caroengine/core/internal/threat"
)

// Stage is the MovePicker's admission stage, in emission order.
type Stage uint8

const (
	StageTT Stage = iota
	StageMustBlock
	StageWinning
	StageThreatCreate
	StageKillerCounter
	StageGoodQuiet
	StageBadQuiet
)

func (s Stage) String() string {
	switch s {
	case StageTT:
		return "tt"
	case StageMustBlock:
		return "must-block"
	case StageWinning:
		return "winning"
	case StageThreatCreate:
		return "threat-create"
	case StageKillerCounter:
		return "killer-counter"
	case StageGoodQuiet:
		return "good-quiet"
	default:
		return "bad-quiet"
	}
}

// Base scores offset each stage's score band. Candidates are sorted by Stage
// first, so a move's place is decided by its stage alone; the secondary score
// added on top can exceed the 100,000 spacing and only orders moves within a
// stage.
const (
	baseTT            = 1_000_000
	baseMustBlock     = 900_000
	baseWinning       = 800_000
	baseThreatCreate  = 700_000
	baseKillerCounter = 600_000
	baseGoodQuiet     = 500_000
	baseBadQuiet      = 400_000
)

// goodQuietThreshold separates GoodQuiet from BadQuiet among otherwise
// unremarkable moves.
const goodQuietThreshold = 0

// Candidate is one scored, classified move.
type Candidate struct {
	Move  board.Move
	Stage Stage
	Score int32
}

// Picker is the one-shot, pre-scored move iterator.
type Picker struct {
	ordered []Candidate
	idx     int
}

// New builds a Picker for side to move in pos. ttMove is board.NoMove if
// none. ply indexes the killer-move table. priorMoves is the move stack
// played so far (most recent last), used for counter-move and continuation
// history lookups. An optional forbidden set excludes cells outright (used
// by the Open Rule restriction at the search root, spec.md §4.10 step 1) —
// omit it, or pass nil, for the common unrestricted case.
func New(pos *board.Position, side board.Side, ttMove board.Move, ply int, h *heuristics.Set, priorMoves []board.Move, forbidden ...map[board.Move]bool) *Picker {
	cands := Candidates(pos)
	if len(forbidden) > 0 && forbidden[0] != nil {
		cands = withoutForbidden(cands, forbidden[0])
	}
	mustBlock := mustBlockSquares(threat.Detect(pos, side.Opponent()))

	ordered := make([]Candidate, 0, len(cands))
	for _, mv := range cands {
		stage, base := classify(pos, side, mv, ttMove, mustBlock, ply, h, priorMoves)
		ordered = append(ordered, Candidate{
			Move:  mv,
			Stage: stage,
			Score: base + secondaryScore(side, mv, priorMoves, h),
		})
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Stage != ordered[j].Stage {
			return ordered[i].Stage < ordered[j].Stage
		}
		return ordered[i].Score > ordered[j].Score
	})

	return &Picker{ordered: ordered}
}

// NextMove advances the picker, returning (NoMove, false) once exhausted.
func (p *Picker) NextMove() (board.Move, bool) {
	if p.idx >= len(p.ordered) {
		return board.NoMove, false
	}
	mv := p.ordered[p.idx].Move
	p.idx++
	return mv, true
}

// Len reports the total candidate count.
func (p *Picker) Len() int {
	return len(p.ordered)
}

// StageAt reports the stage of the i-th move in emission order (0-indexed),
// for tests and diagnostics.
func (p *Picker) StageAt(i int) Stage {
	return p.ordered[i].Stage
}

// Shuffle perturbs move order within each same-stage run using rng, leaving
// stage boundaries untouched (a MustBlock move never moves ahead of TT, nor
// behind a GoodQuiet move). Lazy-SMP helper threads call this to diversify
// the shared TT's population (spec.md §4.11 point 2) without weakening any
// stage's ordering guarantee; the master thread never calls it.
func (p *Picker) Shuffle(rng *rand.Rand) {
	start := 0
	for start < len(p.ordered) {
		end := start + 1
		for end < len(p.ordered) && p.ordered[end].Stage == p.ordered[start].Stage {
			end++
		}
		run := p.ordered[start:end]
		rng.Shuffle(len(run), func(i, j int) { run[i], run[j] = run[j], run[i] })
		start = end
	}
}

// Candidates enumerates empty cells within radius 2 of any stone, or the
// center cell if the board is empty (spec.md §4.9).
func Candidates(pos *board.Position) []board.Move {
	occupied := pos.Red().Or(pos.Blue())
	if occupied.IsEmpty() {
		return []board.Move{{X: board.Size / 2, Y: board.Size / 2}}
	}

	seen := make(map[board.Move]bool)
	var moves []board.Move

	occupied.IterSetBits(func(x, y int) bool {
		for dx := -2; dx <= 2; dx++ {
			for dy := -2; dy <= 2; dy++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || nx >= board.Size || ny < 0 || ny >= board.Size {
					continue
				}
				if pos.At(nx, ny) != board.Empty {
					continue
				}
				mv := board.Move{X: nx, Y: ny}
				if !seen[mv] {
					seen[mv] = true
					moves = append(moves, mv)
				}
			}
		}
		return true
	})
	return moves
}

func classify(pos *board.Position, side board.Side, mv, ttMove board.Move, mustBlock map[board.Move]bool, ply int, h *heuristics.Set, priorMoves []board.Move) (Stage, int32) {
	switch {
	case mv.Equals(ttMove):
		return StageTT, baseTT
	case mustBlock[mv]:
		return StageMustBlock, baseMustBlock
	case createsPattern(pos, side, mv, pattern.IsWinningPattern):
		return StageWinning, baseWinning
	case createsPattern(pos, side, mv, func(p pattern.Pattern) bool { return p == pattern.Flex3 }):
		return StageThreatCreate, baseThreatCreate
	case h.Killers.Contains(ply, mv) || counterScore(side, mv, priorMoves, h) > 0:
		return StageKillerCounter, baseKillerCounter
	case secondaryScore(side, mv, priorMoves, h) >= goodQuietThreshold:
		return StageGoodQuiet, baseGoodQuiet
	default:
		return StageBadQuiet, baseBadQuiet
	}
}

func createsPattern(pos *board.Position, side board.Side, mv board.Move, admit func(pattern.Pattern) bool) bool {
	if err := pos.Place(mv.X, mv.Y, side); err != nil {
		return false
	}
	p := pattern.ClassifyAt(pos, side, mv.X, mv.Y)
	_ = pos.Unplace(mv.X, mv.Y, side)
	return admit(p)
}

func withoutForbidden(cands []board.Move, forbidden map[board.Move]bool) []board.Move {
	out := make([]board.Move, 0, len(cands))
	for _, mv := range cands {
		if !forbidden[mv] {
			out = append(out, mv)
		}
	}
	return out
}

func mustBlockSquares(oppThreats []threat.Threat) map[board.Move]bool {
	out := make(map[board.Move]bool)
	for _, th := range oppThreats {
		if th.Type != threat.StraightFour && th.Type != threat.BrokenFour {
			continue
		}
		for _, g := range th.Gains {
			out[g] = true
		}
	}
	return out
}

// secondaryScore sums continuation history, history heuristic, the
// counter-move score, and a center-proximity bonus (spec.md §4.9).
func secondaryScore(side board.Side, mv board.Move, priorMoves []board.Move, h *heuristics.Set) int32 {
	score := h.History.Get(side, mv.X, mv.Y)
	score += counterScore(side, mv, priorMoves, h)

	for dist := 1; dist <= heuristics.ContinuationDepth && dist <= len(priorMoves); dist++ {
		prev := priorMoves[len(priorMoves)-dist]
		score += h.Continuation.Score(dist, side, prev.X, prev.Y, mv.X, mv.Y)
	}

	score += centerProximityBonus(mv)
	return score
}

func counterScore(side board.Side, mv board.Move, priorMoves []board.Move, h *heuristics.Set) int32 {
	if n := len(priorMoves); n > 0 {
		last := priorMoves[n-1]
		return h.CounterMove.Score(side, last.X, last.Y, mv.X, mv.Y)
	}
	return 0
}

// centerProximityBonus rewards cells closer to the board center (7,7); the
// corner-to-center Manhattan distance (14) is the normalizing ceiling.
func centerProximityBonus(mv board.Move) int32 {
	const cx, cy = 7, 7
	dist := absInt(mv.X-cx) + absInt(mv.Y-cy)
	return int32(14 - dist)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
