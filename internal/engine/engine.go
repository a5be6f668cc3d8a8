// Package engine wires internal/board, internal/pattern, internal/threat,
// internal/vcf, internal/tt, internal/heuristics, internal/picker,
// internal/search, internal/search/searchctl, internal/smp, and
// internal/timectl into the single best_move operation of spec.md §6.
// Mirrors morlock's pkg/engine package: a mutex-guarded struct built by
// functional Options, one active search at a time.
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/caroengine/core/internal/board"
	"github.com/caroengine/core/internal/difficulty"
	"github.com/caroengine/core/internal/heuristics"
	"github.com/caroengine/core/internal/pattern"
	"github.com/caroengine/core/internal/picker"
	"github.com/caroengine/core/internal/search"
	"github.com/caroengine/core/internal/search/searchctl"
	"github.com/caroengine/core/internal/smp"
	"github.com/caroengine/core/internal/threat"
	"github.com/caroengine/core/internal/timectl"
	"github.com/caroengine/core/internal/tt"
	"github.com/caroengine/core/internal/vcf"
)

var version = build.NewVersion(0, 1, 0)

// Engine encapsulates one game's search state: the shared lock-free TT and
// its age, and the difficulty/config knobs governing every subsequent
// BestMove call. Heuristic tables are not kept here; each BestMove call
// allocates fresh ones.
type Engine struct {
	name string
	diff difficulty.Level
	cfg  Config
	seed int64
	zt   *board.ZobristTable

	tt      *tt.LockFreeTT
	age     uint8
	timeMgr timectl.Manager
	rng     *rand.Rand
	active  searchctl.Handle
	mu      sync.Mutex
}

// Option is an engine creation option.
type Option func(*Engine)

// WithConfig overrides the default Config (spec.md §6 recognized options).
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithDifficulty sets the initial AIDifficulty; BestMove's diff parameter
// overrides this per-call, so this only matters for a caller that never
// passes one explicitly.
func WithDifficulty(diff difficulty.Level) Option {
	return func(e *Engine) { e.diff = diff }
}

// WithHelpers overrides the difficulty profile's helper-thread count,
// equivalent to setting Config.MaxHelpers.
func WithHelpers(n int) Option {
	return func(e *Engine) { e.cfg.MaxHelpers = n }
}

// WithZobrist seeds the engine's ZobristTable with a specific value instead
// of the default (0), matching morlock's WithZobrist.
func WithZobrist(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithTimeManager overrides the SafetyMargin/CriticalThreshold a fresh
// timectl.Manager is built with for every BestMove call, letting a caller
// tune the clock-safety behavior independent of the Config knobs above.
func WithTimeManager(mgr timectl.Manager) Option {
	return func(e *Engine) { e.timeMgr = mgr }
}

// New builds an Engine with default options applied, then any overrides.
func New(name string, opts ...Option) *Engine {
	e := &Engine{
		name:    name,
		diff:    difficulty.Medium,
		cfg:     DefaultConfig(),
		age:     1,
		timeMgr: *timectl.NewManager(),
	}
	for _, fn := range opts {
		fn(e)
	}
	e.zt = board.NewZobristTable(e.seed)
	e.tt = tt.NewLockFreeTT(e.cfg.TTSizeMB, e.cfg.ShardCount)
	e.rng = rand.New(rand.NewSource(e.seed))
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// NewPosition returns a fresh, empty Position bound to this engine's
// ZobristTable — the caller's entry point for starting a new game.
func (e *Engine) NewPosition() *board.Position {
	return board.NewPosition(e.zt)
}

// Difficulty returns the engine's configured default AIDifficulty (set via
// WithDifficulty), for a caller that wants one default rather than passing
// a difficulty on every BestMove call.
func (e *Engine) Difficulty() difficulty.Level {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.diff
}

// NewGame halts any active search, replaces the shared TT with a fresh one
// and resets its age (the master's own Searcher/heuristics are allocated
// fresh per BestMove call, so there is no heuristic state to clear here),
// matching spec.md §3's "a new-game reset clears all heuristic state and
// the TT."
func (e *Engine) NewGame(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltActiveLocked()
	e.tt = tt.NewLockFreeTT(e.cfg.TTSizeMB, e.cfg.ShardCount)
	e.age = 1

	logw.Infof(ctx, "%v: new game, tt=%vMB/%v shards", e.Name(), e.cfg.TTSizeMB, e.cfg.ShardCount)
}

// BestMove implements spec.md §6's best_move: it always returns a legal
// move if pos has any empty cell, never an error the caller must special-
// case (per spec.md §7, BudgetExhausted is never surfaced and NoLegalMove
// becomes a terminal Outcome with the sentinel move).
func (e *Engine) BestMove(ctx context.Context, pos *board.Position, side board.Side, diff difficulty.Level, timeRemaining lang.Optional[time.Duration], increment time.Duration, moveNumber int, pondering bool) searchctl.Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.age = nextAge(e.age)
	profile := diff.Profile()

	opt := searchctl.Options{
		TimeRemaining: remainingOr(timeRemaining, e.cfg.EmergencyTimeMS),
		Increment:     increment,
		MoveNumber:    moveNumber,
		Pondering:     pondering,
	}

	logw.Infof(ctx, "%v: best_move diff=%v opt=%v", e.Name(), diff, opt)

	helpers := profile.HelperThreads
	if e.cfg.MaxHelpers >= 0 {
		helpers = e.cfg.MaxHelpers
	}

	master := e.newIterative()
	handle, out := e.launch(ctx, master, helpers, pos, side, diff, opt)
	e.active = handle

	var last searchctl.Outcome
	for o := range out {
		last = o
	}
	final := e.active.Halt()
	e.active = nil

	if final.Move == board.NoMove && last.Move != board.NoMove {
		final = last
	}

	final = e.maybeBlunder(pos, side, final, profile.ErrorRate, moveNumber, profile.OpenRuleZoneSize)

	logw.Infof(ctx, "%v: best_move result %v", e.Name(), final)
	return final
}

// maybeBlunder implements spec.md §3's error-rate knob (iv): with probability
// errorRate, the returned move is replaced by a uniformly random legal
// candidate that is not one of the must-block squares an opponent's forcing
// threat demands — a Beginner or Easy profile still defends an immediate
// loss, it only occasionally misses the objectively-best non-forced move.
// The Open Rule's restricted zone (spec.md §4.10 step 1 / §8 scenario 6) is
// unconditional on difficulty, so it is excluded from the substitution pool
// exactly as it is from the main search's own candidate list.
func (e *Engine) maybeBlunder(pos *board.Position, side board.Side, final searchctl.Outcome, errorRate float64, moveNumber, openRuleZoneSize int) searchctl.Outcome {
	if errorRate <= 0 || final.Move == board.NoMove || e.rng.Float64() >= errorRate {
		return final
	}

	mustBlock := make(map[board.Move]bool)
	for _, th := range threat.Detect(pos, side.Opponent()) {
		if threat.IsForcing(th.Type) {
			for _, g := range th.Gains {
				mustBlock[g] = true
			}
		}
	}
	forbidden := searchctl.OpenRuleForbidden(moveNumber, openRuleZoneSize)

	cands := picker.Candidates(pos)
	var alt []board.Move
	for _, m := range cands {
		if m.Equals(final.Move) || mustBlock[m] || forbidden[m] {
			continue
		}
		alt = append(alt, m)
	}
	if len(alt) == 0 {
		return final
	}

	m := alt[e.rng.Intn(len(alt))]
	blunder := final
	blunder.Move = m
	return blunder
}

// Halt stops whatever BestMove call is currently in flight (for a caller
// managing pondering on a background goroutine); idempotent, a no-op if no
// search is active.
func (e *Engine) Halt() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltActiveLocked()
}

func (e *Engine) haltActiveLocked() {
	if e.active != nil {
		e.active.Halt()
		e.active = nil
	}
}

func (e *Engine) launch(ctx context.Context, master *searchctl.Iterative, helpers int, pos *board.Position, side board.Side, diff difficulty.Level, opt searchctl.Options) (searchctl.Handle, <-chan searchctl.Outcome) {
	masterTT := search.NewLockFreeAdapter(e.tt, e.age)
	if helpers <= 0 {
		return master.Launch(ctx, pos.Clone(), side, masterTT, diff, opt)
	}

	driverTime := e.timeMgr
	d := &smp.Driver{Master: master, Time: &driverTime}
	for i := 1; i <= helpers; i++ {
		d.Helpers = append(d.Helpers, smp.NewWorker(i, masterTT, e.evaluator(), e.searchConfig(), wallclockSeed()))
	}
	return d.Launch(ctx, pos, side, masterTT, diff, opt)
}

func (e *Engine) newIterative() *searchctl.Iterative {
	masterTime := e.timeMgr
	return &searchctl.Iterative{
		Searcher: &search.Searcher{
			Heuristics: heuristics.NewSet(),
			Eval:       e.evaluator(),
			Config:     e.searchConfig(),
		},
		VCF:   vcf.NewSolver(4096),
		Time:  &masterTime,
		Depth: timectl.NewDepthPlanner(),
	}
}

func (e *Engine) evaluator() pattern.Evaluator {
	w := pattern.DefaultWeights()
	w.DefenseNum = int32(e.cfg.DefenseMultiplierNum)
	w.DefenseDen = int32(e.cfg.DefenseMultiplierDen)
	w.CenterRadius = e.cfg.CenterZoneRadius
	return pattern.Evaluator{W: w}
}

func (e *Engine) searchConfig() search.Config {
	cfg := search.DefaultConfig()
	cfg.LMRMinDepth = e.cfg.LMRMinDepth
	cfg.LMRFullDepthMoves = e.cfg.LMRFullDepthMoves
	cfg.NullMoveMinDepth = e.cfg.NullMoveMinDepth
	cfg.NullMoveReduction = e.cfg.NullMoveReduction
	return cfg
}

// nextAge advances the TT generation marker, wrapping [1,63] — 0 is
// reserved to mean "empty slot" (spec.md §9's resolved constructor-age
// inconsistency).
func nextAge(age uint8) uint8 {
	if age >= 63 {
		return 1
	}
	return age + 1
}

// remainingOr returns timeRemaining if the caller supplied one, else a
// conservative default derived from the emergency threshold so an absent
// clock still produces a bounded, non-instant search.
func remainingOr(timeRemaining lang.Optional[time.Duration], emergencyMS int) time.Duration {
	if v, ok := timeRemaining.V(); ok {
		return v
	}
	return time.Duration(emergencyMS) * 4 * time.Millisecond
}

// wallclockSeed seeds a helper thread's jitter RNG, per spec.md §4.11's "an
// RNG seeded from thread_index + wallclock".
func wallclockSeed() int64 {
	return time.Now().UnixNano()
}
