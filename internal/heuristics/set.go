package heuristics

import "github.com/caroengine/core/internal/board"

// Set bundles one search thread's heuristic tables. Lazy-SMP workers each own
// a private Set (spec.md §5 "Heuristic tables ... are per-thread").
type Set struct {
	Killers      *KillerMoves
	History      *Table
	Butterfly    *Table
	CounterMove  *CounterMoveTable
	Continuation *ContinuationHistory
}

func NewSet() *Set {
	return &Set{
		Killers:      NewKillerMoves(),
		History:      NewTable(),
		Butterfly:    NewTable(),
		CounterMove:  NewCounterMoveTable(),
		Continuation: NewContinuationHistory(),
	}
}

func (s *Set) Reset() {
	s.Killers.Reset()
	s.History.Reset()
	s.Butterfly.Reset()
	s.CounterMove.Reset()
	s.Continuation.Reset()
}

// RecordCutoff applies spec.md §4.10's bundled update on a beta cutoff at mv:
// push the killer, add depth^2 to history and 2*depth^2 to butterfly, and
// bounded-update the counter-move and continuation-history tables against
// the trailing moves played so far (most recent last).
func (s *Set) RecordCutoff(ply int, side board.Side, mv board.Move, depth int, priorMoves []board.Move) {
	s.Killers.Push(ply, mv)

	d2 := int32(depth * depth)
	s.History.Add(side, mv.X, mv.Y, d2)
	s.Butterfly.Add(side, mv.X, mv.Y, 2*d2)

	if n := len(priorMoves); n > 0 {
		last := priorMoves[n-1]
		s.CounterMove.Update(side, last.X, last.Y, mv.X, mv.Y, d2)
	}

	for dist := 1; dist <= ContinuationDepth && dist <= len(priorMoves); dist++ {
		prev := priorMoves[len(priorMoves)-dist]
		s.Continuation.Update(dist, side, prev.X, prev.Y, mv.X, mv.Y, d2)
	}
}
