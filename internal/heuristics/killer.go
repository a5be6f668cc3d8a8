package heuristics

import "github.com/caroengine/core/internal/board"

// MaxPly bounds the per-ply killer-move slots; deep enough for any realistic
// iterative-deepening search plus quiescence extension.
const MaxPly = 128

// KillerMoves holds, per search ply, the two most recent moves that caused a
// beta cutoff there (spec.md §3 "KillerMoves[depth][2]").
type KillerMoves struct {
	slots [MaxPly][2]board.Move
}

func NewKillerMoves() *KillerMoves {
	k := &KillerMoves{}
	k.reset()
	return k
}

// Push records mv as the newest killer at ply, demoting the previous primary
// killer to the secondary slot. A duplicate push of the current primary
// killer is a no-op.
func (k *KillerMoves) Push(ply int, mv board.Move) {
	if ply < 0 || ply >= MaxPly || k.slots[ply][0].Equals(mv) {
		return
	}
	k.slots[ply][1] = k.slots[ply][0]
	k.slots[ply][0] = mv
}

// Contains reports whether mv is one of ply's two killer moves.
func (k *KillerMoves) Contains(ply int, mv board.Move) bool {
	if ply < 0 || ply >= MaxPly {
		return false
	}
	return k.slots[ply][0].Equals(mv) || k.slots[ply][1].Equals(mv)
}

func (k *KillerMoves) Reset() {
	k.reset()
}

// reset fills every slot with board.NoMove — the zero board.Move{} is cell
// (0,0), a live candidate, so a zeroed slot would spuriously match it.
func (k *KillerMoves) reset() {
	for ply := range k.slots {
		k.slots[ply][0] = board.NoMove
		k.slots[ply][1] = board.NoMove
	}
}
