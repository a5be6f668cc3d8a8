package searchctl

import "github.com/caroengine/core/internal/board"

// OpenRuleForbidden implements spec.md §4.10 step 1: on the third move of
// the game (Red's second), forbid a zoneSize×zoneSize square centered on the
// board center. zoneSize is a fixed per-difficulty config (3 or 5, spec.md
// §6's open_rule_restricted_zone_size); every other move number is
// unrestricted. Exported so internal/engine's blunder substitution can
// exclude the same forbidden zone the main search path already applies.
func OpenRuleForbidden(moveNumber, zoneSize int) map[board.Move]bool {
	const openRuleMoveNumber = 3
	if moveNumber != openRuleMoveNumber || zoneSize <= 0 {
		return nil
	}

	radius := zoneSize / 2
	cx, cy := board.Size/2, board.Size/2

	forbidden := make(map[board.Move]bool)
	for x := cx - radius; x <= cx+radius; x++ {
		for y := cy - radius; y <= cy+radius; y++ {
			if x < 0 || x >= board.Size || y < 0 || y >= board.Size {
				continue
			}
			forbidden[board.Move{X: x, Y: y}] = true
		}
	}
	return forbidden
}
