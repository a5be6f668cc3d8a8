package board

import "errors"

// Sentinel errors for Position mutation. See spec.md §7 "Error handling design" for the
// higher-level error-kind taxonomy (InvalidPosition, NoLegalMove, ...); these are the
// concrete causes that feed into it at the board layer.
var (
	// ErrOccupied is returned by Place when the target cell is already occupied.
	ErrOccupied = errors.New("board: cell already occupied")
	// ErrNotOwned is returned by Unplace when the target cell is not owned by the given side.
	ErrNotOwned = errors.New("board: cell not owned by side")
	// ErrOutOfBounds is returned for any (x,y) outside [0,15)^2.
	ErrOutOfBounds = errors.New("board: coordinate out of bounds")
)

func inBounds(x, y int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size
}
