package battleship

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTarget is returned for shots outside the board.
	ErrInvalidTarget = errors.New("battleship: invalid target")

	// ErrNotYourTurn is returned when a side fires out of turn.
	ErrNotYourTurn = errors.New("battleship: not your turn")

	// ErrGameOver is returned for shots after the game has ended.
	ErrGameOver = errors.New("battleship: game is over")

	// ErrNotStarted is returned for shots before Start.
	ErrNotStarted = errors.New("battleship: game not started")

	// ErrAlreadyStarted is returned by Start while a game is in progress.
	ErrAlreadyStarted = errors.New("battleship: game already started")

	// ErrStaleGeneration is returned for a scheduled computer turn that
	// belongs to a game which has since been restarted or reset.
	ErrStaleGeneration = errors.New("battleship: stale generation")
)

// PlacementError reports that a ship could not be placed.
type PlacementError struct {
	Ship     string
	Length   int
	Width    int
	Attempts int // Zero when the ship can never fit on the board
}

func (e *PlacementError) Error() string {
	if e.Attempts == 0 {
		return fmt.Sprintf("battleship: %s (length %d) does not fit on a %dx%d board",
			e.Ship, e.Length, e.Width, e.Width)
	}
	return fmt.Sprintf("battleship: cannot place %s (length %d) after %d attempts",
		e.Ship, e.Length, e.Attempts)
}
