package battleship

import "fmt"

// ShotResult is the outcome of firing at a cell.
type ShotResult int

const (
	ShotNone ShotResult = iota // Shot was rejected with an error
	ShotAlreadyFired
	ShotHit
	ShotMiss
)

// String returns a human-readable name for the result.
func (r ShotResult) String() string {
	switch r {
	case ShotAlreadyFired:
		return "already fired"
	case ShotHit:
		return "hit"
	case ShotMiss:
		return "miss"
	default:
		return "none"
	}
}

// ApplyShot fires at cell idx. Repeat shots report ShotAlreadyFired and leave
// the board untouched; out-of-range targets return ErrInvalidTarget.
func ApplyShot(b *Board, idx int) (ShotResult, error) {
	if !b.InBounds(idx) {
		return ShotNone, fmt.Errorf("shot at %d: %w", idx, ErrInvalidTarget)
	}

	cell := &b.cells[idx]
	if cell.Fired {
		return ShotAlreadyFired, nil
	}

	cell.Fired = true
	if cell.Taken {
		return ShotHit, nil
	}
	return ShotMiss, nil
}

// IsFleetDestroyed reports whether no ship cell on the board remains unhit.
// Once true it stays true until the board is reset.
func IsFleetDestroyed(b *Board) bool {
	for _, c := range b.cells {
		if c.Taken && !c.Fired {
			return false
		}
	}
	return true
}
