package battleship

import "time"

// Phase is the position of a game in its turn cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseUserTurn
	PhaseComputerTurn
	PhaseGameOver
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseUserTurn:
		return "UserTurn"
	case PhaseComputerTurn:
		return "ComputerTurn"
	case PhaseGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// Stats counts the shots one side has landed on the other's board.
type Stats struct {
	Shots int
	Hits  int
}

// Accuracy returns hits per shot in the range [0, 1].
func (s Stats) Accuracy() float64 {
	if s.Shots == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Shots)
}

// GameState describes whose turn it is and how the game stands.
type GameState struct {
	Phase         Phase
	CurrentPlayer Side
	Over          bool
	Winner        Side // Valid only when Over
	Score         int  // Set when the user wins
	Generation    uint64
	Orientation   Orientation
	User          Stats
	Computer      Stats
	StartedAt     time.Time
	EndedAt       time.Time
}

// Duration returns how long the game lasted, or has lasted so far.
func (s GameState) Duration(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	if s.Over {
		return s.EndedAt.Sub(s.StartedAt)
	}
	return now.Sub(s.StartedAt)
}

// Snapshot is a point-in-time copy of an engine for rendering.
type Snapshot struct {
	State    GameState
	Width    int
	User     []Cell
	Computer []Cell
}

// Board returns the cells of the given side's board.
func (s Snapshot) Board(side Side) []Cell {
	if side == SideComputer {
		return s.Computer
	}
	return s.User
}

// ShipsRemaining counts the unhit ship cells on a side's board.
func (s Snapshot) ShipsRemaining(side Side) int {
	n := 0
	for _, c := range s.Board(side) {
		if c.Taken && !c.Fired {
			n++
		}
	}
	return n
}
