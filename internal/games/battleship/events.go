package battleship

import "sync"

// Event is a state change published by the Engine.
// Every event carries the generation of the game that produced it, so
// observers can drop events from a game that has since been restarted.
type Event interface {
	EventGeneration() uint64
	gameEvent()
}

// GameStartedEvent is sent once both fleets are placed.
type GameStartedEvent struct {
	Generation uint64
	Width      int
}

func (e GameStartedEvent) EventGeneration() uint64 { return e.Generation }
func (GameStartedEvent) gameEvent() {}

// GameResetEvent is sent when every cell has been cleared.
type GameResetEvent struct {
	Generation uint64
}

func (e GameResetEvent) EventGeneration() uint64 { return e.Generation }
func (GameResetEvent) gameEvent() {}

// CellChangedEvent is sent when a visible cell changes: the user's own ship
// cells after placement, and every fired cell on either board.
type CellChangedEvent struct {
	Generation uint64
	Side       Side // Owner of the board
	Index      int
	Cell       Cell
}

func (e CellChangedEvent) EventGeneration() uint64 { return e.Generation }
func (CellChangedEvent) gameEvent() {}

// ShotEvent is sent for every shot that changed a board.
type ShotEvent struct {
	Generation uint64
	Shooter    Side
	Index      int
	Result     ShotResult
}

func (e ShotEvent) EventGeneration() uint64 { return e.Generation }
func (ShotEvent) gameEvent() {}

// TurnChangedEvent is sent when control passes to the other side.
type TurnChangedEvent struct {
	Generation uint64
	Player     Side
	Phase      Phase
}

func (e TurnChangedEvent) EventGeneration() uint64 { return e.Generation }
func (TurnChangedEvent) gameEvent() {}

// GameOverEvent is sent when a fleet has been destroyed.
type GameOverEvent struct {
	Generation uint64
	Winner     Side
	Score      int
}

func (e GameOverEvent) EventGeneration() uint64 { return e.Generation }
func (GameOverEvent) gameEvent() {}

// OrientationChangedEvent is sent when the orientation toggle flips.
type OrientationChangedEvent struct {
	Generation  uint64
	Orientation Orientation
}

func (e OrientationChangedEvent) EventGeneration() uint64 { return e.Generation }
func (OrientationChangedEvent) gameEvent() {}

// Subscription delivers engine events over a buffered channel.
// Delivery never blocks the engine: when the buffer is full the oldest
// pending event is dropped.
type Subscription struct {
	events   chan Event
	done     chan struct{}
	doneOnce sync.Once
}

func newSubscription(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 64
	}
	return &Subscription{
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
}

// send delivers an event, dropping the oldest buffered one if needed.
func (s *Subscription) send(evt Event) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- evt:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- evt:
		default:
		}
	}
}

// Events returns the channel to receive events from.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Done returns a channel that closes when the subscription ends.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close ends the subscription. Safe to call multiple times.
func (s *Subscription) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

func (s *Subscription) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
