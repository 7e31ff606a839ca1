package core

// Action represents a semantic game action, abstracted from physical key presses.
// The platform maps keys to actions so the game screen works with intents
// rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, K, Up arrow - move the target cursor up
	ActionDown           // S, J, Down arrow - move the target cursor down
	ActionLeft           // A, H, Left arrow - move the target cursor left
	ActionRight          // D, L, Right arrow - move the target cursor right
	ActionFire           // Space, Enter - fire at the cursor
	ActionRotate         // O - toggle ship orientation
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B, Escape - go back to menu
	ActionRestart        // R - start a new game
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionHelp           // ? - toggle full help
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionFire:
		return "Fire"
	case ActionRotate:
		return "Rotate"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// Delta returns the cursor movement for a direction action.
// Non-direction actions return (0, 0).
func (a Action) Delta() (dx, dy int) {
	switch a {
	case ActionUp:
		return 0, -1
	case ActionDown:
		return 0, 1
	case ActionLeft:
		return -1, 0
	case ActionRight:
		return 1, 0
	}
	return 0, 0
}
