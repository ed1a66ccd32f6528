package core

// Action is a semantic input intent, abstracted from physical keys, swipes
// or network messages. Hosts translate raw input into actions and drop
// anything that does not map to one.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, K, Up arrow
	ActionDown           // S, J, Down arrow
	ActionLeft           // A, H, Left arrow
	ActionRight          // D, L, Right arrow
	ActionRestart        // R, Enter - start a new game when idle or over
	ActionPause          // P - hold the scheduler
	ActionHistory        // Tab - open the run history
	ActionBack           // Esc, B - leave a sub-screen
	ActionQuit           // Q, Ctrl+C
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
	case ActionRestart:
		return "Restart"
	case ActionPause:
		return "Pause"
	case ActionHistory:
		return "History"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// IsMove reports whether the action is one of the four steering actions.
func (a Action) IsMove() bool {
	return a >= ActionUp && a <= ActionRight
}
