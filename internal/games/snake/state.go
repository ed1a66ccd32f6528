package snake

// State is the engine lifecycle state.
type State int

const (
	StateIdle    State = iota // Not started yet
	StatePlaying              // Ticks advance the simulation
	StateOver                 // Terminal until the next Reset
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateOver:
		return "over"
	default:
		return "unknown"
	}
}

// Outcome describes what a single Tick did.
type Outcome int

const (
	OutcomeSkipped    Outcome = iota // Tick called outside Playing; nothing changed
	OutcomeMoved                     // Snake advanced one cell
	OutcomeAte                       // Snake advanced onto food and grew
	OutcomeTerminated                // Collision; the session is over
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeMoved:
		return "moved"
	case OutcomeAte:
		return "ate"
	case OutcomeTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Cause names the collision that ended a session.
type Cause int

const (
	CauseNone Cause = iota
	CauseWall
	CauseSelf
)

func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseWall:
		return "wall"
	case CauseSelf:
		return "self"
	default:
		return "unknown"
	}
}

// TickResult is returned by Engine.Tick for the presentation layer to react to.
type TickResult struct {
	Tick      uint64    // Tick number within the session, starting at 1
	Outcome   Outcome
	Cause     Cause     // Set only when Outcome is OutcomeTerminated
	Direction Direction // Direction applied this tick
	Head      Cell      // New head; for terminations, the cell that was hit
}

// Ended reports whether the tick ended the session.
func (r TickResult) Ended() bool {
	return r.Outcome == OutcomeTerminated
}
