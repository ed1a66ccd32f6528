package snake

// Hooks are observation callbacks fired synchronously from Reset and Tick.
// Nil fields are skipped. Callbacks must not call back into the engine.
type Hooks struct {
	OnStateChange     func(State)
	OnTick            func(TickResult)
	OnScoreChange     func(int)
	OnHighScoreChange func(int)
}

func (h Hooks) stateChanged(s State) {
	if h.OnStateChange != nil {
		h.OnStateChange(s)
	}
}

func (h Hooks) ticked(r TickResult) {
	if h.OnTick != nil {
		h.OnTick(r)
	}
}

func (h Hooks) scoreChanged(score int) {
	if h.OnScoreChange != nil {
		h.OnScoreChange(score)
	}
}

func (h Hooks) highScoreChanged(score int) {
	if h.OnHighScoreChange != nil {
		h.OnHighScoreChange(score)
	}
}
