package snake

import (
	"fmt"
	"time"
)

// Engine owns one game's state and advances it one tick at a time.
//
// Engine is not safe for concurrent use. Hosts serialize Tick, Reset and the
// Submit methods onto a single goroutine.
type Engine struct {
	cfg   Config
	rng   Source
	hooks Hooks
	input InputQueue

	state     State
	snake     []Cell // Head at index 0
	direction Direction
	food      Cell
	score     int
	highScore int // Process lifetime only; survives Reset
	speed     time.Duration
	tick      uint64 // Ticks applied in the current session
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource sets the random source used for food placement.
func WithSource(src Source) Option {
	return func(e *Engine) {
		e.rng = src
	}
}

// WithSeed seeds the default random source.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.rng = NewSource(seed)
	}
}

// WithHooks installs observation callbacks.
func WithHooks(h Hooks) Option {
	return func(e *Engine) {
		e.hooks = h
	}
}

// New creates an idle engine. Call Reset (or SubmitRestart) to start playing.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:   cfg,
		state: StateIdle,
		speed: cfg.InitialSpeed,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = NewSource(uint64(time.Now().UnixNano()))
	}
	return e, nil
}

// SetHooks replaces the observation callbacks.
func (e *Engine) SetHooks(h Hooks) {
	e.hooks = h
}

// Reset starts a new session: canonical snake facing right, score 0,
// initial speed, fresh food, empty input queue. HighScore is kept.
func (e *Engine) Reset() {
	e.snake = e.cfg.startCells()
	e.direction = DirRight
	e.score = 0
	e.speed = e.cfg.InitialSpeed
	e.tick = 0
	e.input.Clear()
	e.placeFood()
	e.state = StatePlaying

	e.hooks.scoreChanged(e.score)
	e.hooks.stateChanged(e.state)
}

// SubmitDirection queues a direction change for the next tick.
// It is ignored unless the engine is Playing.
func (e *Engine) SubmitDirection(d Direction) {
	if e.state != StatePlaying {
		return
	}
	e.input.Offer(d, e.direction)
}

// SubmitRestart starts a new session from Idle or Over.
// It is ignored while Playing.
func (e *Engine) SubmitRestart() {
	if e.state == StatePlaying {
		return
	}
	e.Reset()
}

// Tick advances the simulation by one step. Outside Playing it changes
// nothing and returns an OutcomeSkipped result.
func (e *Engine) Tick() TickResult {
	if e.state != StatePlaying {
		return TickResult{Outcome: OutcomeSkipped, Direction: e.direction, Tick: e.tick}
	}

	e.tick++
	e.direction = e.input.Resolve(e.direction)
	newHead := e.snake[0].Add(e.direction.Vector())

	result := TickResult{
		Tick:      e.tick,
		Direction: e.direction,
		Head:      newHead,
	}

	if !newHead.In(e.cfg.GridSize) {
		return e.terminate(result, CauseWall)
	}
	// The tail is still part of the body here even though it would move
	// away this tick, so stepping into it ends the game.
	if e.occupied(newHead) {
		return e.terminate(result, CauseSelf)
	}

	e.snake = append(e.snake, Cell{})
	copy(e.snake[1:], e.snake)
	e.snake[0] = newHead

	if newHead == e.food {
		e.score++
		e.speed = max(e.speed-e.cfg.SpeedIncrement, e.cfg.MinSpeed)
		e.placeFood()
		result.Outcome = OutcomeAte
		e.hooks.scoreChanged(e.score)
	} else {
		e.snake = e.snake[:len(e.snake)-1]
		result.Outcome = OutcomeMoved
	}

	e.hooks.ticked(result)
	return result
}

// terminate ends the session. Only the state and the high score change.
func (e *Engine) terminate(result TickResult, cause Cause) TickResult {
	e.state = StateOver
	result.Outcome = OutcomeTerminated
	result.Cause = cause

	if e.score > e.highScore {
		e.highScore = e.score
		e.hooks.highScoreChanged(e.highScore)
	}
	e.hooks.stateChanged(e.state)
	e.hooks.ticked(result)
	return result
}

// placeFood samples random cells until one is free of the snake.
// Expected cost is low while the board is mostly empty; the worst case is
// unbounded.
func (e *Engine) placeFood() {
	size := e.cfg.GridSize
	if len(e.snake) >= size*size {
		panic(fmt.Sprintf("snake: no free cell for food (length %d, grid %d)", len(e.snake), size))
	}
	for {
		c := Cell{X: e.rng.IntN(size), Y: e.rng.IntN(size)}
		if !e.occupied(c) {
			e.food = c
			return
		}
	}
}

// occupied reports whether any body cell equals c.
func (e *Engine) occupied(c Cell) bool {
	for _, seg := range e.snake {
		if seg == c {
			return true
		}
	}
	return false
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Snake returns a copy of the body, head first.
func (e *Engine) Snake() []Cell {
	return append([]Cell(nil), e.snake...)
}

// Head returns the head cell. It is the zero Cell before the first Reset.
func (e *Engine) Head() Cell {
	if len(e.snake) == 0 {
		return Cell{}
	}
	return e.snake[0]
}

// Food returns the food cell.
func (e *Engine) Food() Cell {
	return e.food
}

// Direction returns the direction of travel.
func (e *Engine) Direction() Direction {
	return e.direction
}

// Score returns the session score: body length minus initial length.
func (e *Engine) Score() int {
	return e.score
}

// HighScore returns the best score seen by this engine.
func (e *Engine) HighScore() int {
	return e.highScore
}

// Speed returns the current tick interval. Hosts re-arm their timer with it
// after every tick.
func (e *Engine) Speed() time.Duration {
	return e.speed
}

// Config returns the engine constants.
func (e *Engine) Config() Config {
	return e.cfg
}
