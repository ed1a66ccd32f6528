// Package runner drives a snake engine in real time. A Runner owns one
// engine on a single goroutine: submissions arrive through an inbox and are
// applied between ticks, and the tick timer is re-armed from the engine's
// current speed after every tick.
package runner

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

// ErrStopped is returned by submissions made after Run has returned.
var ErrStopped = errors.New("runner: stopped")

// ErrAlreadyRunning is returned when Run is called twice.
var ErrAlreadyRunning = errors.New("runner: already running")

const inboxSize = 64

type (
	directionCmd struct{ dir snake.Direction }
	restartCmd   struct{}
	snapshotCmd  struct{ reply chan snake.Snapshot }
)

// Runner schedules ticks for one engine.
type Runner struct {
	engine *snake.Engine
	inbox  chan any
	done   chan struct{}
	timer  *time.Timer

	running    atomic.Bool
	stopOnOver bool
	onTick     func(snake.TickResult, snake.Snapshot)
	onReset    func(snake.Snapshot)
	logger     *log.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithStopOnOver makes Run return after the first session ends.
func WithStopOnOver() Option {
	return func(r *Runner) {
		r.stopOnOver = true
	}
}

// WithTickHandler is called on the runner goroutine after every tick.
func WithTickHandler(fn func(snake.TickResult, snake.Snapshot)) Option {
	return func(r *Runner) {
		r.onTick = fn
	}
}

// WithResetHandler is called on the runner goroutine after every reset.
func WithResetHandler(fn func(snake.Snapshot)) Option {
	return func(r *Runner) {
		r.onReset = fn
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// New creates a runner for the engine. The engine must not be touched by
// anything else while Run is active.
func New(engine *snake.Engine, opts ...Option) *Runner {
	r := &Runner{
		engine: engine,
		inbox:  make(chan any, inboxSize),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	return r
}

// Submit queues a direction change for the next tick.
func (r *Runner) Submit(dir snake.Direction) error {
	return r.send(directionCmd{dir: dir})
}

// Restart queues a restart. It is ignored while a session is in progress.
func (r *Runner) Restart() error {
	return r.send(restartCmd{})
}

// Snapshot returns the engine state as seen from the runner goroutine.
func (r *Runner) Snapshot(ctx context.Context) (snake.Snapshot, error) {
	reply := make(chan snake.Snapshot, 1)
	if err := r.send(snapshotCmd{reply: reply}); err != nil {
		return snake.Snapshot{}, err
	}
	select {
	case s := <-reply:
		return s, nil
	case <-r.done:
		return snake.Snapshot{}, ErrStopped
	case <-ctx.Done():
		return snake.Snapshot{}, ctx.Err()
	}
}

// Done is closed when Run returns.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

func (r *Runner) send(cmd any) error {
	select {
	case <-r.done:
		return ErrStopped
	default:
	}
	select {
	case r.inbox <- cmd:
		return nil
	case <-r.done:
		return ErrStopped
	}
}

// Run starts a session if the engine is idle and schedules ticks until ctx
// is cancelled, or until the first Over when WithStopOnOver is set.
func (r *Runner) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(r.done)

	r.timer = time.NewTimer(time.Hour)
	r.timer.Stop()
	defer r.timer.Stop()

	switch r.engine.State() {
	case snake.StateIdle:
		r.reset()
	case snake.StatePlaying:
		r.arm()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-r.inbox:
			r.handle(cmd)
		case <-r.timer.C:
			// Everything submitted before the timer fired counts for this tick.
			r.drain()
			if r.step() && r.stopOnOver {
				return nil
			}
		}
	}
}

func (r *Runner) drain() {
	for {
		select {
		case cmd := <-r.inbox:
			r.handle(cmd)
		default:
			return
		}
	}
}

func (r *Runner) handle(cmd any) {
	switch c := cmd.(type) {
	case directionCmd:
		r.engine.SubmitDirection(c.dir)
	case restartCmd:
		if r.engine.State() == snake.StatePlaying {
			return
		}
		r.reset()
	case snapshotCmd:
		c.reply <- r.engine.Snapshot()
	}
}

func (r *Runner) reset() {
	r.engine.SubmitRestart()
	r.logger.Debug("session started", "grid", r.engine.Config().GridSize, "speed", r.engine.Speed())
	if r.onReset != nil {
		r.onReset(r.engine.Snapshot())
	}
	r.arm()
}

// step applies one tick and reports whether it ended the session.
func (r *Runner) step() bool {
	res := r.engine.Tick()
	if res.Outcome == snake.OutcomeSkipped {
		return false
	}
	if r.onTick != nil {
		r.onTick(res, r.engine.Snapshot())
	}
	if res.Ended() {
		r.logger.Debug("session over",
			"cause", res.Cause,
			"score", r.engine.Score(),
			"high", r.engine.HighScore(),
			"ticks", res.Tick)
		return true
	}
	r.arm()
	return false
}

// arm schedules the next tick using the current speed, replacing any
// pending one.
func (r *Runner) arm() {
	r.timer.Reset(r.engine.Speed())
}
