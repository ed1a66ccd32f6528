package web

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/runner"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// session binds one connection to one engine. Runner callbacks and the read
// loop touch only the runner and the connection, never the engine.
type session struct {
	conn     *connection
	runner   *runner.Runner
	store    *storage.Store
	logger   *log.Logger
	player   string
	grid     int
	minSpeed time.Duration

	// Owned by the runner goroutine.
	runID   string
	started time.Time
}

func newSession(s *Server, conn *connection, engine *snake.Engine, remote, player string) *session {
	sess := &session{
		conn:     conn,
		store:    s.cfg.Store,
		player:   player,
		logger:   s.logger.With("conn", uuid.NewString()[:8], "remote", remote),
		grid:     engine.Config().GridSize,
		minSpeed: engine.Config().MinSpeed,
	}
	engine.SetHooks(snake.Hooks{OnHighScoreChange: sess.onHighScore})
	opts := []runner.Option{
		runner.WithLogger(sess.logger),
		runner.WithResetHandler(sess.onReset),
		runner.WithTickHandler(sess.onTick),
	}
	if s.cfg.SingleRun {
		opts = append(opts, runner.WithStopOnOver())
	}
	sess.runner = runner.New(engine, opts...)
	return sess
}

// serve runs the session until the client leaves or ctx is cancelled.
func (sess *session) serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess.logger.Info("session started")
	go sess.conn.writePump()

	runErr := make(chan error, 1)
	go func() {
		err := sess.runner.Run(ctx)
		if err == nil {
			// The only run is over: flush the final frame and hang up.
			sess.conn.Finish()
		}
		runErr <- err
	}()

	// Cancellation closes the socket, which ends the read loop below.
	go func() {
		select {
		case <-ctx.Done():
			sess.conn.Close()
		case <-sess.conn.Closed():
		}
	}()

	if err := sess.conn.readPump(sess.handleMessage); err != nil {
		sess.logger.Warn("read failed", "error", err)
	}
	cancel()
	if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) {
		sess.logger.Error("runner failed", "error", err)
	}
	sess.logger.Info("session ended")
}

// handleMessage applies one client frame. Malformed input is dropped at the
// boundary and never reaches the engine.
func (sess *session) handleMessage(b []byte) {
	env, err := DecodeEnvelope(b)
	if err != nil {
		sess.reject(err)
		return
	}

	switch env.T {
	case MsgInput:
		in, err := DecodePayload[Input](env)
		if err != nil {
			sess.reject(err)
			return
		}
		dir, ok := snake.ParseDirection(in.Dir)
		if !ok {
			sess.logger.Debug("dropped unknown direction", "dir", in.Dir)
			return
		}
		_ = sess.runner.Submit(dir)
	case MsgRestart:
		_ = sess.runner.Restart()
	default:
		sess.reject(fmt.Errorf("%w: %q", ErrUnknownMessage, env.T))
	}
}

func (sess *session) reject(err error) {
	sess.logger.Debug("rejected message", "error", err)
	sess.send(MsgError, Error{Message: err.Error()})
}

func (sess *session) send(t string, payload any) {
	b, err := Encode(t, payload)
	if err != nil {
		sess.logger.Error("encode failed", "type", t, "error", err)
		return
	}
	if err := sess.conn.Send(b); err != nil && !errors.Is(err, ErrConnectionClosed) {
		sess.logger.Warn("dropping slow client", "error", err)
	}
}

func (sess *session) onReset(snap snake.Snapshot) {
	sess.runID = uuid.NewString()
	sess.started = time.Now()
	sess.send(MsgWelcome, Welcome{
		RunID:      sess.runID,
		Grid:       sess.grid,
		SpeedMs:    snap.Speed.Milliseconds(),
		MinSpeedMs: sess.minSpeed.Milliseconds(),
	})
	sess.send(MsgState, stateFrom(sess.runID, snap, nil))
}

func (sess *session) onTick(res snake.TickResult, snap snake.Snapshot) {
	if res.Ended() {
		sess.record(res, snap)
	}
	sess.send(MsgState, stateFrom(sess.runID, snap, &res))
}

// onHighScore runs on the runner goroutine from inside Tick.
func (sess *session) onHighScore(score int) {
	sess.logger.Info("new high score", "player", sess.player, "score", score)
}

// record journals a finished run. Failures are logged and otherwise ignored.
func (sess *session) record(res snake.TickResult, snap snake.Snapshot) {
	sess.logger.Info("run over",
		"run", sess.runID,
		"cause", res.Cause,
		"score", snap.Score,
		"length", len(snap.Snake),
	)
	if sess.store == nil {
		return
	}
	run := storage.NewRun(sess.runID, "web", sess.player, snap, res.Cause, sess.started)
	if _, err := sess.store.SaveRun(run); err != nil {
		sess.logger.Warn("could not journal run", "run", sess.runID, "error", err)
	}
}
