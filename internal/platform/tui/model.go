package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// Session identifies who is playing and where.
type Session struct {
	Host   string // "tui" or "ssh"; recorded in the run journal
	Player string
	Logger *log.Logger
}

// Model is the Bubble Tea model for one snake player.
type Model struct {
	engine    *snake.Engine
	screen    *core.Screen
	store     *storage.Store
	config    core.RuntimeConfig
	session   Session
	keyMapper *KeyMapper
	history   HistoryModel

	gen         int // Generation of the live tick timer
	runID       string
	started     time.Time
	lastCause   snake.Cause
	paused      bool
	showHistory bool
	quitting    bool
}

// NewModel creates a model around the engine and starts a session when the
// engine is idle. store may be nil, in which case runs are not journaled.
// The engine's hooks are replaced with the model's logging hooks.
func NewModel(engine *snake.Engine, store *storage.Store, cfg core.RuntimeConfig, sess Session) Model {
	if sess.Logger == nil {
		sess.Logger = log.New(io.Discard)
	}
	if sess.Host == "" {
		sess.Host = "tui"
	}

	m := Model{
		engine:    engine,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:     store,
		config:    cfg,
		session:   sess,
		keyMapper: NewKeyMapper(),
	}
	logger, player := sess.Logger, sess.Player
	engine.SetHooks(snake.Hooks{
		OnHighScoreChange: func(score int) {
			logger.Info("new high score", "player", player, "score", score)
		},
	})
	if engine.State() == snake.StateIdle {
		engine.Reset()
	}
	m.beginRun()
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return m.schedule()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHistory {
			return m.updateHistory(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		if m.showHistory {
			return m.updateHistory(msg)
		}
		return m, nil

	case TickMsg:
		return m.handleTick(msg)
	}

	if m.showHistory {
		return m.updateHistory(msg)
	}
	return m, nil
}

// handleKey processes keyboard input on the board.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" && m.session.Host == "tui" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	if dir, ok := directionFor(action); ok {
		if !m.paused {
			m.engine.SubmitDirection(dir)
		}
		return m, nil
	}

	switch action {
	case core.ActionRestart:
		if m.engine.State() == snake.StatePlaying {
			return m, nil
		}
		m.engine.SubmitRestart()
		m.paused = false
		m.beginRun()
		return m, m.restartTimer()

	case core.ActionPause:
		if m.engine.State() != snake.StatePlaying {
			return m, nil
		}
		m.paused = !m.paused
		return m, m.restartTimer()

	case core.ActionHistory:
		m.showHistory = true
		m.history = NewHistoryModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.gen++ // The board timer stops while history is open
		return m, nil
	}

	return m, nil
}

// updateHistory forwards a message to the history screen.
func (m Model) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.history.Update(msg)
	m.history = next.(HistoryModel)

	if m.history.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.history.IsGoingBack() {
		m.showHistory = false
		return m, m.restartTimer()
	}
	return m, cmd
}

// handleTick advances the engine once and schedules the next tick with the
// speed in effect after it.
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen || m.paused || m.showHistory {
		return m, nil
	}

	result := m.engine.Tick()
	switch {
	case result.Outcome == snake.OutcomeSkipped:
		return m, nil
	case result.Ended():
		m.lastCause = result.Cause
		m.recordRun(result)
		return m, nil
	}
	return m, m.schedule()
}

// restartTimer invalidates any outstanding tick and schedules a fresh one
// if the engine should be running.
func (m *Model) restartTimer() tea.Cmd {
	m.gen++
	return m.schedule()
}

func (m Model) schedule() tea.Cmd {
	if m.engine.State() != snake.StatePlaying || m.paused || m.showHistory {
		return nil
	}
	return tickCmd(m.engine.Speed(), m.gen)
}

// beginRun assigns a journal identity to the session that just started.
func (m *Model) beginRun() {
	m.runID = uuid.NewString()
	m.started = time.Now()
	m.lastCause = snake.CauseNone
	m.session.Logger.Debug("run started", "run", m.runID, "player", m.session.Player)
}

// recordRun appends the finished session to the journal. Failures are
// logged and otherwise ignored.
func (m Model) recordRun(result snake.TickResult) {
	snap := m.engine.Snapshot()
	m.session.Logger.Info("run over",
		"run", m.runID,
		"player", m.session.Player,
		"cause", result.Cause,
		"score", snap.Score,
		"length", len(snap.Snake),
	)
	m.session.Logger.Debug("final state", "engine", m.engine.DebugState())
	if m.store == nil {
		return
	}
	run := storage.NewRun(m.runID, m.session.Host, m.session.Player, snap, result.Cause, m.started)
	if _, err := m.store.SaveRun(run); err != nil {
		m.session.Logger.Warn("could not journal run", "run", m.runID, "error", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.draw()

	dir := filepath.Join(os.Getenv("HOME"), ".snake", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("snake_%s.txt", timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.session.Logger.Warn("could not save screenshot", "path", path, "error", err)
	}
}

func (m Model) draw() {
	drawFrame(m.screen, frame{
		snap:      m.engine.Snapshot(),
		paused:    m.paused,
		lastCause: m.lastCause,
	})
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHistory {
		return m.history.View()
	}

	m.draw()
	return RenderScreen(m.screen)
}

// IsQuitting returns true if the user asked to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Run starts the Bubble Tea program for a local player.
func Run(engine *snake.Engine, store *storage.Store, cfg core.RuntimeConfig, sess Session) error {
	model := NewModel(engine, store, cfg, sess)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
