package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	ws "github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// Config holds configuration for the WebSocket server.
type Config struct {
	// Engine holds the constants every connection's engine is built with.
	Engine snake.Config

	// EngineOptions are applied to every engine, e.g. snake.WithSeed.
	EngineOptions []snake.Option

	// Store is the run journal. Nil disables journaling.
	Store *storage.Store

	// Logger receives server and session events. Defaults to stderr.
	Logger *log.Logger

	// SingleRun closes each connection after its first game over.
	SingleRun bool
}

const (
	maxPlayerName = 32
	statusTimeout = time.Second
)

// SessionStatus is one live session as reported by /healthz.
type SessionStatus struct {
	Player    string `json:"player,omitempty"`
	State     string `json:"state"`
	Score     int    `json:"score"`
	HighScore int    `json:"high_score"`
	Tick      uint64 `json:"tick"`
}

// Server upgrades HTTP requests on /ws and runs one snake session per
// connection. An optional "name" query parameter is journaled as the player.
type Server struct {
	cfg      Config
	logger   *log.Logger
	upgrader ws.Upgrader
	mux      *http.ServeMux

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	closing bool
	live    map[*session]struct{}
}

// NewServer validates the engine constants and builds the handler tree.
func NewServer(cfg Config) (*Server, error) {
	if err := cfg.Engine.Validate(); err != nil {
		return nil, fmt.Errorf("web: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "snake-web",
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:    cfg,
		logger: logger,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Any origin may connect; the protocol carries no credentials.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		mux:    http.NewServeMux(),
		ctx:    ctx,
		cancel: cancel,
		live:   make(map[*session]struct{}),
	}
	s.mux.HandleFunc("GET /ws", s.handleWS)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s, nil
}

// Handler returns the HTTP handler serving /ws and /healthz.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Sessions returns the number of connected players.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Status asks every live session for its current snapshot. Sessions that
// end or do not answer in time are left out.
func (s *Server) Status(ctx context.Context) []SessionStatus {
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.live))
	for sess := range s.live {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	out := make([]SessionStatus, 0, len(sessions))
	for _, sess := range sessions {
		snap, err := sess.runner.Snapshot(ctx)
		if err != nil {
			continue
		}
		out = append(out, SessionStatus{
			Player:    sess.player,
			State:     snap.State.String(),
			Score:     snap.Score,
			HighScore: snap.HighScore,
			Tick:      snap.Tick,
		})
	}
	return out
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// and closes every session.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "address", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web: listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...", "sessions", s.Sessions())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	return err
}

// Close ends every session and waits for them to finish. Connections
// arriving after Close are refused.
func (s *Server) Close() {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// acquire registers a starting session unless the server is closing.
func (s *Server) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.wg.Add(1)
	return true
}

func (s *Server) track(sess *session) {
	s.mu.Lock()
	s.live[sess] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(sess *session) {
	s.mu.Lock()
	delete(s.live, sess)
	s.mu.Unlock()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.Status(r.Context())
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": len(status),
		"players":  status,
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !s.acquire() {
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}
	defer s.wg.Done()

	engine, err := snake.New(s.cfg.Engine, s.cfg.EngineOptions...)
	if err != nil {
		http.Error(w, "cannot create game", http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	player := playerName(r.URL.Query().Get("name"))
	sess := newSession(s, newConnection(conn), engine, r.RemoteAddr, player)
	s.track(sess)
	defer s.untrack(sess)
	sess.serve(s.ctx)
}

// playerName cleans the "name" query parameter: invalid UTF-8 is dropped
// and the result is cut to maxPlayerName characters.
func playerName(raw string) string {
	name := strings.TrimSpace(strings.ToValidUTF8(raw, ""))
	if utf8.RuneCountInString(name) <= maxPlayerName {
		return name
	}
	return string([]rune(name)[:maxPlayerName])
}
