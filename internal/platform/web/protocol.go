// Package web hosts snake sessions over WebSocket. Every connection gets its
// own engine and runner; the browser sends steering input and receives a
// state frame after every tick and reset.
package web

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

// Message types carried in Envelope.T.
const (
	MsgInput   = "input"   // client -> server, payload Input
	MsgRestart = "restart" // client -> server, no payload
	MsgWelcome = "welcome" // server -> client, payload Welcome
	MsgState   = "state"   // server -> client, payload State
	MsgError   = "error"   // server -> client, payload Error
)

// ErrUnknownMessage is returned for envelopes with an unrecognized type.
var ErrUnknownMessage = errors.New("web: unknown message type")

// Envelope is the JSON frame every message travels in.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p,omitempty"`
}

// Input asks for a direction change.
type Input struct {
	Dir string `json:"dir"`
}

// Welcome starts a session. A new one is sent after every restart.
type Welcome struct {
	RunID      string `json:"run_id"`
	Grid       int    `json:"grid"`
	SpeedMs    int64  `json:"speed_ms"`
	MinSpeedMs int64  `json:"min_speed_ms"`
}

// Point is a board cell.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// State is a full board frame.
type State struct {
	RunID     string  `json:"run_id"`
	Tick      uint64  `json:"tick"`
	State     string  `json:"state"`
	Snake     []Point `json:"snake"`
	Dir       string  `json:"dir"`
	Food      Point   `json:"food"`
	Score     int     `json:"score"`
	HighScore int     `json:"high_score"`
	SpeedMs   int64   `json:"speed_ms"`
	Outcome   string  `json:"outcome,omitempty"`
	Cause     string  `json:"cause,omitempty"`
}

// Error reports a rejected client message.
type Error struct {
	Message string `json:"message"`
}

// Encode wraps a payload in an envelope. A nil payload produces an
// envelope without "p".
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("web: encode: empty envelope type")
	}
	env := Envelope{T: t}
	if payload != nil {
		pb, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("web: encode %s: %w", t, err)
		}
		env.P = pb
	}
	return json.Marshal(env)
}

// DecodeEnvelope parses a frame.
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("web: decode: empty frame")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("web: decode: %w", err)
	}
	if e.T == "" {
		return Envelope{}, fmt.Errorf("web: decode: missing type")
	}
	return e, nil
}

// DecodePayload unmarshals the envelope payload into T.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("web: empty payload for type %q", env.T)
	}
	if err := json.Unmarshal(env.P, &out); err != nil {
		return out, fmt.Errorf("web: payload for type %q: %w", env.T, err)
	}
	return out, nil
}

// stateFrom converts an engine snapshot into a wire frame. res is nil for
// frames sent after a reset.
func stateFrom(runID string, snap snake.Snapshot, res *snake.TickResult) State {
	st := State{
		RunID:     runID,
		Tick:      snap.Tick,
		State:     snap.State.String(),
		Snake:     make([]Point, len(snap.Snake)),
		Dir:       snap.Direction.String(),
		Food:      Point{X: snap.Food.X, Y: snap.Food.Y},
		Score:     snap.Score,
		HighScore: snap.HighScore,
		SpeedMs:   snap.Speed.Milliseconds(),
	}
	for i, c := range snap.Snake {
		st.Snake[i] = Point{X: c.X, Y: c.Y}
	}
	if res != nil {
		st.Outcome = res.Outcome.String()
		if res.Ended() {
			st.Cause = res.Cause.String()
		}
	}
	return st
}
