package snake

import (
	"fmt"
	"strings"
	"time"
)

// Snapshot is a read-only copy of the engine state, used for rendering,
// network frames and determinism checks.
type Snapshot struct {
	Tick      uint64
	State     State
	Snake     []Cell // Head first
	Direction Direction
	Food      Cell
	Score     int
	HighScore int
	Speed     time.Duration
	GridSize  int
}

// Snapshot returns the current engine snapshot.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Tick:      e.tick,
		State:     e.state,
		Snake:     e.Snake(),
		Direction: e.direction,
		Food:      e.food,
		Score:     e.score,
		HighScore: e.highScore,
		Speed:     e.speed,
		GridSize:  e.cfg.GridSize,
	}
}

// Head returns the snapshot's head cell.
func (s Snapshot) Head() Cell {
	if len(s.Snake) == 0 {
		return Cell{}
	}
	return s.Snake[0]
}

// DebugState returns a short multi-line description of the engine state.
func (e *Engine) DebugState() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tick: %d, State: %s, Score: %d, High: %d\n", e.tick, e.state, e.score, e.highScore)
	fmt.Fprintf(&b, "Snake len: %d, Direction: %s, Speed: %s\n", len(e.snake), e.direction, e.speed)
	if len(e.snake) > 0 {
		head := e.Head()
		fmt.Fprintf(&b, "Head: (%d, %d), Food: (%d, %d)\n", head.X, head.Y, e.food.X, e.food.Y)
	}
	if d, ok := e.input.Pending(); ok {
		fmt.Fprintf(&b, "Pending: %s\n", d)
	}
	return b.String()
}
