// Package tui provides the Bubble Tea host for the snake engine. It handles
// the terminal UI loop, input mapping, tick scheduling and SSH sessions.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg asks the model to advance the engine. Gen identifies the timer
// that produced it; ticks from an older generation are dropped.
type TickMsg struct {
	Gen  int
	Time time.Time
}

// tickCmd schedules one tick after the given interval. The model issues a
// new one after each tick, so the interval follows the engine's speed.
func tickCmd(interval time.Duration, gen int) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, Time: t}
	})
}
