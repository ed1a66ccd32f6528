package tui

import (
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

// Each board cell is drawn two characters wide so the board looks square.
const cellWidth = 2

var (
	headGlyph = [cellWidth]rune{'█', '█'}
	bodyGlyph = [cellWidth]rune{'▓', '▓'}
	foodGlyph = [cellWidth]rune{'(', ')'}
)

// frame is everything the board view needs besides the engine snapshot.
type frame struct {
	snap      snake.Snapshot
	paused    bool
	lastCause snake.Cause
}

// boardSize returns the screen area a grid needs: the box plus a HUD line
// above and a help line below.
func boardSize(grid int) (w, h int) {
	return grid*cellWidth + 2, grid + 4
}

// drawFrame renders the board, HUD and overlays into the screen.
func drawFrame(s *core.Screen, f frame) {
	s.Clear()

	w, h := boardSize(f.snap.GridSize)
	if s.Width() < w || s.Height() < h {
		mid := s.Height() / 2
		msg := "Terminal too small"
		if s.Width() < len(msg) {
			msg = "Too small"
		}
		s.DrawTextCentered(mid-1, msg, core.ColorYellow)
		s.DrawTextCentered(mid, fmt.Sprintf("need %dx%d, have %dx%d", w, h, s.Width(), s.Height()), core.ColorGray)
		return
	}

	area := s.Bounds().Centered(w, h)
	box := core.NewRect(area.X, area.Y+1, w, h-2)

	hud := fmt.Sprintf("Score: %d   High: %d   Speed: %dms", f.snap.Score, f.snap.HighScore, f.snap.Speed.Milliseconds())
	s.DrawText(area.X, area.Y, hud, core.ColorWhite)
	s.DrawBox(box, core.ColorGray)

	inner := core.NewRect(box.X+1, box.Y+1, box.W-2, box.H-2)
	plot := func(c snake.Cell, glyph [cellWidth]rune, color core.Color) {
		x := inner.X + c.X*cellWidth
		y := inner.Y + c.Y
		if !inner.Contains(x, y) {
			return
		}
		for i, r := range glyph {
			s.SetCell(x+i, y, core.Cell{Rune: r, Color: color})
		}
	}

	if f.snap.State != snake.StateIdle {
		plot(f.snap.Food, foodGlyph, core.ColorBrightRed)
	}
	for i := len(f.snap.Snake) - 1; i >= 0; i-- {
		if i == 0 {
			plot(f.snap.Snake[i], headGlyph, core.ColorBrightGreen)
		} else {
			plot(f.snap.Snake[i], bodyGlyph, core.ColorGreen)
		}
	}

	drawOverlay(s, box, f)

	help := "arrows/wasd move  p pause  tab history  q quit"
	if f.snap.State != snake.StatePlaying {
		help = "r restart  tab history  q quit"
	}
	s.DrawTextCentered(area.Bottom()-1, help, core.ColorGray)
}

func drawOverlay(s *core.Screen, box core.Rect, f frame) {
	var lines []string
	color := core.ColorYellow

	switch {
	case f.snap.State == snake.StateIdle:
		lines = []string{"SNAKE", "", "press r to start"}
	case f.snap.State == snake.StateOver:
		color = core.ColorBrightRed
		lines = []string{"GAME OVER", causeText(f.lastCause), fmt.Sprintf("Score: %d", f.snap.Score), "", "press r to restart"}
	case f.paused:
		lines = []string{"PAUSED", "", "press p to resume"}
	default:
		return
	}

	top := box.Y + (box.H-len(lines))/2
	for i, line := range lines {
		if line == "" {
			continue
		}
		x := core.Clamp(box.X+(box.W-len([]rune(line)))/2, box.X+1, box.Right()-1)
		s.DrawText(x, top+i, line, color)
	}
}

func causeText(c snake.Cause) string {
	switch c {
	case snake.CauseWall:
		return "hit the wall"
	case snake.CauseSelf:
		return "bit its own tail"
	default:
		return ""
	}
}
