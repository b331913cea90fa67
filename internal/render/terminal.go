// Package render draws games to a terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"snakeevo/internal/env"
)

const clearScreen = "\033[H\033[2J"

// Terminal draws snapshots as text frames. Each frame is written with a
// single Write call.
type Terminal struct {
	w     io.Writer
	grid  env.Grid
	clear bool

	// Caption is printed under the board, e.g. the generation being shown.
	Caption string
}

// NewTerminal creates a renderer for a grid. With clear set every frame
// starts by clearing the screen.
func NewTerminal(w io.Writer, grid env.Grid, clear bool) *Terminal {
	return &Terminal{w: w, grid: grid, clear: clear}
}

// Render draws one frame
func (t *Terminal) Render(s env.Snapshot) error {
	cells := make([][]string, t.grid.Height)
	for y := range cells {
		cells[y] = make([]string, t.grid.Width)
		for x := range cells[y] {
			cells[y][x] = " ·"
		}
	}

	if t.inside(s.Food) {
		cells[s.Food.Y][s.Food.X] = " ●"
	}
	// Positions are head first; draw the head last so it stays visible.
	for i := len(s.Positions) - 1; i >= 0; i-- {
		p := s.Positions[i]
		if !t.inside(p) {
			continue
		}
		if i == 0 {
			cells[p.Y][p.X] = " " + string(headGlyph(s.Direction, s.Alive))
		} else {
			cells[p.Y][p.X] = " █"
		}
	}

	var b strings.Builder
	if t.clear {
		b.WriteString(clearScreen)
	}
	border := strings.Repeat("──", t.grid.Width)
	b.WriteString("┌" + border + "┐\n")
	for _, row := range cells {
		b.WriteString("│" + strings.Join(row, "") + "│\n")
	}
	b.WriteString("└" + border + "┘\n")

	fmt.Fprintf(&b, "  Tick: %4d | Score: %3d | Length: %3d | Heading: %s\n",
		s.Tick, s.Score, s.Length, s.Direction)
	if t.Caption != "" {
		b.WriteString("  " + t.Caption + "\n")
	}
	if !s.Alive {
		b.WriteString("  DEAD\n")
	}

	_, err := io.WriteString(t.w, b.String())
	return err
}

func (t *Terminal) inside(p env.Point) bool {
	return p.X >= 0 && p.X < t.grid.Width && p.Y >= 0 && p.Y < t.grid.Height
}

func headGlyph(dir env.Direction, alive bool) rune {
	if !alive {
		return 'x'
	}
	switch dir {
	case env.DirUp:
		return '▲'
	case env.DirRight:
		return '▶'
	case env.DirDown:
		return '▼'
	case env.DirLeft:
		return '◀'
	}
	return 'O'
}
