package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/samuelfneumann/mazevi/environment/maze"
)

const clearScreen = "\033[H\033[2J"

// Terminal draws frames as coloured text, two columns per cell. Free
// cells show the arrow of the policy's best action.
type Terminal struct {
	out   io.Writer
	au    aurora.Aurora
	clear bool
}

// NewTerminal returns a Terminal renderer writing to out. If colors is
// false, frames are drawn without ANSI escapes and the screen is not
// cleared between frames.
func NewTerminal(out io.Writer, colors bool) *Terminal {
	return &Terminal{
		out:   out,
		au:    aurora.NewAurora(colors),
		clear: colors,
	}
}

// Render draws f
func (t *Terminal) Render(f Frame) error {
	var b strings.Builder
	if t.clear {
		b.WriteString(clearScreen)
	}

	rows, cols := f.Grid.Dims()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			b.WriteString(t.cell(f, maze.Cell{Row: row, Col: col}))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "frame %d  agent %v  goal %v\n", f.Number, f.Agent, f.Goal)

	_, err := io.WriteString(t.out, b.String())
	return err
}

func (t *Terminal) cell(f Frame, c maze.Cell) string {
	switch {
	case f.Grid.IsWall(c):
		return t.au.Yellow("██").String()
	case c == f.Agent:
		return t.au.Magenta("P ").String()
	case c == f.Goal:
		return t.au.Green("G ").String()
	case f.Policy != nil:
		return t.au.Blue(f.Policy.BestAction(c).Arrow() + " ").String()
	}
	return "  "
}
