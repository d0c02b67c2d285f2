// Package maze implements deterministic grid maze environments parsed
// from text layouts
package maze

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// WallRune marks an impassable cell in a layout
	WallRune = 'X'

	// StartRune marks the agent's starting cell in a layout
	StartRune = 'P'
)

var (
	// ErrConfig is returned for malformed layouts and invalid maze
	// configurations
	ErrConfig = errors.New("invalid maze configuration")

	// ErrInvalidAction is returned when an action is not one of the four
	// movement directions
	ErrInvalidAction = errors.New("action value not supported")
)

// Grid is the static structure of a maze: its dimensions and which
// cells are walls. A Grid is never modified after it is parsed.
type Grid struct {
	rows, cols int
	walls      map[Cell]struct{}
	free       []Cell // row-major
}

// Parse parses a maze layout. Each string is a row of the maze, and all
// rows must have the same length. The rune 'X' denotes a wall and the
// rune 'P' denotes the agent's starting cell, which must appear exactly
// once. Any other rune denotes a free cell.
func Parse(layout []string) (*Grid, Cell, error) {
	if len(layout) == 0 {
		return nil, Cell{}, fmt.Errorf("parse: %w: empty layout", ErrConfig)
	}

	cols := utf8.RuneCountInString(layout[0])
	if cols == 0 {
		return nil, Cell{}, fmt.Errorf("parse: %w: empty row 0", ErrConfig)
	}

	g := &Grid{
		rows:  len(layout),
		cols:  cols,
		walls: make(map[Cell]struct{}),
	}

	start, found := Cell{}, false
	for row, line := range layout {
		if n := utf8.RuneCountInString(line); n != cols {
			return nil, Cell{}, fmt.Errorf("parse: %w: row %d has length %d, "+
				"want %d", ErrConfig, row, n, cols)
		}

		col := 0
		for _, r := range line {
			cell := Cell{row, col}
			switch r {
			case WallRune:
				g.walls[cell] = struct{}{}
			case StartRune:
				if found {
					return nil, Cell{}, fmt.Errorf("parse: %w: second start "+
						"marker at %v, first at %v", ErrConfig, cell, start)
				}
				start, found = cell, true
				g.free = append(g.free, cell)
			default:
				g.free = append(g.free, cell)
			}
			col++
		}
	}

	if !found {
		return nil, Cell{}, fmt.Errorf("parse: %w: no start marker %q",
			ErrConfig, StartRune)
	}

	return g, start, nil
}

// Dims returns the number of rows and columns in the grid
func (g *Grid) Dims() (rows, cols int) {
	return g.rows, g.cols
}

// InBounds reports whether c lies inside the grid
func (g *Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

// IsWall reports whether c is a wall
func (g *Grid) IsWall(c Cell) bool {
	_, ok := g.walls[c]
	return ok
}

// IsFree reports whether c is an in-bounds, non-wall cell
func (g *Grid) IsFree(c Cell) bool {
	return g.InBounds(c) && !g.IsWall(c)
}

// Free returns the free cells of the grid in row-major order. The
// returned slice is a copy.
func (g *Grid) Free() []Cell {
	free := make([]Cell, len(g.free))
	copy(free, g.free)
	return free
}

// NumFree returns the number of free cells
func (g *Grid) NumFree() int {
	return len(g.free)
}

// FreeAt returns the i-th free cell in row-major order
func (g *Grid) FreeAt(i int) Cell {
	return g.free[i]
}

// NumWalls returns the number of walls
func (g *Grid) NumWalls() int {
	return len(g.walls)
}

// String returns the grid as a layout of 'X' and ' ' runes, one line
// per row
func (g *Grid) String() string {
	var b strings.Builder
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			if g.IsWall(Cell{row, col}) {
				b.WriteRune(WallRune)
			} else {
				b.WriteRune(' ')
			}
		}
		if row < g.rows-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}
