package maze

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Cell is a single (row, column) location in a maze, 0-indexed from the
// top-left corner. Cells are comparable and are used as state ids.
type Cell struct {
	Row, Col int
}

// Vec returns the observation vector (row, col) of the cell
func (c Cell) Vec() *mat.VecDense {
	return mat.NewVecDense(2, []float64{float64(c.Row), float64(c.Col)})
}

// CellOf converts an observation vector (row, col) into a Cell
func CellOf(v mat.Vector) Cell {
	return Cell{Row: int(v.AtVec(0)), Col: int(v.AtVec(1))}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d)", c.Row, c.Col)
}

// Direction is one of the four movement actions. The numeric encoding
// is the index of the action in a policy distribution and must not
// change.
type Direction int

const (
	Left Direction = iota
	Up
	Right
	Down
)

// Actions is the number of actions available in every cell
const Actions int = 4

// Directions lists every action in index order
var Directions = [Actions]Direction{Left, Up, Right, Down}

// Valid reports whether d is one of the four movement actions
func (d Direction) Valid() bool {
	return d >= Left && d <= Down
}

// Arrow returns a single rune depicting the direction
func (d Direction) Arrow() string {
	switch d {
	case Left:
		return "←"
	case Up:
		return "↑"
	case Right:
		return "→"
	case Down:
		return "↓"
	}
	return "?"
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "Left"
	case Up:
		return "Up"
	case Right:
		return "Right"
	case Down:
		return "Down"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Shift returns the cell one unit away from c in direction d
func (c Cell) Shift(d Direction) (Cell, error) {
	switch d {
	case Left:
		return Cell{c.Row, c.Col - 1}, nil
	case Up:
		return Cell{c.Row - 1, c.Col}, nil
	case Right:
		return Cell{c.Row, c.Col + 1}, nil
	case Down:
		return Cell{c.Row + 1, c.Col}, nil
	}
	return c, fmt.Errorf("shift: %w: %d", ErrInvalidAction, int(d))
}
