// Package policy implements tabular policies over grid mazes
package policy

import (
	"github.com/samuelfneumann/mazevi/environment/maze"
	"github.com/samuelfneumann/mazevi/timestep"
	"github.com/samuelfneumann/mazevi/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

// uniform marks a cell whose policy has not been solved
const uniform int8 = -1

// Table stores a state-value table and a greedy policy for every cell
// of a maze.
//
// The policy of each cell is stored as a single greedy direction. The
// action distribution of a cell is derived from it on demand: one-hot on
// the greedy direction after the cell has been solved, and uniform over
// the four directions before.
type Table struct {
	rows, cols int
	values     *mat.Dense
	greedy     []int8
}

// NewTable returns a new Table with rows x cols cells, zero values and
// uniform policies
func NewTable(rows, cols int) *Table {
	t := &Table{
		rows:   rows,
		cols:   cols,
		values: mat.NewDense(rows, cols, nil),
		greedy: make([]int8, rows*cols),
	}
	t.Reset()
	return t
}

// Dims returns the number of rows and columns of the table
func (t *Table) Dims() (rows, cols int) {
	return t.rows, t.cols
}

// Reset sets all values to 0 and all policies to uniform
func (t *Table) Reset() {
	t.values.Zero()
	for i := range t.greedy {
		t.greedy[i] = uniform
	}
}

// Value returns the value of cell c
func (t *Table) Value(c maze.Cell) float64 {
	return t.values.At(c.Row, c.Col)
}

// SetValue sets the value of cell c
func (t *Table) SetValue(c maze.Cell, v float64) {
	t.values.Set(c.Row, c.Col, v)
}

// Values returns a copy of the value table
func (t *Table) Values() *mat.Dense {
	return mat.DenseCopyOf(t.values)
}

// SetGreedy makes the policy of cell c choose d with probability 1
func (t *Table) SetGreedy(c maze.Cell, d maze.Direction) {
	t.greedy[t.index(c)] = int8(d)
}

// Greedy returns the greedy direction of cell c, and false if the cell
// still has a uniform policy
func (t *Table) Greedy(c maze.Cell) (maze.Direction, bool) {
	g := t.greedy[t.index(c)]
	if g == uniform {
		return maze.Left, false
	}
	return maze.Direction(g), true
}

// Policy returns the action distribution of cell c. Element i is the
// probability of taking maze.Direction(i).
func (t *Table) Policy(c maze.Cell) *mat.VecDense {
	probs := mat.NewVecDense(maze.Actions, nil)
	d, ok := t.Greedy(c)
	if !ok {
		for i := 0; i < maze.Actions; i++ {
			probs.SetVec(i, 1.0/float64(maze.Actions))
		}
		return probs
	}

	probs.SetVec(int(d), 1.0)
	return probs
}

// BestAction returns the most probable direction in cell c. Ties go to
// the lowest-numbered direction.
func (t *Table) BestAction(c maze.Cell) maze.Direction {
	return maze.Direction(matutils.MaxVec(t.Policy(c)))
}

// SelectAction selects the best action in the cell encoded by the
// timestep's (row, col) observation
func (t *Table) SelectAction(step timestep.TimeStep) *mat.VecDense {
	a := t.BestAction(maze.CellOf(step.Observation))
	return mat.NewVecDense(1, []float64{float64(a)})
}

// String formats the value table
func (t *Table) String() string {
	return matutils.Format(t.values)
}

func (t *Table) index(c maze.Cell) int {
	return c.Row*t.cols + c.Col
}
