// Package valueiteration implements value iteration planning over
// deterministic grid mazes
package valueiteration

import (
	"errors"
	"fmt"
	"math"

	"github.com/samuelfneumann/mazevi/agent/policy"
	"github.com/samuelfneumann/mazevi/environment/maze"
)

var (
	// ErrConfig is returned for invalid value iteration configurations
	ErrConfig = fmt.Errorf("invalid value iteration configuration: %w",
		maze.ErrConfig)

	// ErrNonConvergence is returned when the sweep cap is reached before
	// the values converge
	ErrNonConvergence = errors.New("value iteration did not converge")
)

// SweepObserver is notified of the largest value change of every sweep
type SweepObserver interface {
	ObserveSweep(sweep int, delta float64)
}

// Sweep performs one sweep of value iteration over the free cells of
// model's grid, in row-major order, and returns the largest absolute
// change of any value.
//
// Values are updated in place, so cells later in the sweep see the
// values already written for cells earlier in the sweep. The greedy
// direction of a cell is the first direction, in index order, that
// reaches the largest action value.
func Sweep(model *maze.Model, table *policy.Table, gamma float64) (float64,
	error) {
	grid := model.Grid()

	var delta float64
	for i := 0; i < grid.NumFree(); i++ {
		cell := grid.FreeAt(i)
		oldValue := table.Value(cell)

		qMax := math.Inf(-1)
		best := maze.Left
		for _, action := range maze.Directions {
			transition, err := model.Step(cell, action)
			if err != nil {
				return delta, fmt.Errorf("sweep: could not step: %w", err)
			}

			value := transition.Reward + gamma*table.Value(transition.Next)
			if value > qMax {
				qMax = value
				best = action
			}
		}

		table.SetValue(cell, qMax)
		table.SetGreedy(cell, best)

		delta = math.Max(delta, math.Abs(oldValue-qMax))
	}
	return delta, nil
}

// Solve sweeps until the largest value change of a sweep is at most
// c.Theta, returning the number of sweeps performed. If c.MaxSweeps is
// positive and that many sweeps do not converge, Solve returns an error
// wrapping ErrNonConvergence. Observers are notified after every sweep.
func Solve(model *maze.Model, table *policy.Table, c Config,
	observers ...SweepObserver) (int, error) {
	if err := c.Validate(); err != nil {
		return 0, fmt.Errorf("solve: %w", err)
	}

	for sweep := 1; ; sweep++ {
		delta, err := Sweep(model, table, c.Gamma)
		if err != nil {
			return sweep, fmt.Errorf("solve: %w", err)
		}

		for _, o := range observers {
			o.ObserveSweep(sweep, delta)
		}

		if delta <= c.Theta {
			return sweep, nil
		}
		if c.MaxSweeps > 0 && sweep >= c.MaxSweeps {
			return sweep, fmt.Errorf("solve: %w: delta %v > theta %v after "+
				"%d sweeps", ErrNonConvergence, delta, c.Theta, sweep)
		}
	}
}

// ValueIteration is a planner that solves a maze with value iteration.
// It embeds the policy.Table it solves, so the greedy policy can be
// queried directly from the planner.
//
// ValueIteration is not safe for concurrent use. The table must not be
// read while Solve is running.
type ValueIteration struct {
	*policy.Table
	maze      *maze.Maze
	config    Config
	observers []SweepObserver
	sweeps    int
}

// New creates a new ValueIteration planner on m. The returned planner
// has not been solved: all values are zero and all policies uniform.
func New(m *maze.Maze, c Config) (*ValueIteration, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	rows, cols := m.Grid().Dims()
	return &ValueIteration{
		Table:  policy.NewTable(rows, cols),
		maze:   m,
		config: c,
	}, nil
}

// Register adds an observer that is notified of every sweep
func (v *ValueIteration) Register(o SweepObserver) {
	v.observers = append(v.observers, o)
}

// Config returns the planner's configuration
func (v *ValueIteration) Config() Config {
	return v.config
}

// Maze returns the maze the planner plans in
func (v *ValueIteration) Maze() *maze.Maze {
	return v.maze
}

// Sweeps returns the number of sweeps of the last call to Solve
func (v *ValueIteration) Sweeps() int {
	return v.sweeps
}

// Solve runs value iteration to convergence for the maze's current goal
func (v *ValueIteration) Solve() error {
	sweeps, err := Solve(v.maze.Model(), v.Table, v.config, v.observers...)
	v.sweeps = sweeps
	return err
}

// Sweep performs a single sweep of value iteration and returns the
// largest value change
func (v *ValueIteration) Sweep() (float64, error) {
	return Sweep(v.maze.Model(), v.Table, v.config.Gamma)
}

// Reset sets all values to zero and all policies to uniform, and
// resamples the maze's goal. Walls and the agent's cell are unchanged.
func (v *ValueIteration) Reset() {
	v.Table.Reset()
	v.maze.ResampleGoal()
	v.sweeps = 0
}
