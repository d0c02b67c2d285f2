package maze

import (
	"fmt"

	env "github.com/samuelfneumann/mazevi/environment"
	ts "github.com/samuelfneumann/mazevi/timestep"
	"gonum.org/v1/gonum/mat"
)

var _ env.Environment = (*Maze)(nil)

// Maze is an environment in which an agent moves through a grid maze
// toward a goal cell. The goal can be resampled uniformly from the free
// cells of the maze; walls and the agent's cell are unaffected by
// resampling.
type Maze struct {
	*Solve
	grid  *Grid
	model *Model
	goals *env.CategoricalStarter // samples indices into grid.free

	agent       Cell
	discount    float64
	currentStep ts.TimeStep
}

// New creates a new Maze on grid with the agent at start. If goal is
// nil, the goal is sampled uniformly from the free cells. Episodes are
// cut off after cutoff steps if cutoff is positive. The seed determines
// the sequence of sampled goals.
func New(grid *Grid, start Cell, goal *Cell, cutoff int, discount float64,
	seed uint64) (*Maze, ts.TimeStep, error) {
	if !grid.IsFree(start) {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w: start %v is not a "+
			"free cell", ErrConfig, start)
	}

	goals, err := env.NewCategoricalStarter([]int{grid.NumFree()}, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: could not create goal "+
			"sampler: %v", err)
	}

	g := sampleCell(grid, goals)
	if goal != nil {
		g = *goal
	}

	model, err := NewModel(grid, g)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: could not create "+
			"model: %w", err)
	}

	m := &Maze{
		Solve:    NewSolve(model, cutoff),
		grid:     grid,
		model:    model,
		goals:    goals,
		agent:    start,
		discount: discount,
	}

	step, err := m.Reset()
	return m, step, err
}

// sampleCell samples a free cell of grid using s
func sampleCell(grid *Grid, s env.Starter) Cell {
	return grid.FreeAt(int(s.Start().AtVec(0)))
}

// Grid returns the maze's grid
func (m *Maze) Grid() *Grid {
	return m.grid
}

// Model returns the maze's transition model
func (m *Maze) Model() *Model {
	return m.model
}

// Agent returns the agent's current cell
func (m *Maze) Agent() Cell {
	return m.agent
}

// SetAgent moves the agent to cell c, which must be free
func (m *Maze) SetAgent(c Cell) error {
	if !m.grid.IsFree(c) {
		return fmt.Errorf("setAgent: %w: %v is not a free cell", ErrConfig, c)
	}
	m.agent = c
	return nil
}

// Goal returns the current goal cell
func (m *Maze) Goal() Cell {
	return m.model.Goal()
}

// ResampleGoal replaces the goal with a cell drawn uniformly, with
// replacement, from the free cells and returns it. The new goal may
// equal the old one or the agent's cell.
func (m *Maze) ResampleGoal() Cell {
	g := sampleCell(m.grid, m.goals)

	m.model.goal = g
	return g
}

// Seed returns the seed of the goal sampler
func (m *Maze) Seed() uint64 {
	return m.goals.Seed()
}

// Step takes one action in the environment, moving the agent according
// to the transition model. Actions must be one of the whole numbers in
// the action spec; any other value returns an error wrapping
// ErrInvalidAction and leaves the agent in place.
func (m *Maze) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	if action.Len() != 1 {
		return ts.TimeStep{}, false, fmt.Errorf("step: actions must be " +
			"1-dimensional")
	}
	if !m.ActionSpec().Contains(action) {
		return ts.TimeStep{}, false, fmt.Errorf("step: %w: %v",
			ErrInvalidAction, action.AtVec(0))
	}

	a := Direction(int(action.AtVec(0)))
	transition, err := m.model.Step(m.agent, a)
	if err != nil {
		return ts.TimeStep{}, false, err
	}
	m.agent = transition.Next

	nextStep := ts.New(ts.Mid, transition.Reward, m.discount,
		transition.Next.Vec(), m.currentStep.Number+1)
	last := m.End(&nextStep)
	m.currentStep = nextStep

	return nextStep, last, nil
}

// Reset starts a new episode from the agent's current cell
func (m *Maze) Reset() (ts.TimeStep, error) {
	step := ts.New(ts.First, 0, m.discount, m.agent.Vec(), 0)
	m.currentStep = step

	return step, nil
}

// CurrentTimeStep returns the last TimeStep of the environment
func (m *Maze) CurrentTimeStep() ts.TimeStep {
	return m.currentStep
}

// ActionSpec returns the action specification of the environment
func (m *Maze) ActionSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{float64(Left)})
	upperBound := mat.NewVecDense(1, []float64{float64(Actions - 1)})

	return env.NewSpec(shape, env.Action, lowerBound, upperBound, env.Discrete)
}

// ObservationSpec returns the observation specification of the
// environment
func (m *Maze) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(2, nil)
	lowerBound := mat.NewVecDense(2, []float64{0., 0.})
	upperBound := mat.NewVecDense(2, []float64{
		float64(m.grid.rows - 1),
		float64(m.grid.cols - 1),
	})

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Discrete)
}

// DiscountSpec returns the discount specification of the environment
func (m *Maze) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{m.discount})

	return env.NewSpec(shape, env.Discount, lowerBound, lowerBound,
		env.Discrete)
}
