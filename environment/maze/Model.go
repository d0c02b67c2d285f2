package maze

import "fmt"

const (
	TimeStepReward float64 = -1.0
	TerminalReward float64 = 0
)

// Transition is the outcome of taking an action in a cell
type Transition struct {
	Next   Cell
	Reward float64
	Done   bool
}

// Model is the deterministic transition model of a maze. Moving into a
// wall, or off the edge of the grid, leaves the agent where it is.
//
// The reward of a transition depends only on the cell the agent moves
// from: TerminalReward when that cell is the goal and TimeStepReward
// otherwise. A transition is done when it lands on the goal.
type Model struct {
	grid *Grid
	goal Cell
}

// NewModel returns a transition model over grid with the given goal
func NewModel(grid *Grid, goal Cell) (*Model, error) {
	if !grid.IsFree(goal) {
		return nil, fmt.Errorf("newModel: %w: goal %v is not a free cell",
			ErrConfig, goal)
	}
	return &Model{grid: grid, goal: goal}, nil
}

// Grid returns the grid the model moves over
func (m *Model) Grid() *Grid {
	return m.grid
}

// Goal returns the current goal cell
func (m *Model) Goal() Cell {
	return m.goal
}

// SetGoal moves the goal to cell c, which must be free
func (m *Model) SetGoal(c Cell) error {
	if !m.grid.IsFree(c) {
		return fmt.Errorf("setGoal: %w: goal %v is not a free cell",
			ErrConfig, c)
	}
	m.goal = c
	return nil
}

// Next returns the cell reached by taking action a in cell c
func (m *Model) Next(c Cell, a Direction) (Cell, error) {
	candidate, err := c.Shift(a)
	if err != nil {
		return c, fmt.Errorf("next: %w", err)
	}
	if !m.grid.IsFree(candidate) {
		return c, nil
	}
	return candidate, nil
}

// Reward returns the reward for leaving cell c
func (m *Model) Reward(c Cell) float64 {
	if c == m.goal {
		return TerminalReward
	}
	return TimeStepReward
}

// Step simulates taking action a in cell c
func (m *Model) Step(c Cell, a Direction) (Transition, error) {
	next, err := m.Next(c, a)
	if err != nil {
		return Transition{}, fmt.Errorf("step: %w", err)
	}
	return Transition{
		Next:   next,
		Reward: m.Reward(c),
		Done:   next == m.goal,
	}, nil
}
