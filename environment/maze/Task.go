package maze

import (
	env "github.com/samuelfneumann/mazevi/environment"
	ts "github.com/samuelfneumann/mazevi/timestep"
	"gonum.org/v1/gonum/mat"
)

// Solve is the Task of reaching the goal of a maze. Rewards and goal
// checks are delegated to the maze's transition model, so moving the
// model's goal moves the task's goal too.
type Solve struct {
	model     *Model
	goal      env.Ender
	stepLimit env.Ender
}

// NewSolve returns a new Solve task on model. Episodes are cut off after
// cutoff steps; a non-positive cutoff never cuts an episode off.
func NewSolve(model *Model, cutoff int) *Solve {
	s := &Solve{
		model:     model,
		stepLimit: env.NewStepLimit(cutoff),
	}
	s.goal = env.NewFunctionEnder(func(obs mat.Vector) bool {
		return s.AtGoal(obs)
	}, ts.TerminalStateReached)

	return s
}

// GetReward returns the reward for leaving state. The action and next
// state do not affect the reward.
func (s *Solve) GetReward(state, _, _ mat.Vector) float64 {
	return s.model.Reward(CellOf(state))
}

// End determines whether the episode should end, either because the
// step limit was reached or because the agent is at the goal
func (s *Solve) End(t *ts.TimeStep) bool {
	return s.goal.End(t) || s.stepLimit.End(t)
}

// AtGoal returns whether the (row, col) state is the goal
func (s *Solve) AtGoal(state mat.Matrix) bool {
	rows, cols := state.Dims()
	if rows != 2 || cols != 1 {
		return false
	}

	goal := s.model.Goal()
	return int(state.At(0, 0)) == goal.Row && int(state.At(1, 0)) == goal.Col
}
