// Package environment outlines the interfaces and structs needed to implement
// concrete environments
package environment

import (
	"github.com/samuelfneumann/mazevi/timestep"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples starting
// states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when an episode should end. End may modify the
// argument TimeStep's StepType and EndType when returning true.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Task implements the reward scheme and the episode termination rule for
// taking actions in some environment
type Task interface {
	Ender
	GetReward(state, action, nextState mat.Vector) float64
	AtGoal(state mat.Matrix) bool
}

// Environment implements a simualted environment, which includes a Task to
// complete
type Environment interface {
	Task
	Reset() (timestep.TimeStep, error) // Resets between episodes
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)
	CurrentTimeStep() timestep.TimeStep
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
