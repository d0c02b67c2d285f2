// Package agent defines the interfaces shared by planning agents
package agent

import (
	"github.com/samuelfneumann/mazevi/timestep"
	"gonum.org/v1/gonum/mat"
)

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. A planner and its Policy
// share the same tables so that any changes the planner makes are
// reflected in the actions the Policy chooses.
type Policy interface {
	SelectAction(t timestep.TimeStep) *mat.VecDense
}

// Planner computes a Policy from a model of the environment rather than
// from experience
type Planner interface {
	Policy

	// Solve plans until the policy is optimal for the current model
	Solve() error

	// Reset discards the current plan and re-samples the planning goal
	Reset()
}
