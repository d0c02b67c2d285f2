package environment

import (
	"github.com/samuelfneumann/mazevi/timestep"
	"gonum.org/v1/gonum/mat"
)

// FunctionEnder ends an episode whenever a predicate of the timestep's
// observation holds
type FunctionEnder struct {
	end     func(mat.Vector) bool
	endType timestep.EndType
}

// NewFunctionEnder returns a new FunctionEnder which ends episodes with
// end type endType when f returns true
func NewFunctionEnder(f func(mat.Vector) bool,
	endType timestep.EndType) *FunctionEnder {
	return &FunctionEnder{f, endType}
}

// End reports whether the episode ends at t. If it does, t is marked as
// the last step of the episode with the FunctionEnder's end type.
func (f *FunctionEnder) End(t *timestep.TimeStep) bool {
	if t.Observation == nil || !f.end(t.Observation) {
		return false
	}
	t.StepType = timestep.Last
	t.SetEnd(f.endType)
	return true
}
