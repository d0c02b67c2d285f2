package trackers

import (
	ts "github.com/samuelfneumann/mazevi/timestep"
)

// Convergence records the largest value change of every value
// iteration sweep. Each call to a planner's Solve starts a new run of
// sweeps, detected by the sweep counter restarting at 1.
type Convergence struct {
	runs     [][]float64
	filename string
}

// NewConvergence returns a new Convergence tracker which will save its
// data at filename
func NewConvergence(filename string) *Convergence {
	return &Convergence{filename: filename}
}

// ObserveSweep records the delta of one sweep
func (c *Convergence) ObserveSweep(sweep int, delta float64) {
	if sweep == 1 || len(c.runs) == 0 {
		c.runs = append(c.runs, nil)
	}
	last := len(c.runs) - 1
	c.runs[last] = append(c.runs[last], delta)
}

// Track does nothing; Convergence observes sweeps, not timesteps
func (c *Convergence) Track(ts.TimeStep) {}

// Runs returns the recorded deltas, one slice per solve
func (c *Convergence) Runs() [][]float64 {
	runs := make([][]float64, len(c.runs))
	for i := range c.runs {
		runs[i] = append([]float64(nil), c.runs[i]...)
	}
	return runs
}

// Save saves the recorded deltas to disk as a gob-encoded [][]float64
func (c *Convergence) Save() error {
	return save(c.filename, c.runs)
}
