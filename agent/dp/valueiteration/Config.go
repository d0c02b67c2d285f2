package valueiteration

import (
	"fmt"

	"github.com/samuelfneumann/mazevi/utils/floatutils"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	DefaultGamma     float64 = 0.99
	DefaultTheta     float64 = 1e-6
	DefaultMaxSweeps int     = 100_000
)

// GammaBounds is the left-open interval (Min, Max] of valid discount
// factors
var GammaBounds = r1.Interval{Min: 0, Max: 1}

// Config represents a configuration for value iteration
type Config struct {
	// Gamma is the discount factor, in (0, 1]
	Gamma float64 `json:"gamma"`

	// Theta is the convergence threshold. Solving stops after the first
	// sweep in which no value changes by more than Theta.
	Theta float64 `json:"theta"`

	// MaxSweeps caps the number of sweeps in one solve. Zero means no
	// cap, in which case a problem that never converges never returns.
	MaxSweeps int `json:"max_sweeps"`
}

// DefaultConfig returns the default value iteration configuration
func DefaultConfig() Config {
	return Config{
		Gamma:     DefaultGamma,
		Theta:     DefaultTheta,
		MaxSweeps: DefaultMaxSweeps,
	}
}

// Validate returns an error describing whether or not the
// configuration is valid or not
func (c Config) Validate() error {
	if !floatutils.InLeftOpen(c.Gamma, GammaBounds) {
		return fmt.Errorf("validate: %w: gamma must be in (%v, %v], got %v",
			ErrConfig, GammaBounds.Min, GammaBounds.Max, c.Gamma)
	}
	if !(c.Theta > 0) {
		return fmt.Errorf("validate: %w: theta must be positive, got %v",
			ErrConfig, c.Theta)
	}
	if c.MaxSweeps < 0 {
		return fmt.Errorf("validate: %w: max sweeps must be non-negative, "+
			"got %d", ErrConfig, c.MaxSweeps)
	}
	return nil
}
