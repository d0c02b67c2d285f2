package environment

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Categorical starter returns starting states as vectors sampled from
// a multi-dimensional uniform categorical distribution. The categorical
// distributions sample values in (0, 1, 2, ... N-1).
//
// Samples are drawn with replacement, and two CategoricalStarters built
// with the same bounds and seed produce the same sequence of samples.
type CategoricalStarter struct {
	features int
	seed     uint64
	rand     []distuv.Categorical
}

// NewCategoricalStarter returns a new CategoricalStarter, sampling
// dimension i from (0, 1, 2, ... bounds[i]-1)
func NewCategoricalStarter(bounds []int, seed uint64) (*CategoricalStarter,
	error) {
	source := rand.NewSource(seed)

	rand := make([]distuv.Categorical, len(bounds))
	for i := range rand {
		if bounds[i] <= 0 {
			return nil, fmt.Errorf("newCategoricalStarter: bound %d must be "+
				"positive, got %d", i, bounds[i])
		}

		// Create the weights for the uniform categorical distribution
		weights := make([]float64, bounds[i])
		for j := range weights {
			weights[j] = 1.0 / float64(len(weights))
		}

		rand[i] = distuv.NewCategorical(weights, source)
	}

	return &CategoricalStarter{len(bounds), seed, rand}, nil
}

// Start returns a starting state vector
func (c *CategoricalStarter) Start() *mat.VecDense {
	start := make([]float64, c.features)
	for i := range start {
		start[i] = c.rand[i].Rand()
	}

	return mat.NewVecDense(c.features, start)
}

// Seed returns the seed the starter was created with
func (c *CategoricalStarter) Seed() uint64 {
	return c.seed
}
