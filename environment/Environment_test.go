package environment

import (
	"testing"

	"github.com/samuelfneumann/mazevi/timestep"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestCategoricalStarter(t *testing.T) {
	a, err := NewCategoricalStarter([]int{3, 5}, 11)
	require.NoError(t, err)
	b, err := NewCategoricalStarter([]int{3, 5}, 11)
	require.NoError(t, err)

	if a.Seed() != 11 {
		t.Errorf("seed: want 11 have %d", a.Seed())
	}

	counts := make(map[float64]int)
	for i := 0; i < 300; i++ {
		sa, sb := a.Start(), b.Start()
		if !mat.Equal(sa, sb) {
			t.Fatalf("sample %d: same seed gave %v and %v", i, sa.RawVector().Data,
				sb.RawVector().Data)
		}
		if sa.Len() != 2 {
			t.Fatalf("sample length: want 2 have %d", sa.Len())
		}
		if v := sa.AtVec(0); v < 0 || v > 2 || v != float64(int(v)) {
			t.Fatalf("dimension 0 out of range: %v", v)
		}
		if v := sa.AtVec(1); v < 0 || v > 4 || v != float64(int(v)) {
			t.Fatalf("dimension 1 out of range: %v", v)
		}
		counts[sa.AtVec(0)]++
	}

	if len(counts) != 3 {
		t.Errorf("300 samples reached %d of 3 categories", len(counts))
	}
}

func TestCategoricalStarterBounds(t *testing.T) {
	_, err := NewCategoricalStarter([]int{3, 0}, 1)
	require.Error(t, err)
}

func TestStepLimit(t *testing.T) {
	limit := NewStepLimit(3)

	step := timestep.New(timestep.Mid, -1, 1, nil, 2)
	if limit.End(&step) || step.Last() {
		t.Error("ended before the limit")
	}

	step = timestep.New(timestep.Mid, -1, 1, nil, 3)
	if !limit.End(&step) || !step.Last() || step.EndType() != timestep.Timeout {
		t.Errorf("want timeout at the limit, have %v (%v)", step,
			step.EndType())
	}

	never := NewStepLimit(0)
	step = timestep.New(timestep.Mid, -1, 1, nil, 1_000_000)
	if never.End(&step) {
		t.Error("a zero limit ended an episode")
	}
}

func TestSpecContains(t *testing.T) {
	shape := mat.NewVecDense(2, nil)
	lower := mat.NewVecDense(2, []float64{0, -1})
	upper := mat.NewVecDense(2, []float64{3, 1})

	discrete := NewSpec(shape, Observation, lower, upper, Discrete)
	continuous := NewSpec(shape, Observation, lower, upper, Continuous)

	tests := []struct {
		v          []float64
		discrete   bool
		continuous bool
	}{
		{[]float64{0, -1}, true, true},
		{[]float64{3, 1}, true, true},
		{[]float64{1.5, 0}, false, true},
		{[]float64{4, 0}, false, false},
		{[]float64{0, -2}, false, false},
	}

	for _, test := range tests {
		v := mat.NewVecDense(2, test.v)
		if have := discrete.Contains(v); have != test.discrete {
			t.Errorf("discrete contains %v: want %v have %v", test.v,
				test.discrete, have)
		}
		if have := continuous.Contains(v); have != test.continuous {
			t.Errorf("continuous contains %v: want %v have %v", test.v,
				test.continuous, have)
		}
	}

	if discrete.Contains(mat.NewVecDense(1, nil)) {
		t.Error("spec should reject vectors of the wrong length")
	}
}

func TestFunctionEnder(t *testing.T) {
	ender := NewFunctionEnder(func(v mat.Vector) bool {
		return v.AtVec(0) > 1
	}, timestep.TerminalStateReached)

	step := timestep.New(timestep.Mid, 0, 1, mat.NewVecDense(1, []float64{1}), 1)
	if ender.End(&step) || step.Last() {
		t.Error("ended while the predicate is false")
	}

	step = timestep.New(timestep.Mid, 0, 1, mat.NewVecDense(1, []float64{2}), 2)
	if !ender.End(&step) || !step.Last() ||
		step.EndType() != timestep.TerminalStateReached {
		t.Errorf("want terminal end, have %v (%v)", step, step.EndType())
	}

	step = timestep.New(timestep.Mid, 0, 1, nil, 3)
	if ender.End(&step) {
		t.Error("ended a timestep without an observation")
	}
}
