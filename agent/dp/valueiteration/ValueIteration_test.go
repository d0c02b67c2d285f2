package valueiteration

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/samuelfneumann/mazevi/environment/maze"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var (
	ring = []string{
		"XXXXX",
		"XP  X",
		"X   X",
		"X   X",
		"XXXXX",
	}

	pillar = []string{
		"XXXXX",
		"XP  X",
		"X X X",
		"X   X",
		"XXXXX",
	}
)

func newPlanner(t testing.TB, layout []string, goal *maze.Cell,
	seed uint64) *ValueIteration {
	t.Helper()
	grid, start, err := maze.Parse(layout)
	require.NoError(t, err)

	m, _, err := maze.New(grid, start, goal, 0, 1.0, seed)
	require.NoError(t, err)

	v, err := New(m, DefaultConfig())
	require.NoError(t, err)
	return v
}

// greedyPath follows the greedy policy from the agent's cell until the
// goal is reached or limit steps are taken
func greedyPath(v *ValueIteration, limit int) []maze.Cell {
	model := v.Maze().Model()
	c := v.Maze().Agent()
	path := []maze.Cell{c}
	for i := 0; i < limit && c != model.Goal(); i++ {
		c, _ = model.Next(c, v.BestAction(c))
		path = append(path, c)
	}
	return path
}

func TestSolveDeterministicPolicy(t *testing.T) {
	v := newPlanner(t, ring, &maze.Cell{Row: 3, Col: 3}, 1)
	require.NoError(t, v.Solve())

	for _, c := range v.Maze().Grid().Free() {
		if _, ok := v.Greedy(c); !ok {
			t.Errorf("policy of %v is still uniform", c)
		}

		probs := v.Policy(c)
		ones := 0
		for i := 0; i < maze.Actions; i++ {
			switch probs.AtVec(i) {
			case 1:
				ones++
			case 0:
			default:
				t.Errorf("policy of %v is not one-hot: %v", c, probs.AtVec(i))
			}
		}
		if ones != 1 {
			t.Errorf("policy of %v has %d greedy actions", c, ones)
		}
	}
}

func TestSolveConverges(t *testing.T) {
	v := newPlanner(t, ring, &maze.Cell{Row: 3, Col: 3}, 1)
	require.NoError(t, v.Solve())

	if v.Sweeps() < 1 {
		t.Errorf("sweeps: want at least 1 have %d", v.Sweeps())
	}

	before := v.Values()
	delta, err := v.Sweep()
	require.NoError(t, err)
	if delta > v.Config().Theta {
		t.Errorf("sweep after solve changed values by %v > %v", delta,
			v.Config().Theta)
	}
	if !mat.EqualApprox(before, v.Values(), v.Config().Theta) {
		t.Errorf("values moved after convergence:\n%v", v)
	}
}

func TestSolveValues(t *testing.T) {
	goal := maze.Cell{Row: 3, Col: 3}
	v := newPlanner(t, ring, &goal, 1)
	require.NoError(t, v.Solve())

	gamma := v.Config().Gamma
	for _, c := range v.Maze().Grid().Free() {
		// Steps to the goal in an open room
		d := goal.Row - c.Row + goal.Col - c.Col
		want := -(1 - math.Pow(gamma, float64(d))) / (1 - gamma)
		if have := v.Value(c); math.Abs(have-want) > 1e-4 {
			t.Errorf("value of %v: want %v have %v", c, want, have)
		}
	}

	if v.Value(goal) != 0 {
		t.Errorf("goal value: want 0 have %v", v.Value(goal))
	}
	if v.Value(maze.Cell{}) != 0 {
		t.Errorf("wall value: want 0 have %v", v.Value(maze.Cell{}))
	}
	if _, ok := v.Greedy(maze.Cell{}); ok {
		t.Error("wall policy should stay uniform")
	}
}

func TestSolveGreedyPath(t *testing.T) {
	tests := map[string][]string{
		"open room": ring,
		"pillar":    pillar,
	}

	for name, layout := range tests {
		t.Run(name, func(t *testing.T) {
			goal := maze.Cell{Row: 3, Col: 3}
			v := newPlanner(t, layout, &goal, 1)
			require.NoError(t, v.Solve())

			path := greedyPath(v, 20)
			if len(path) != 5 || path[len(path)-1] != goal {
				t.Fatalf("want 4 steps to %v, have path %v", goal, path)
			}

			grid := v.Maze().Grid()
			for i, c := range path {
				if !grid.IsFree(c) {
					t.Errorf("path enters non-free cell %v", c)
				}
				if i > 0 && v.Value(c) < v.Value(path[i-1]) {
					t.Errorf("value decreases from %v to %v", path[i-1], c)
				}
			}
		})
	}
}

func TestSolveGreedyPathTieBreak(t *testing.T) {
	v := newPlanner(t, pillar, &maze.Cell{Row: 3, Col: 3}, 1)
	require.NoError(t, v.Solve())

	// Right and Down tie at (1, 1); Right comes first
	want := []maze.Cell{
		{Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 1, Col: 3},
		{Row: 2, Col: 3}, {Row: 3, Col: 3},
	}
	if diff := cmp.Diff(want, greedyPath(v, 20)); diff != "" {
		t.Errorf("greedy path (-want +have):\n%s", diff)
	}
}

func TestSweepTieBreak(t *testing.T) {
	v := newPlanner(t, ring, &maze.Cell{Row: 3, Col: 3}, 1)

	// From zero values every action at (1, 1) is worth -1
	_, err := v.Sweep()
	require.NoError(t, err)

	d, ok := v.Greedy(maze.Cell{Row: 1, Col: 1})
	if !ok || d != maze.Left {
		t.Errorf("tied actions: want Left have %v (%v)", d, ok)
	}
	if v.Value(maze.Cell{Row: 1, Col: 1}) != maze.TimeStepReward {
		t.Errorf("value after one sweep: want %v have %v",
			maze.TimeStepReward, v.Value(maze.Cell{Row: 1, Col: 1}))
	}
}

func TestSweepDelta(t *testing.T) {
	goal := maze.Cell{Row: 3, Col: 3}
	v := newPlanner(t, ring, &goal, 1)

	// Every cell but the goal can still reach an unvisited zero value
	delta, err := v.Sweep()
	require.NoError(t, err)
	if delta != 1 {
		t.Errorf("delta of first sweep: want 1 have %v", delta)
	}

	for _, c := range v.Maze().Grid().Free() {
		want := maze.TimeStepReward
		if c == goal {
			want = maze.TerminalReward
		}
		if have := v.Value(c); have != want {
			t.Errorf("value of %v after one sweep: want %v have %v", c, want,
				have)
		}
	}
}

func TestReset(t *testing.T) {
	a := newPlanner(t, ring, nil, 7)
	b := newPlanner(t, ring, nil, 7)
	require.NoError(t, a.Solve())

	m := a.Maze()
	agent := m.Agent()
	for i := 0; i < 10; i++ {
		a.Reset()
		b.Reset()

		if a.Sweeps() != 0 {
			t.Errorf("sweeps after reset: want 0 have %d", a.Sweeps())
		}
		if !mat.Equal(a.Values(), mat.NewDense(5, 5, nil)) {
			t.Fatalf("values after reset:\n%v", a)
		}
		for _, c := range m.Grid().Free() {
			if _, ok := a.Greedy(c); ok {
				t.Fatalf("policy of %v should be uniform after reset", c)
			}
		}
		if !m.Grid().IsFree(m.Goal()) {
			t.Fatalf("goal %v is not free", m.Goal())
		}
		if m.Goal() != b.Maze().Goal() {
			t.Fatalf("same seed reset to goals %v and %v", m.Goal(),
				b.Maze().Goal())
		}
		if m.Agent() != agent {
			t.Fatalf("reset moved the agent from %v to %v", agent, m.Agent())
		}

		require.NoError(t, a.Solve())
		require.NoError(t, b.Solve())
		if !mat.Equal(a.Values(), b.Values()) {
			t.Fatal("same goal solved to different values")
		}
	}
}

func TestNonConvergence(t *testing.T) {
	grid, start, err := maze.Parse(ring)
	require.NoError(t, err)
	m, _, err := maze.New(grid, start, &maze.Cell{Row: 3, Col: 3}, 0, 1, 1)
	require.NoError(t, err)

	c := DefaultConfig()
	c.MaxSweeps = 1
	v, err := New(m, c)
	require.NoError(t, err)

	err = v.Solve()
	if !errors.Is(err, ErrNonConvergence) {
		t.Errorf("want ErrNonConvergence have %v", err)
	}
	if v.Sweeps() != 1 {
		t.Errorf("sweeps: want 1 have %d", v.Sweeps())
	}
}

func TestConfigErrors(t *testing.T) {
	grid, start, err := maze.Parse(ring)
	require.NoError(t, err)
	m, _, err := maze.New(grid, start, nil, 0, 1, 1)
	require.NoError(t, err)

	tests := map[string]Config{
		"zero gamma":     {Gamma: 0, Theta: 1e-6},
		"large gamma":    {Gamma: 1.5, Theta: 1e-6},
		"zero theta":     {Gamma: 0.9, Theta: 0},
		"negative theta": {Gamma: 0.9, Theta: -1},
		"nan theta":      {Gamma: 0.9, Theta: math.NaN()},
		"negative cap":   {Gamma: 0.9, Theta: 1e-6, MaxSweeps: -1},
	}

	for name, c := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := New(m, c)
			require.ErrorIs(t, err, ErrConfig)
			require.ErrorIs(t, err, maze.ErrConfig)
		})
	}

	_, err = New(m, Config{Gamma: 1, Theta: 1e-3})
	require.NoError(t, err)
}

type sweepLog struct {
	sweeps []int
	deltas []float64
}

func (s *sweepLog) ObserveSweep(sweep int, delta float64) {
	s.sweeps = append(s.sweeps, sweep)
	s.deltas = append(s.deltas, delta)
}

func TestObservers(t *testing.T) {
	v := newPlanner(t, ring, &maze.Cell{Row: 3, Col: 3}, 1)
	log := &sweepLog{}
	v.Register(log)
	require.NoError(t, v.Solve())

	if len(log.sweeps) != v.Sweeps() {
		t.Fatalf("observed %d sweeps, solved in %d", len(log.sweeps),
			v.Sweeps())
	}
	for i, s := range log.sweeps {
		if s != i+1 {
			t.Errorf("sweep %d numbered %d", i+1, s)
		}
	}
	if last := log.deltas[len(log.deltas)-1]; last > v.Config().Theta {
		t.Errorf("last delta %v above theta", last)
	}
}

func BenchmarkSolve(b *testing.B) {
	layout := make([]string, 25)
	for i := range layout {
		layout[i] = strings.Repeat(" ", 25)
	}
	layout[0] = "P" + strings.Repeat(" ", 24)
	v := newPlanner(b, layout, &maze.Cell{Row: 24, Col: 24}, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Table.Reset()
		if err := v.Solve(); err != nil {
			b.Fatal(err)
		}
	}
}
