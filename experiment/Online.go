package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/samuelfneumann/mazevi/agent"
	"github.com/samuelfneumann/mazevi/environment/maze"
	"github.com/samuelfneumann/mazevi/experiment/trackers"
	"github.com/samuelfneumann/mazevi/render"
	ts "github.com/samuelfneumann/mazevi/timestep"
)

var _ Experiment = (*Online)(nil)

// Planner is an agent.Planner whose plan can be drawn
type Planner interface {
	agent.Planner
	render.Policy
}

// Online is an Experiment in which an agent follows a planned policy
// through a maze. Whenever an episode ends, the planner is reset, which
// moves the goal, and the maze is solved again before the agent moves
// on from where it stands.
type Online struct {
	*maze.Maze
	Planner

	maxSteps     uint
	currentSteps uint
	episodes     int
	completed    int
	frameDelay   time.Duration
	frames       int

	renderer render.Renderer
	trackers []trackers.Tracker
}

// NewOnline creates and returns a new online experiment on a given
// maze with a given planner. The steps parameter caps the total number
// of agent moves and the episodes parameter the number of goals to
// reach; zero disables either cap. The t parameter is a slice of
// trackers.Tracker which determine what data is saved.
func NewOnline(m *maze.Maze, p Planner, steps uint, episodes int,
	t ...trackers.Tracker) *Online {
	return &Online{
		Maze:     m,
		Planner:  p,
		maxSteps: steps,
		episodes: episodes,
		trackers: t,
	}
}

// SetFrameDelay sets the pause between agent moves
func (o *Online) SetFrameDelay(d time.Duration) {
	o.frameDelay = d
}

// SetRenderer sets the renderer frames are drawn with. A nil renderer
// draws nothing.
func (o *Online) SetRenderer(r render.Renderer) {
	o.renderer = r
}

// Register registers a trackers.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t trackers.Tracker) {
	o.trackers = append(o.trackers, t)
}

// Completed returns the number of goals reached so far
func (o *Online) Completed() int {
	return o.completed
}

// Steps returns the total number of agent moves so far
func (o *Online) Steps() uint {
	return o.currentSteps
}

// Run solves the maze and then runs episodes until the episode or step
// limit is reached or ctx is cancelled. Cancellation is not an error.
func (o *Online) Run(ctx context.Context) error {
	if err := o.Planner.Solve(); err != nil {
		return fmt.Errorf("run: could not solve maze: %w", err)
	}
	Logf("solved maze for goal %v", o.Maze.Goal())

	for {
		finished, err := o.RunEpisode(ctx)
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		if finished || ctx.Err() != nil {
			return nil
		}
	}
}

// RunEpisode runs a single episode of the experiment, starting from the
// agent's current cell. It returns whether the experiment is finished.
// The planner must have been solved for the current goal.
func (o *Online) RunEpisode(ctx context.Context) (bool, error) {
	step, err := o.Maze.Reset()
	if err != nil {
		return true, fmt.Errorf("runEpisode: could not reset maze: %v", err)
	}
	o.track(step)
	if err := o.render(); err != nil {
		return true, err
	}

	var tick <-chan time.Time
	if o.frameDelay > 0 {
		ticker := time.NewTicker(o.frameDelay)
		defer ticker.Stop()
		tick = ticker.C
	}

	for !step.Last() {
		if o.maxSteps > 0 && o.currentSteps >= o.maxSteps {
			return true, nil
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return true, nil
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return true, nil
		}

		action := o.Planner.SelectAction(step)
		if !o.Maze.ActionSpec().Contains(action) {
			return true, fmt.Errorf("runEpisode: %w: %v", maze.ErrInvalidAction,
				action.AtVec(0))
		}

		step, _, err = o.Maze.Step(action)
		if err != nil {
			return true, fmt.Errorf("runEpisode: could not step: %w", err)
		}
		o.currentSteps++

		o.track(step)
		if err := o.render(); err != nil {
			return true, err
		}
	}

	goal := o.Maze.Goal()
	if step.EndType() == ts.TerminalStateReached {
		o.completed++
		Logf("episode %d: reached goal %v in %d steps", o.completed, goal,
			step.Number)
	} else {
		Logf("episode cut off after %d steps short of goal %v", step.Number,
			goal)
	}

	if o.episodes > 0 && o.completed >= o.episodes {
		return true, nil
	}

	o.Planner.Reset()
	if err := o.Planner.Solve(); err != nil {
		return true, fmt.Errorf("runEpisode: could not solve maze for goal "+
			"%v: %w", o.Maze.Goal(), err)
	}
	Logf("solved maze for goal %v", o.Maze.Goal())

	return o.maxSteps > 0 && o.currentSteps >= o.maxSteps, nil
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, tracker := range o.trackers {
		if err := tracker.Save(); err != nil {
			return fmt.Errorf("save: %v", err)
		}
	}
	return nil
}

// track tracks the current timestep by caching its data in each tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}

func (o *Online) render() error {
	if o.renderer == nil {
		return nil
	}

	f := render.Frame{
		Number: o.frames,
		Grid:   o.Maze.Grid(),
		Agent:  o.Maze.Agent(),
		Goal:   o.Maze.Goal(),
		Policy: o.Planner,
	}
	o.frames++

	if err := o.renderer.Render(f); err != nil {
		return fmt.Errorf("render: could not draw frame %d: %v", f.Number, err)
	}
	return nil
}
