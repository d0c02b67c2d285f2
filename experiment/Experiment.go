// Package experiment implements functionality for running an experiment
package experiment

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/samuelfneumann/mazevi/agent/dp/valueiteration"
	"github.com/samuelfneumann/mazevi/environment/envconfig"
	"github.com/samuelfneumann/mazevi/experiment/trackers"
	"github.com/samuelfneumann/mazevi/render"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments send each environment TimeStep to Trackers, which cache
// the data they need to be saved to disk later by Save. The Run method
// runs episodes until the experiment ends or its context is cancelled.
// The RunEpisode method runs a single episode.
type Experiment interface {
	Run(ctx context.Context) error

	// RunEpisode returns whether the experiment is finished
	RunEpisode(ctx context.Context) (bool, error)

	// Save all tracked data to disk
	Save() error

	// Adds a new trackers.Tracker to the (possibly already running)
	// experiment.
	Register(t trackers.Tracker)
}

const (
	// DefaultFrameDelay paces the agent at 30 moves per second
	DefaultFrameDelay = "33ms"
	DefaultTileSize   = 24
	DefaultMargin     = 50
)

// RenderConfig configures how frames are drawn
type RenderConfig struct {
	TileSize    int  `json:"tile_size"`
	Margin      int  `json:"margin"`
	ShadeValues bool `json:"shade_values"`
}

// Config represents a configuration of an experiment.
type Config struct {
	// MaxSteps caps the total number of agent moves; zero means no cap
	MaxSteps uint `json:"max_steps"`

	// Episodes is the number of goals to reach before the experiment
	// ends; zero runs until MaxSteps or cancellation
	Episodes int `json:"episodes"`

	// FrameDelay is a duration string like "33ms" paced between moves
	FrameDelay string `json:"frame_delay"`

	Seed      uint64                `json:"seed"`
	EnvConf   envconfig.Config      `json:"environment"`
	AgentConf valueiteration.Config `json:"agent"`
	Render    RenderConfig          `json:"render"`
}

// DefaultConfig returns the configuration of the 25x25 demo maze
func DefaultConfig() Config {
	return Config{
		FrameDelay: DefaultFrameDelay,
		Seed:       1,
		EnvConf:    envconfig.Default(),
		AgentConf:  valueiteration.DefaultConfig(),
		Render: RenderConfig{
			TileSize: DefaultTileSize,
			Margin:   DefaultMargin,
		},
	}
}

// LoadConfig reads a JSON Config from filename. Fields missing from the
// file keep the values of DefaultConfig.
func LoadConfig(filename string) (Config, error) {
	c := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: could not read config: %v",
			err)
	}

	// A file that names its own layout must not inherit the default goal
	c.EnvConf.Goal = nil
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("loadConfig: could not decode config: %v",
			err)
	}
	if c.EnvConf.Goal == nil && c.EnvConf.LayoutFile == "" &&
		sameLayout(c.EnvConf.Layout, envconfig.DefaultLayout) {
		goal := envconfig.DefaultGoal
		c.EnvConf.Goal = &goal
	}

	return c, c.Validate()
}

func sameLayout(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Validate returns an error describing whether or not the
// configuration is valid or not
func (c Config) Validate() error {
	if _, err := c.frameDelay(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if c.Episodes < 0 {
		return fmt.Errorf("validate: episodes must be non-negative, got %d",
			c.Episodes)
	}
	if c.Render.TileSize <= 0 {
		return fmt.Errorf("validate: tile size must be positive, got %d",
			c.Render.TileSize)
	}
	if c.Render.Margin < 0 {
		return fmt.Errorf("validate: margin must be non-negative, got %d",
			c.Render.Margin)
	}
	return c.AgentConf.Validate()
}

func (c Config) frameDelay() (time.Duration, error) {
	if c.FrameDelay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.FrameDelay)
	if err != nil {
		return 0, fmt.Errorf("could not parse frame delay: %v", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("frame delay must be non-negative, got %v", d)
	}
	return d, nil
}

// CreateExp creates the experiment the Config describes. Frames are
// drawn with r, which may be nil. Trackers that observe sweeps are
// also registered with the planner.
func (c Config) CreateExp(r render.Renderer, t ...trackers.Tracker) (*Online,
	error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("createExp: %w", err)
	}
	delay, _ := c.frameDelay()

	env, _, err := c.EnvConf.Create(c.Seed)
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create environment: %w",
			err)
	}

	planner, err := valueiteration.New(env, c.AgentConf)
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create planner: %w", err)
	}

	for _, tracker := range t {
		if o, ok := tracker.(valueiteration.SweepObserver); ok {
			planner.Register(o)
		}
	}

	o := NewOnline(env, planner, c.MaxSteps, c.Episodes, t...)
	o.SetFrameDelay(delay)
	o.SetRenderer(r)
	return o, nil
}
