// Package envconfig provides configuration structs for configuring
// maze environments. Environment configurations in this package are
// JSON serializable.
package envconfig

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samuelfneumann/mazevi/environment/maze"
	ts "github.com/samuelfneumann/mazevi/timestep"
)

// DefaultLayout is the maze the planner is shown on when no other
// layout is configured
var DefaultLayout = []string{
	"XXXXXXXXXXXXXXXXXXXXXXXXX",
	"X XXXXXXXX          XXXXX",
	"X XXXXXXXX  XXXXXX  XXXXX",
	"X      XXX  XXXXXX  XXXXX",
	"X      XXX  XXX        PX",
	"XXXXXX  XX  XXX        XX",
	"XXXXXX  XX  XXXXXX  XXXXX",
	"XXXXXX  XX  XXXXXX  XXXXX",
	"X  XXX      XXXXXXXXXXXXX",
	"X  XXX  XXXXXXXXXXXXXXXXX",
	"X         XXXXXXXXXXXXXXX",
	"X             XXXXXXXXXXX",
	"XXXXXXXXXXX      XXXXX  X",
	"XXXXXXXXXXXXXXX  XXXXX  X",
	"XXX  XXXXXXXXXX         X",
	"XXX                     X",
	"XXX         XXXXXXXXXXXXX",
	"XXXXXXXXXX  XXXXXXXXXXXXX",
	"XXXXXXXXXX              X",
	"XX   XXXXX              X",
	"XX   XXXXXXXXXXXXX  XXXXX",
	"XX    XXXXXXXXXXXX  XXXXX",
	"XX        XXXX          X",
	"XXXX                    X",
	"XXXXXXXXXXXXXXXXXXXXXXXXX",
}

// DefaultGoal is the first goal of DefaultLayout
var DefaultGoal = [2]int{23, 20}

// Config implements a specific configuration of a maze environment.
//
// The layout is read from LayoutFile if it is set, and taken from
// Layout otherwise. If Goal is nil, the first goal is sampled uniformly
// from the free cells of the layout.
//
// Discount is only recorded on the timesteps the maze returns. It does
// not affect planning, which discounts with the planner's own gamma.
type Config struct {
	Layout        []string `json:"layout,omitempty"`
	LayoutFile    string   `json:"layout_file,omitempty"`
	Goal          *[2]int  `json:"goal,omitempty"`
	EpisodeCutoff uint     `json:"episode_cutoff"`
	Discount      float64  `json:"discount"`
}

// Default returns the configuration of DefaultLayout
func Default() Config {
	goal := DefaultGoal
	layout := make([]string, len(DefaultLayout))
	copy(layout, DefaultLayout)

	return Config{
		Layout:   layout,
		Goal:     &goal,
		Discount: 0.99,
	}
}

// ReadLayout reads a layout from r, one row per line. Trailing carriage
// returns are removed and trailing blank lines are ignored.
func ReadLayout(r io.Reader) ([]string, error) {
	var layout []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		layout = append(layout, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("readLayout: could not read layout: %v", err)
	}

	for len(layout) > 0 && layout[len(layout)-1] == "" {
		layout = layout[:len(layout)-1]
	}
	return layout, nil
}

// LoadLayout returns the layout the Config describes
func (c Config) LoadLayout() ([]string, error) {
	if c.LayoutFile == "" {
		return c.Layout, nil
	}

	file, err := os.Open(c.LayoutFile)
	if err != nil {
		return nil, fmt.Errorf("loadLayout: could not open layout file: %v",
			err)
	}
	defer file.Close()

	return ReadLayout(file)
}

// Create returns the maze described by the Config as well as the first
// timestep of the maze. The seed determines the sequence of sampled
// goals.
func (c Config) Create(seed uint64) (*maze.Maze, ts.TimeStep, error) {
	layout, err := c.LoadLayout()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}

	grid, start, err := maze.Parse(layout)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: could not parse "+
			"layout: %w", err)
	}

	var goal *maze.Cell
	if c.Goal != nil {
		goal = &maze.Cell{Row: c.Goal[0], Col: c.Goal[1]}
	}

	return maze.New(grid, start, goal, int(c.EpisodeCutoff), c.Discount, seed)
}
