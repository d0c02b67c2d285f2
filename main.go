package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/samuelfneumann/mazevi/agent/dp/valueiteration"
	"github.com/samuelfneumann/mazevi/experiment"
	"github.com/samuelfneumann/mazevi/experiment/trackers"
	"github.com/samuelfneumann/mazevi/render"
	"github.com/samuelfneumann/mazevi/report"
	ts "github.com/samuelfneumann/mazevi/timestep"
	"github.com/samuelfneumann/mazevi/utils/progressbar"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mazevi: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return errors.New("missing subcommand; try 'solve' or 'run'")
	}
	experiment.LoadEnv()

	subcommand := os.Args[1]
	switch subcommand {
	case "solve":
		return runSolve(os.Args[2:])
	case "run":
		return runRun(os.Args[2:])
	default:
		return fmt.Errorf("unknown subcommand %q", subcommand)
	}
}

// loadConfig loads the config file, falling back to the default maze
// when no file is named, and applies environment overrides
func loadConfig(filename string) (experiment.Config, error) {
	filename = experiment.ConfigFile(filename)

	c := experiment.DefaultConfig()
	if filename != "" {
		var err error
		if c, err = experiment.LoadConfig(filename); err != nil {
			return experiment.Config{}, err
		}
	}
	return experiment.ApplyEnv(c)
}

func runSolve(args []string) error {
	fs := flag.NewFlagSet("solve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	configFile := fs.String("config", "", "JSON experiment config")
	plotFile := fs.String("plot", "", "PNG file to plot convergence to")

	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := loadConfig(*configFile)
	if err != nil {
		return err
	}

	env, _, err := c.EnvConf.Create(c.Seed)
	if err != nil {
		return err
	}
	planner, err := valueiteration.New(env, c.AgentConf)
	if err != nil {
		return err
	}
	conv := trackers.NewConvergence("")
	planner.Register(conv)

	if err := planner.Solve(); err != nil {
		return err
	}
	rows, cols := env.Grid().Dims()
	fmt.Printf("maze %dx%d: %d walls, %d free cells, goal seed %d\n", rows,
		cols, env.Grid().NumWalls(), env.Grid().NumFree(), env.Seed())
	fmt.Printf("solved goal %v in %d sweeps\n\n", env.Goal(), planner.Sweeps())
	fmt.Println(planner)
	fmt.Println()

	frame := render.Frame{
		Grid:   env.Grid(),
		Agent:  env.Agent(),
		Goal:   env.Goal(),
		Policy: planner,
	}
	if err := render.NewTerminal(os.Stdout, false).Render(frame); err != nil {
		return err
	}

	if *plotFile != "" {
		return report.ConvergencePlot(conv.Runs(), *plotFile)
	}
	return nil
}

func runRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	configFile := fs.String("config", "", "JSON experiment config")
	framesDir := fs.String("frames", "", "directory to write PNG frames to "+
		"instead of drawing in the terminal")
	episodes := fs.Int("episodes", -1, "number of goals to reach "+
		"(0 runs until interrupted; overrides the config)")
	chartFile := fs.String("chart", "", "HTML file to chart episode "+
		"lengths to")
	dataFile := fs.String("data", "", "file to save episode lengths to")
	noColour := fs.Bool("no-colour", false, "draw the terminal without colour")

	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := loadConfig(*configFile)
	if err != nil {
		return err
	}
	if *episodes >= 0 {
		c.Episodes = *episodes
	}

	dir := filepath.Join("runs", uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create output directory: %v", err)
	}
	if *dataFile == "" {
		*dataFile = filepath.Join(dir, "lengths.bin")
	}

	lengths := trackers.NewEpisodeLength(*dataFile)
	returns := trackers.NewReturn(filepath.Join(dir, "returns.bin"))
	conv := trackers.NewConvergence(filepath.Join(dir, "convergence.bin"))
	t := []trackers.Tracker{lengths, returns, conv}

	var r render.Renderer
	if *framesDir != "" {
		r, err = render.NewImage(*framesDir, c.Render.TileSize,
			c.Render.Margin, c.Render.ShadeValues)
		if err != nil {
			return err
		}
		if c.Episodes > 0 {
			t = append(t, newProgress(c.Episodes))
		}
	} else {
		r = render.NewTerminal(os.Stdout, !*noColour)

		// Log lines would tear the drawn maze
		experiment.SetLogger(nil)
	}

	exp, err := c.CreateExp(r, t...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := exp.Run(ctx); err != nil {
		return err
	}
	if err := exp.Save(); err != nil {
		return err
	}

	if err := report.ConvergencePlot(conv.Runs(),
		filepath.Join(dir, "convergence.png")); err != nil {
		return err
	}

	if len(lengths.Data()) > 0 {
		if *chartFile == "" {
			*chartFile = filepath.Join(dir, "lengths.html")
		}
		if err := writeChart(lengths.Data(), *chartFile); err != nil {
			return err
		}
	}

	fmt.Printf("\nreached %d goals in %d steps; output in %s\n",
		exp.Completed(), exp.Steps(), dir)
	return nil
}

func writeChart(lengths []int, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create chart: %v", err)
	}
	defer f.Close()

	if err := report.EpisodeChart(lengths, f); err != nil {
		return err
	}
	return f.Close()
}

// progress is a Tracker that advances a progress bar each time an
// episode ends
type progress struct {
	bar *progressbar.ManualProgressBar
}

func newProgress(episodes int) *progress {
	return &progress{bar: progressbar.NewManualProgressBar(os.Stderr, 40,
		episodes)}
}

func (p *progress) Track(step ts.TimeStep) {
	if step.Last() && step.EndType() == ts.TerminalStateReached {
		p.bar.Increment()
		p.bar.Display()
	}
}

func (p *progress) Save() error { return nil }
