// Package report renders plots and charts of experiment data
package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ConvergencePlot plots the largest value change of each sweep of a
// value iteration solve, one line per solve, and saves the plot to
// filename. The image format is taken from the filename's extension.
func ConvergencePlot(runs [][]float64, filename string) error {
	if len(runs) == 0 {
		return fmt.Errorf("convergencePlot: no solves to plot")
	}

	p := plot.New()
	p.Title.Text = "Value iteration convergence"
	p.X.Label.Text = "Sweep"
	p.Y.Label.Text = "Max |ΔV|"

	for i, deltas := range runs {
		pts := make(plotter.XYs, len(deltas))
		for j, delta := range deltas {
			pts[j] = plotter.XY{X: float64(j + 1), Y: delta}
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("convergencePlot: could not create line for "+
				"solve %d: %v", i, err)
		}
		line.Width = vg.Points(1)
		line.Color = lineColour(i)
		p.Add(line)
	}

	if err := p.Save(8*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("convergencePlot: could not save plot: %v", err)
	}
	return nil
}

// palette cycles through colours for successive plotted lines
var palette = []color.RGBA{
	{27, 64, 121, 255},
	{241, 162, 8, 255},
	{255, 51, 102, 255},
	{0, 160, 0, 255},
}

func lineColour(i int) color.Color {
	return palette[i%len(palette)]
}
