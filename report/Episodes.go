package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// EpisodeChart renders an HTML line chart of the number of steps the
// agent took to reach each goal and writes it to w
func EpisodeChart(lengths []int, w io.Writer) error {
	if len(lengths) == 0 {
		return fmt.Errorf("episodeChart: no episodes to chart")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Steps to goal",
			Subtitle: fmt.Sprintf("%d episodes", len(lengths)),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	episodes := make([]string, len(lengths))
	items := make([]opts.LineData, len(lengths))
	for i, n := range lengths {
		episodes[i] = strconv.Itoa(i + 1)
		items[i] = opts.LineData{Value: n}
	}

	line.SetXAxis(episodes).AddSeries("steps", items)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("episodeChart: could not render chart: %v", err)
	}
	return nil
}
