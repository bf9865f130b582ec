package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/horizon/core/metrics"
)

// WriteSearchChart renders the best value and the kept branch count of
// every step as a standalone HTML line chart.
func WriteSearchChart(w io.Writer, runID string, steps []metrics.StepStats) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Schedule search", Subtitle: runID}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time (s)"}),
	)

	xAxis := make([]string, len(steps))
	best := make([]opts.LineData, len(steps))
	kept := make([]opts.LineData, len(steps))
	for i, s := range steps {
		xAxis[i] = strconv.FormatFloat(s.Time, 'f', -1, 64)
		best[i] = opts.LineData{Value: s.BestValue}
		kept[i] = opts.LineData{Value: s.Total}
	}
	line.SetXAxis(xAxis).
		AddSeries("Best value", best).
		AddSeries("Schedules kept", kept)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
