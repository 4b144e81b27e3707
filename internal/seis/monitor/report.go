package monitor

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/halfspace-data/seisprep/internal/db"
)

// RenderRunReport writes a standalone HTML report of stored run
// summaries: mean residual per channel across runs, and the per-channel
// breakdown of the most recent run. Runs are expected newest first, as
// ListRuns returns them.
func RenderRunReport(w io.Writer, runs []db.RunRecord) error {
	if len(runs) == 0 {
		return fmt.Errorf("no runs to report")
	}

	page := components.NewPage()
	page.PageTitle = "seisprep run report"
	page.AddCharts(runHistoryChart(runs), latestRunChart(runs[0]))
	return page.Render(w)
}

// runHistoryChart plots mean residual per channel over the stored runs,
// oldest to newest.
func runHistoryChart(runs []db.RunRecord) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Mean residual by run",
			Subtitle: fmt.Sprintf("%d runs, newest last", len(runs)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "run"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "mean residual"}),
	)

	labels := make([]string, 0, len(runs))
	series := map[string][]opts.LineData{}
	for i := len(runs) - 1; i >= 0; i-- {
		r := runs[i]
		labels = append(labels, shortID(r.ID))
		for _, cs := range r.Stats {
			series[cs.Channel] = append(series[cs.Channel], opts.LineData{Value: cs.Mean})
		}
	}

	line.SetXAxis(labels)
	for _, r := range runs[0].Stats {
		line.AddSeries(r.Channel, series[r.Channel])
	}
	return line
}

// latestRunChart shows the per-channel residual statistics of the most
// recent run as grouped bars.
func latestRunChart(r db.RunRecord) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Latest run " + shortID(r.ID),
			Subtitle: fmt.Sprintf("kernel=%s path=%s duration=%.1f ms", r.Kernel, r.Path, r.DurationMs),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "channel"}),
	)

	channels := make([]string, 0, len(r.Stats))
	means := make([]opts.BarData, 0, len(r.Stats))
	maxes := make([]opts.BarData, 0, len(r.Stats))
	for _, cs := range r.Stats {
		channels = append(channels, cs.Channel)
		means = append(means, opts.BarData{Value: cs.Mean})
		maxes = append(maxes, opts.BarData{Value: cs.Max})
	}

	bar.SetXAxis(channels)
	bar.AddSeries("mean", means)
	bar.AddSeries("max", maxes)
	return bar
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
