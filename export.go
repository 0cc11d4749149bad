package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// writeChartHTML renders the histogram of out as a standalone HTML bar chart.
func writeChartHTML(w io.Writer, out runOutcome) error {
	res := out.Result
	labels := make([]string, 0, len(res.Histogram))
	bars := make([]opts.BarData, 0, len(res.Histogram))
	for _, o := range res.Outcomes() {
		labels = append(labels, o.Label)
		bars = append(bars, opts.BarData{Value: o.Count})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    out.Name,
			Subtitle: fmt.Sprintf("%s shots, %d qubits, seed %d", printer.Sprintf("%d", res.Shots), res.QubitCount, res.Seed),
		}),
	)
	bar.SetXAxis(labels).AddSeries("shots", bars)

	page := components.NewPage()
	page.SetPageTitle("qtermlab: " + out.Name)
	page.AddCharts(bar)
	return page.Render(w)
}

// exportChart writes the chart to path.
func exportChart(path string, out runOutcome) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	if err := writeChartHTML(f, out); err != nil {
		_ = f.Close()
		return fmt.Errorf("render chart: %w", err)
	}
	return f.Close()
}
