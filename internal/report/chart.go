package report

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"reportcli/internal/dataprocessing"
)

// ChartOptions controls the rendered revenue chart
type ChartOptions struct {
	Width  int
	Height int
}

// RenderRevenueChart draws the revenue-over-time line chart as PNG bytes.
// Rows are plotted in date order.
func RenderRevenueChart(rows []dataprocessing.ReportRow, opts ChartOptions) ([]byte, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data rows to chart")
	}
	if opts.Width <= 0 {
		opts.Width = 900
	}
	if opts.Height <= 0 {
		opts.Height = 400
	}

	dates, revenues := chartSeries(rows)

	// The chart library rejects series with a single point
	if len(rows) == 1 {
		dates = append(dates, dates[0].Add(24*time.Hour))
		revenues = append(revenues, revenues[0])
	}

	graph := chart.Chart{
		Title:  "Revenue Over Time",
		Width:  opts.Width,
		Height: opts.Height,
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Revenue",
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Revenue",
				XValues: dates,
				YValues: revenues,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return buf.Bytes(), nil
}

// chartSeries extracts the X and Y values sorted by date. The series must be
// monotonic on X or the plotted line doubles back on itself.
func chartSeries(rows []dataprocessing.ReportRow) ([]time.Time, []float64) {
	sorted := make([]dataprocessing.ReportRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	dates := make([]time.Time, len(sorted))
	revenues := make([]float64, len(sorted))
	for i, row := range sorted {
		dates[i] = row.Date
		revenues[i] = row.Revenue
	}
	return dates, revenues
}
