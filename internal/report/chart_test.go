package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportcli/internal/dataprocessing"
)

func day(d string) time.Time {
	t, err := time.Parse("2006-01-02", d)
	if err != nil {
		panic(err)
	}
	return t
}

func TestChartSeriesSortsByDate(t *testing.T) {
	rows := []dataprocessing.ReportRow{
		{Date: day("2025-01-03"), Revenue: 30},
		{Date: day("2025-01-01"), Revenue: 10},
		{Date: day("2025-01-02"), Revenue: 20},
	}

	dates, revenues := chartSeries(rows)

	require.Len(t, dates, 3)
	assert.Equal(t, []time.Time{day("2025-01-01"), day("2025-01-02"), day("2025-01-03")}, dates)
	assert.Equal(t, []float64{10, 20, 30}, revenues)

	// Input order untouched
	assert.Equal(t, day("2025-01-03"), rows[0].Date)
}

func TestRenderRevenueChartUnsortedInput(t *testing.T) {
	rows := []dataprocessing.ReportRow{
		{Date: day("2025-01-02"), Orders: 7, Revenue: 20},
		{Date: day("2025-01-01"), Orders: 5, Revenue: 10},
	}

	png, err := RenderRevenueChart(rows, ChartOptions{})

	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
