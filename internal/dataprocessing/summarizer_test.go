package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestSummarizeTotals(t *testing.T) {
	rows := []ReportRow{
		{Date: day(1), Orders: 2, Revenue: 10},
		{Date: day(2), Orders: 3, Revenue: 20},
		{Date: day(3), Orders: 5, Revenue: 30},
	}

	summary, err := Summarize(rows)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.RowCount)
	assert.Equal(t, 10, summary.TotalOrders)
	assert.Equal(t, 60.0, summary.TotalRevenue)
	assert.Equal(t, 20.0, summary.AverageRevenue)
	assert.Equal(t, day(3), summary.BestDay)
	assert.Equal(t, 30.0, summary.BestDayRevenue)
	assert.Equal(t, day(1), summary.FirstDate)
	assert.Equal(t, day(3), summary.LastDate)
}

func TestSummarizeDeterministic(t *testing.T) {
	rows := []ReportRow{
		{Date: day(5), Orders: 7, Revenue: 123.45},
		{Date: day(6), Orders: 1, Revenue: 67.89},
	}

	first, err := Summarize(rows)
	require.NoError(t, err)
	second, err := Summarize(rows)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSummarizeBestDayUnsortedInput(t *testing.T) {
	rows := []ReportRow{
		{Date: day(9), Orders: 1, Revenue: 50},
		{Date: day(2), Orders: 1, Revenue: 500},
		{Date: day(4), Orders: 1, Revenue: 5},
	}

	summary, err := Summarize(rows)
	require.NoError(t, err)

	assert.Equal(t, day(2), summary.BestDay)
	assert.Equal(t, 500.0, summary.BestDayRevenue)
	assert.Equal(t, day(2), summary.FirstDate)
	assert.Equal(t, day(9), summary.LastDate)
}

func TestSummarizeEmpty(t *testing.T) {
	_, err := Summarize(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}
