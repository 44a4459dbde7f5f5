package exporter

import (
	"fmt"

	"reportcli/internal/dataprocessing"
)

// WriteSummaryCSV writes the per-run aggregates next to the report so they
// can be consumed by spreadsheets without opening the HTML.
func (w *CSVWriter) WriteSummaryCSV(path string, summary dataprocessing.ReportSummary) error {
	headers := []string{
		"RowCount", "TotalOrders", "TotalRevenue", "AverageRevenue",
		"BestDay", "BestDayRevenue", "FirstDate", "LastDate",
	}
	record := []string{
		fmt.Sprintf("%d", summary.RowCount),
		fmt.Sprintf("%d", summary.TotalOrders),
		fmt.Sprintf("%.2f", summary.TotalRevenue),
		fmt.Sprintf("%.2f", summary.AverageRevenue),
		summary.BestDay.Format("2006-01-02"),
		fmt.Sprintf("%.2f", summary.BestDayRevenue),
		summary.FirstDate.Format("2006-01-02"),
		summary.LastDate.Format("2006-01-02"),
	}

	return w.WriteCSV(path, WriteOptions{
		Headers:   headers,
		Records:   [][]string{record},
		BOMPrefix: true,
	})
}
