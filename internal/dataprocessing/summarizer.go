package dataprocessing

import (
	"fmt"
	"time"
)

// ReportSummary holds the aggregates computed once per report run
type ReportSummary struct {
	RowCount       int       `json:"row_count"`
	TotalOrders    int       `json:"total_orders"`
	TotalRevenue   float64   `json:"total_revenue"`
	AverageRevenue float64   `json:"average_revenue"`
	BestDay        time.Time `json:"best_day"`
	BestDayRevenue float64   `json:"best_day_revenue"`
	FirstDate      time.Time `json:"first_date"`
	LastDate       time.Time `json:"last_date"`
}

// Summarize computes the report summary from parsed rows.
// Aggregation is a single pass; identical input yields an identical summary.
func Summarize(rows []ReportRow) (ReportSummary, error) {
	if len(rows) == 0 {
		return ReportSummary{}, fmt.Errorf("no data rows to summarize")
	}

	summary := ReportSummary{
		RowCount:       len(rows),
		BestDay:        rows[0].Date,
		BestDayRevenue: rows[0].Revenue,
		FirstDate:      rows[0].Date,
		LastDate:       rows[0].Date,
	}

	for _, row := range rows {
		summary.TotalOrders += row.Orders
		summary.TotalRevenue += row.Revenue

		if row.Revenue > summary.BestDayRevenue {
			summary.BestDay = row.Date
			summary.BestDayRevenue = row.Revenue
		}
		if row.Date.Before(summary.FirstDate) {
			summary.FirstDate = row.Date
		}
		if row.Date.After(summary.LastDate) {
			summary.LastDate = row.Date
		}
	}

	summary.AverageRevenue = summary.TotalRevenue / float64(len(rows))

	return summary, nil
}
