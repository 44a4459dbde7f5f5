// Package dataprocessing provides the data loading side of the report
// pipeline. It reads tabular sales data from CSV files or XLSX workbooks
// and computes the per-run summary aggregates.
//
// # Usage
//
// Parse a sales file:
//
//	rows, err := dataprocessing.ParseFile("data/sample_sales.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Compute the summary:
//
//	summary, err := dataprocessing.Summarize(rows)
//
// # Input Format
//
// The first row must be a header. The columns date, orders and revenue are
// required (case-insensitive); any additional columns are carried through in
// ReportRow.Columns for template access.
//
// # Error Handling
//
// A missing file surfaces as an error wrapping fs.ErrNotExist. Malformed
// input (column-count mismatch, missing required columns, unparseable
// numbers or dates) surfaces as *ParseError with the offending row number.
package dataprocessing
