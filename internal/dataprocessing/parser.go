package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ReportRow represents one data row of the sales file
type ReportRow struct {
	Date    time.Time
	Orders  int
	Revenue float64

	// Columns carries every raw cell value keyed by header name,
	// so templates can reach columns the loader does not model.
	Columns map[string]string
}

// ParseError describes a malformed row or header in the input file
type ParseError struct {
	File    string
	Row     int // 1-based, 0 when the error is not tied to a row
	Message string
	Cause   error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("parse %s: row %d: %s", e.File, e.Row, e.Message)
	}
	return fmt.Sprintf("parse %s: %s", e.File, e.Message)
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Required column names (matched case-insensitively)
const (
	ColumnDate    = "date"
	ColumnOrders  = "orders"
	ColumnRevenue = "revenue"
)

// dateFormats are tried in order when parsing the date column
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"01/02/2006",
}

// ParseFile reads a sales data file and extracts report rows.
// CSV and XLSX inputs are supported, dispatched on file extension.
// The first row must be a header containing date, orders and revenue columns.
func ParseFile(path string) ([]ReportRow, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return parseWorkbook(path)
	default:
		return parseCSV(path)
	}
}

// parseCSV reads rows from a CSV file
func parseCSV(path string) ([]ReportRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ParseError{File: path, Message: "file is empty, header row required"}
	}
	if err != nil {
		return nil, &ParseError{File: path, Message: "failed to read header row", Cause: err}
	}

	columns, err := mapColumns(path, header)
	if err != nil {
		return nil, err
	}

	var rows []ReportRow
	line := 1 // header was line 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			// Column-count mismatches surface here as csv.ErrFieldCount
			return nil, &ParseError{File: path, Row: line, Message: "malformed row", Cause: err}
		}

		row, err := buildRow(path, line, header, columns, record)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	slog.Debug("parsed sales data file",
		slog.String("path", path),
		slog.Int("rows", len(rows)))

	return rows, nil
}

// parseWorkbook reads rows from the first sheet of an XLSX workbook
// whose header row carries the required columns.
func parseWorkbook(path string) ([]ReportRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to open data file: %w", err)
		}
		return nil, &ParseError{File: path, Message: "failed to open workbook", Cause: err}
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		cells, err := f.GetRows(sheet)
		if err != nil || len(cells) == 0 {
			continue
		}

		columns, mapErr := mapColumns(path, cells[0])
		if mapErr != nil {
			continue // Not the data sheet; keep looking
		}

		header := cells[0]
		width := len(header)
		var rows []ReportRow
		for i, record := range cells[1:] {
			if isEmptyRecord(record) {
				continue
			}
			// excelize drops trailing empty cells, pad back to header width
			if len(record) < width {
				padded := make([]string, width)
				copy(padded, record)
				record = padded
			} else if len(record) > width {
				return nil, &ParseError{
					File:    path,
					Row:     i + 2,
					Message: fmt.Sprintf("expected %d columns, got %d", width, len(record)),
				}
			}

			row, err := buildRow(path, i+2, header, columns, record)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}

		slog.Debug("parsed sales workbook",
			slog.String("path", path),
			slog.String("sheet", sheet),
			slog.Int("rows", len(rows)))

		return rows, nil
	}

	return nil, &ParseError{
		File:    path,
		Message: "no sheet with date, orders and revenue columns found",
	}
}

// columnIndex locates the required columns in a header row
type columnIndex struct {
	date    int
	orders  int
	revenue int
}

// mapColumns resolves required column positions, case-insensitively
func mapColumns(path string, header []string) (columnIndex, error) {
	idx := columnIndex{date: -1, orders: -1, revenue: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case ColumnDate:
			idx.date = i
		case ColumnOrders:
			idx.orders = i
		case ColumnRevenue:
			idx.revenue = i
		}
	}

	var missing []string
	if idx.date < 0 {
		missing = append(missing, ColumnDate)
	}
	if idx.orders < 0 {
		missing = append(missing, ColumnOrders)
	}
	if idx.revenue < 0 {
		missing = append(missing, ColumnRevenue)
	}
	if len(missing) > 0 {
		return idx, &ParseError{
			File:    path,
			Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")),
		}
	}

	return idx, nil
}

// buildRow converts one record into a ReportRow
func buildRow(path string, line int, header []string, idx columnIndex, record []string) (ReportRow, error) {
	if idx.date >= len(record) || idx.orders >= len(record) || idx.revenue >= len(record) {
		return ReportRow{}, &ParseError{
			File:    path,
			Row:     line,
			Message: fmt.Sprintf("expected %d columns, got %d", len(header), len(record)),
		}
	}

	date, err := parseDate(record[idx.date])
	if err != nil {
		return ReportRow{}, &ParseError{
			File:    path,
			Row:     line,
			Message: fmt.Sprintf("invalid date %q", record[idx.date]),
			Cause:   err,
		}
	}

	orders, err := strconv.Atoi(strings.TrimSpace(record[idx.orders]))
	if err != nil {
		return ReportRow{}, &ParseError{
			File:    path,
			Row:     line,
			Message: fmt.Sprintf("invalid orders value %q", record[idx.orders]),
			Cause:   err,
		}
	}

	revenue, err := strconv.ParseFloat(strings.TrimSpace(record[idx.revenue]), 64)
	if err != nil {
		return ReportRow{}, &ParseError{
			File:    path,
			Row:     line,
			Message: fmt.Sprintf("invalid revenue value %q", record[idx.revenue]),
			Cause:   err,
		}
	}

	columns := make(map[string]string, len(header))
	for i, name := range header {
		if i < len(record) {
			columns[strings.TrimSpace(name)] = record[i]
		}
	}

	return ReportRow{
		Date:    date,
		Orders:  orders,
		Revenue: revenue,
		Columns: columns,
	}, nil
}

// parseDate tries the supported date formats in order
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, format := range dateFormats {
		t, err := time.Parse(format, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// isEmptyRecord reports whether every cell in the record is blank
func isEmptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
