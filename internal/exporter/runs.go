package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// RunRecord is one line of the run history index
type RunRecord struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	HTMLPath  string    `json:"html_path,omitempty"`
	PDFPath   string    `json:"pdf_path,omitempty"`
}

var runHeaders = []string{"ID", "StartTime", "EndTime", "Status", "Error", "HTMLPath", "PDFPath"}

// RunLog persists report run history as an append-only CSV index
type RunLog struct {
	mu     sync.Mutex
	path   string
	writer *CSVWriter
}

// NewRunLog creates a run log backed by the CSV file at path
func NewRunLog(path string, writer *CSVWriter) *RunLog {
	if writer == nil {
		writer = NewCSVWriter(nil)
	}
	return &RunLog{path: path, writer: writer}
}

// Append records one finished run. The header row is written on first use.
func (l *RunLog) Append(rec RunRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	record := []string{
		rec.ID,
		rec.StartTime.Format(time.RFC3339),
		rec.EndTime.Format(time.RFC3339),
		rec.Status,
		rec.Error,
		rec.HTMLPath,
		rec.PDFPath,
	}

	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		return l.writer.WriteCSV(l.path, WriteOptions{
			Headers:   runHeaders,
			Records:   [][]string{record},
			BOMPrefix: true,
		})
	}

	return l.writer.AppendToCSV(l.path, [][]string{record})
}

// List reads the full run history, oldest first.
// A missing index file yields an empty history.
func (l *RunLog) List() ([]RunRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return []RunRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(runHeaders)

	records := []RunRecord{}
	first := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read run log: %w", err)
		}
		if first {
			first = false
			continue // header (possibly BOM-prefixed)
		}

		rec := RunRecord{
			ID:       row[0],
			Status:   row[3],
			Error:    row[4],
			HTMLPath: row[5],
			PDFPath:  row[6],
		}
		if t, err := time.Parse(time.RFC3339, row[1]); err == nil {
			rec.StartTime = t
		}
		if t, err := time.Parse(time.RFC3339, row[2]); err == nil {
			rec.EndTime = t
		}
		records = append(records, rec)
	}

	return records, nil
}
