package dataprocessing

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseFileCSV(t *testing.T) {
	path := writeDataFile(t, "sales.csv", `date,orders,revenue
2025-01-01,5,100.50
2025-01-02,3,75.25
2025-01-03,8,210.00
`)

	rows, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), rows[0].Date)
	assert.Equal(t, 5, rows[0].Orders)
	assert.Equal(t, 100.50, rows[0].Revenue)
	assert.Equal(t, "100.50", rows[0].Columns["revenue"])
}

func TestParseFileRowCountMatchesLines(t *testing.T) {
	// Loader row count must equal line count minus the header line
	var sb strings.Builder
	sb.WriteString("date,orders,revenue\n")
	const dataLines = 25
	for i := 0; i < dataLines; i++ {
		sb.WriteString("2025-02-01,1,10.0\n")
	}

	path := writeDataFile(t, "sales.csv", sb.String())
	rows, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, rows, dataLines)
}

func TestParseFileHeaderOnly(t *testing.T) {
	path := writeDataFile(t, "sales.csv", "date,orders,revenue\n")

	rows, err := ParseFile(path)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestParseFileColumnCountMismatch(t *testing.T) {
	path := writeDataFile(t, "sales.csv", `date,orders,revenue
2025-01-01,5,100.50
2025-01-02,3
`)

	_, err := ParseFile(path)
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 3, parseErr.Row)
}

func TestParseFileMissingRequiredColumn(t *testing.T) {
	path := writeDataFile(t, "sales.csv", `date,amount
2025-01-01,100.50
`)

	_, err := ParseFile(path)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Contains(t, parseErr.Message, "orders")
	assert.Contains(t, parseErr.Message, "revenue")
}

func TestParseFileBadValues(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"bad date", "not-a-date,5,100.50", "invalid date"},
		{"bad orders", "2025-01-01,five,100.50", "invalid orders"},
		{"bad revenue", "2025-01-01,5,lots", "invalid revenue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDataFile(t, "sales.csv", "date,orders,revenue\n"+tt.row+"\n")

			_, err := ParseFile(path)
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Contains(t, parseErr.Message, tt.want)
			assert.Equal(t, 2, parseErr.Row)
		})
	}
}

func TestParseFileHeaderCaseInsensitive(t *testing.T) {
	path := writeDataFile(t, "sales.csv", `Date,Orders,Revenue
2025-01-01,5,100.50
`)

	rows, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Orders)
}

func TestParseFileExtraColumnsCarried(t *testing.T) {
	path := writeDataFile(t, "sales.csv", `date,orders,revenue,region
2025-01-01,5,100.50,north
`)

	rows, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "north", rows[0].Columns["region"])
}

func TestParseDateFormats(t *testing.T) {
	for _, value := range []string{"2025-03-14", "2025-03-14 00:00:00", "14/03/2025"} {
		_, err := parseDate(value)
		assert.NoError(t, err, value)
	}

	_, err := parseDate("14th of March")
	assert.Error(t, err)
}
