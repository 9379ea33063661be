package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"search-analysis/models"
)

// Metadata columns appended after the canonical row columns.
var metaColumns = []string{"searchTerm", "platform", "trendingTime", "collectedTime", "firstTrending"}

// CSVWriter dumps the unified dataset to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path.
// Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	return &CSVWriter{file: f, writer: csv.NewWriter(f)}, nil
}

// Write writes a header and one line per entry. Absent values are empty cells
// and trending times are joined with "|".
func (c *CSVWriter) Write(_ context.Context, _ string, dataset models.Dataset) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cols := dataset.Columns()
	withCat := false
	for _, e := range dataset {
		if e.Category != "" {
			withCat = true
			break
		}
	}

	header := append(append([]string(nil), cols...), metaColumns...)
	if withCat {
		header = append(header, "cat")
	}
	if err := c.writer.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, e := range dataset {
		row := make([]string, 0, len(header))
		for _, col := range cols {
			row = append(row, e.Fields.Value(col).String())
		}
		row = append(row,
			e.SearchTerm,
			string(e.Platform),
			FormatTimes(e.TrendingTime),
			e.CollectedTime.Format(models.TimeFormat),
			e.FirstTrending.Format(models.TimeFormat),
		)
		if withCat {
			row = append(row, e.Category)
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

// FormatTimes renders a trending list for text exports.
func FormatTimes(times []time.Time) string {
	parts := make([]string, len(times))
	for i, t := range times {
		parts[i] = t.Format(models.TimeFormat)
	}
	return strings.Join(parts, "|")
}
