package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"search-analysis/models"
)

const utf8BOM = "\ufeff"

// CSVReader reads scraper exports. Rows may be ragged; the caller decides what
// to do with rows that do not match the header.
type CSVReader struct{}

func NewCSVReader() *CSVReader { return &CSVReader{} }

// Read loads the whole file at path.
func (r *CSVReader) Read(path string) (models.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.RawTable{}, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	table, err := r.ReadFrom(f)
	if err != nil {
		return models.RawTable{}, fmt.Errorf("csv: read %q: %w", path, err)
	}
	table.Path = path
	return table, nil
}

// ReadFrom parses CSV from any reader. An empty input yields an empty table.
func (r *CSVReader) ReadFrom(in io.Reader) (models.RawTable, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return models.RawTable{}, nil
	}
	if err != nil {
		return models.RawTable{}, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	table := models.RawTable{Header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return models.RawTable{}, err
		}
		table.Rows = append(table.Rows, rec)
	}
	return table, nil
}
