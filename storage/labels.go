package storage

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"search-analysis/models"
)

var labelNameColumns = []string{"user_name", "user name"}

// ReadLabels loads the account label table. It needs a user name column and a
// "cat" column; other columns are ignored.
func ReadLabels(path string) ([]models.Label, error) {
	table, err := NewCSVReader().Read(path)
	if err != nil {
		return nil, fmt.Errorf("labels: %w", err)
	}

	nameIdx, catIdx := -1, -1
	for i, col := range table.Header {
		col = strings.TrimSpace(col)
		for _, name := range labelNameColumns {
			if col == name && nameIdx < 0 {
				nameIdx = i
			}
		}
		if col == "cat" {
			catIdx = i
		}
	}
	if nameIdx < 0 || catIdx < 0 {
		return nil, fmt.Errorf("labels: %q needs user_name and cat columns, got %v", path, table.Header)
	}

	labels := make([]models.Label, 0, len(table.Rows))
	for _, row := range table.Rows {
		if nameIdx >= len(row) || catIdx >= len(row) {
			continue
		}
		labels = append(labels, models.Label{UserName: row[nameIdx], Category: row[catIdx]})
	}
	return labels, nil
}

// ReadLines returns the non-empty trimmed lines of a text file.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lines: open %q: %w", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("lines: read %q: %w", path, err)
	}
	return lines, nil
}
