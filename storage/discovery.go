package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"search-analysis/platform"
)

var ErrIntermediateForAll = errors.New("intermediate files can only be listed for a single platform")

// FindFiles walks dir and returns the CSV exports relevant to filter, sorted.
// platform.Any matches every platform.
func FindFiles(dir string, filter platform.Platform, includeIntermediate bool) ([]string, error) {
	if filter == platform.Any && includeIntermediate {
		return nil, fmt.Errorf("discovery: %w", ErrIntermediateForAll)
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsRelevantFile(path, filter, includeIntermediate) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovery: walk %q: %w", dir, err)
	}

	sort.Strings(files)
	return files, nil
}

// IsRelevantFile reports whether path is an export of filter.
func IsRelevantFile(path string, filter platform.Platform, includeIntermediate bool) bool {
	if !strings.HasSuffix(path, ".csv") {
		return false
	}
	lower := strings.ToLower(path)
	if filter != platform.Any && !strings.Contains(lower, string(filter)) {
		return false
	}
	return includeIntermediate || !IsIntermediateFile(path)
}

// IsIntermediateFile reports whether path is a partial scraper output. YouTube
// intermediates are also recognizable by a file name without underscores.
func IsIntermediateFile(path string) bool {
	lower := strings.ToLower(path)
	if strings.Contains(lower, "intermediate") {
		return true
	}
	if strings.Contains(lower, string(platform.YouTube)) {
		return !strings.Contains(filepath.Base(path), "_")
	}
	return false
}
