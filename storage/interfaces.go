package storage

import (
	"context"

	"search-analysis/models"
)

// DatasetWriter is the interface any export backend must satisfy.
type DatasetWriter interface {
	Write(ctx context.Context, runID string, dataset models.Dataset) error
	Close() error
}

// TableReader loads one export file as raw rows.
type TableReader interface {
	Read(path string) (models.RawTable, error)
}

// DatasetCache memoizes unified datasets by file-set identity.
type DatasetCache interface {
	Get(key string) (models.Dataset, bool)
	Set(key string, dataset models.Dataset) error
}
