package models

import (
	"time"

	"search-analysis/platform"
)

// CollectionLayout is how trending and collection times appear in file names.
const CollectionLayout = "01-02-15"

// UnknownTrending stands in for files whose name carries no trending time.
var UnknownTrending = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// FileMetadata holds the collection parameters encoded in a file path.
// TrendingTime is UnknownTrending unless TrendingKnown is set.
type FileMetadata struct {
	Query         string            `json:"query"`
	Platform      platform.Platform `json:"platform"`
	TrendingTime  time.Time         `json:"trendingTime"`
	TrendingKnown bool              `json:"trendingKnown"`
	CollectedTime time.Time         `json:"collectedTime"`
}

// HasTrending reports whether the file name carried a trending time. A parsed
// time equal to UnknownTrending still counts.
func (m FileMetadata) HasTrending() bool {
	return m.TrendingKnown
}
