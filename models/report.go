package models

import (
	"time"

	"search-analysis/platform"
)

// PlatformStats is one row of the per-platform overview. Platform is "all" for
// the combined row.
type PlatformStats struct {
	Platform     string `json:"platform"`
	TotalVideos  int    `json:"totalVideos"`
	UniqueVideos int    `json:"uniqueVideos"`
	Accounts     int    `json:"accounts"`
}

// QueryCount counts rows per search term.
type QueryCount struct {
	SearchTerm string `json:"searchTerm"`
	Videos     int    `json:"videos"`
}

// QueryPlatformCount is a search term row with one count per platform.
type QueryPlatformCount struct {
	SearchTerm  string                    `json:"searchTerm"`
	PerPlatform map[platform.Platform]int `json:"perPlatform"`
	Total       int                       `json:"total"`
}

// AccountCount is how many rows an account authored.
type AccountCount struct {
	UserName  string `json:"userName"`
	Frequency int    `json:"frequency"`
}

// AccountLikes is the summed likes of an account.
type AccountLikes struct {
	UserName string `json:"userName"`
	Likes    int64  `json:"likes"`
}

// ResultCount is how many distinct collections returned url for a search term.
type ResultCount struct {
	URL            string      `json:"url"`
	SearchTerm     string      `json:"searchTerm"`
	Count          int         `json:"count"`
	CollectedTimes []time.Time `json:"collectedTimes"`
}

// QuerySpread lists the distinct search terms that surfaced url.
type QuerySpread struct {
	URL          string   `json:"url"`
	QueriesCount int      `json:"queriesCount"`
	Queries      []string `json:"queries"`
}

// OccurrenceCount is a histogram bucket: how many videos appeared under
// QueriesCount distinct queries.
type OccurrenceCount struct {
	QueriesCount int `json:"queriesCount"`
	Videos       int `json:"videos"`
}

// FreshnessRecord is the hour difference between upload and collection of one row.
type FreshnessRecord struct {
	URL           string            `json:"url"`
	Platform      platform.Platform `json:"platform"`
	UserName      string            `json:"userName"`
	Rank          Value             `json:"rank"`
	Likes         Value             `json:"likes"`
	UploadTime    time.Time         `json:"uploadTime"`
	CollectedTime time.Time         `json:"collectedTime"`
	Hours         float64           `json:"hours"`
	Fresh         bool              `json:"fresh"`
}

// FreshnessSummary is the share of fresh rows for a platform or "all".
type FreshnessSummary struct {
	Platform   string  `json:"platform"`
	Fresh      int     `json:"fresh"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// DayFreshnessRecord marks a row fresh when it was collected on its upload day
// or the day after.
type DayFreshnessRecord struct {
	URL           string    `json:"url"`
	UserName      string    `json:"userName"`
	UploadTime    time.Time `json:"uploadTime"`
	CollectedTime time.Time `json:"collectedTime"`
	UploadDay     string    `json:"uploadDay"`
	CollectedDay  string    `json:"collectedDay"`
	Fresh         bool      `json:"fresh"`
}

// RankHours summarises hours since posting for one rank on one platform.
type RankHours struct {
	Rank        int64             `json:"rank"`
	Platform    platform.Platform `json:"platform"`
	AvgHours    float64           `json:"avgHours"`
	MedianHours float64           `json:"medianHours"`
}

// PlatformMedian is the median hours since posting of a platform's top ranks.
type PlatformMedian struct {
	Platform    platform.Platform `json:"platform"`
	MedianHours float64           `json:"medianHours"`
}

// LikesAtHours is the average likes of rows posted at most Hours before collection.
type LikesAtHours struct {
	Hours        int     `json:"hours"`
	AverageLikes float64 `json:"averageLikes"`
	Rows         int     `json:"rows"`
}

// CategoryShare is the ORG share of accounts, videos and likes on a platform, in percent.
type CategoryShare struct {
	Platform string  `json:"platform"`
	Accounts float64 `json:"accounts"`
	Videos   float64 `json:"videos"`
	Likes    float64 `json:"likes"`
}

// CategoryLikes is the average likes of a category.
type CategoryLikes struct {
	Category     string  `json:"cat"`
	AverageLikes float64 `json:"averageLikes"`
}

// LagShare is the ORG share among rows collected LagHours after first trending.
type LagShare struct {
	LagHours      float64 `json:"lagHours"`
	Rows          int     `json:"rows"`
	PercentageOrg float64 `json:"percentageOrg"`
}

// WordStat is the frequency and rank of one word across post texts.
type WordStat struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
	Rank  int    `json:"rank"`
}

// InsightReport holds the computed analytics over the unified dataset.
type InsightReport struct {
	RunID            string               `json:"runId"`
	TotalRows        int                  `json:"totalRows"`
	PlatformStats    []PlatformStats      `json:"platformStats"`
	VideosPerQuery   []QueryCount         `json:"videosPerQuery"`
	QueryByPlatform  []QueryPlatformCount `json:"queryByPlatform"`
	TopAccounts      []AccountCount       `json:"topAccounts"`
	TopAccountLikes  []AccountLikes       `json:"topAccountLikes"`
	SameVideoQueries []OccurrenceCount    `json:"sameVideoQueries"`
	Freshness        []FreshnessSummary   `json:"freshness"`
	InstagramFresh   *FreshnessSummary    `json:"instagramDayFreshness,omitempty"`
	TopRankMedians   []PlatformMedian     `json:"topRankMedians"`
	Top10Rows        int                  `json:"top10Rows"`
	SingleRunRows    int                  `json:"singleRunRows"`
	RepeatedResults  []ResultCount        `json:"repeatedResults"`
	RankHours        []RankHours          `json:"rankHours"`
	LikesOverHours   []LikesAtHours       `json:"likesOverHours"`
	CategoryShares   []CategoryShare      `json:"categoryShares,omitempty"`
	CategoryLikes    []CategoryLikes      `json:"categoryLikes,omitempty"`
	OrgFraction      float64              `json:"orgFraction,omitempty"`
	OrgByLag         []LagShare           `json:"orgByLag,omitempty"`
}
