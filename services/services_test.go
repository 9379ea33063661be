package services

import (
	"io"
	"time"

	"search-analysis/models"
	"search-analysis/platform"
	"search-analysis/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLoggerTo(io.Discard, "error") }

var (
	july1     = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	july2     = time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)
	july3     = time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC)
	collected = july3
)

// row builds a canonical row from alternating key and value arguments.
func row(pairs ...any) models.Row {
	r := models.NewRow()
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i].(string), pairs[i+1].(models.Value))
	}
	return r
}

func entry(p platform.Platform, query string, fields models.Row) models.Entry {
	return models.Entry{
		Fields:        fields,
		SearchTerm:    query,
		Platform:      p,
		CollectedTime: collected,
		FirstTrending: models.UnknownTrending,
	}
}

func post(p platform.Platform, query, url, user string, likes int64) models.Entry {
	return entry(p, query, row(
		"url", models.StringValue(url),
		"user name", models.StringValue(user),
		"likes", models.NumberValue(likes),
	))
}
