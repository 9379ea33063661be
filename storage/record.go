package storage

import (
	"database/sql"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"search-analysis/models"
	"search-analysis/platform"
)

// postRecord is the flattened form of an entry shared by the SQL backends.
// The full canonical row travels as JSON in fields.
type postRecord struct {
	Platform      string
	SearchTerm    string
	URL           string
	UserName      sql.NullString
	Likes         sql.NullInt64
	UploadTime    sql.NullTime
	Rank          sql.NullInt64
	TrendingTime  []string
	CollectedTime time.Time
	FirstTrending time.Time
	Category      sql.NullString
	Fields        []byte
}

func newPostRecord(e models.Entry) (postRecord, error) {
	fields, err := json.Marshal(e.Fields)
	if err != nil {
		return postRecord{}, fmt.Errorf("encode row %q: %w", e.URL(), err)
	}

	r := postRecord{
		Platform:      string(e.Platform),
		SearchTerm:    e.SearchTerm,
		URL:           e.URL(),
		CollectedTime: e.CollectedTime,
		FirstTrending: e.FirstTrending,
		Category:      sql.NullString{String: e.Category, Valid: e.Category != ""},
		Fields:        fields,
		TrendingTime:  make([]string, len(e.TrendingTime)),
	}
	if name, ok := e.UserName(); ok {
		r.UserName = sql.NullString{String: name, Valid: true}
	}
	if likes, ok := e.Likes(); ok {
		r.Likes = sql.NullInt64{Int64: likes, Valid: true}
	}
	if t, ok := e.UploadTime(); ok {
		r.UploadTime = sql.NullTime{Time: t, Valid: true}
	}
	if rank, ok := e.Rank(); ok {
		r.Rank = sql.NullInt64{Int64: rank, Valid: true}
	}
	for i, t := range e.TrendingTime {
		r.TrendingTime[i] = t.UTC().Format(time.RFC3339)
	}
	return r, nil
}

func (r postRecord) entry() (models.Entry, error) {
	e := models.Entry{
		SearchTerm:    r.SearchTerm,
		Platform:      platform.Platform(r.Platform),
		CollectedTime: r.CollectedTime.UTC(),
		FirstTrending: r.FirstTrending.UTC(),
		Category:      r.Category.String,
	}
	if err := json.Unmarshal(r.Fields, &e.Fields); err != nil {
		return models.Entry{}, fmt.Errorf("decode row: %w", err)
	}
	for _, s := range r.TrendingTime {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return models.Entry{}, fmt.Errorf("decode trending time %q: %w", s, err)
		}
		e.TrendingTime = append(e.TrendingTime, t)
	}
	return e, nil
}
