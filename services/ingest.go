package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"search-analysis/models"
	"search-analysis/platform"
	"search-analysis/storage"
	"search-analysis/utils"
)

var ErrMalformedRow = errors.New("malformed row")

// FileReport describes the outcome of ingesting one file.
type FileReport struct {
	Path     string
	Platform platform.Platform
	Rows     int
	Skipped  int
	Err      error
}

// Ingestor turns one export file into dataset entries.
type Ingestor struct {
	reader    storage.TableReader
	extractor *Extractor
	logger    *utils.Logger
}

func NewIngestor(reader storage.TableReader, extractor *Extractor, logger *utils.Logger) *Ingestor {
	return &Ingestor{reader: reader, extractor: extractor, logger: logger}
}

// IngestFile reads path and normalizes its rows. hint overrides the platform
// found in the path unless it is empty or platform.Any.
func (in *Ingestor) IngestFile(path string, hint platform.Platform) (models.Dataset, FileReport) {
	report := FileReport{Path: path}

	meta, err := in.extractor.Extract(path)
	if err != nil {
		report.Err = err
		return nil, report
	}

	p := meta.Platform
	if hint.Valid() {
		p = hint
	}
	if !p.Valid() {
		report.Err = fmt.Errorf("ingest: %q: %w", path, platform.ErrUnknownPlatform)
		return nil, report
	}
	meta.Platform = p
	report.Platform = p

	table, err := in.reader.Read(path)
	if err != nil {
		report.Err = fmt.Errorf("ingest: %w", err)
		return nil, report
	}

	entries, skipped := Normalize(table, meta)
	report.Rows = len(entries)
	report.Skipped = skipped
	if skipped > 0 {
		in.logger.Warn("[ingest] %s: skipped %d malformed rows", path, skipped)
	}
	in.logger.Debug("[ingest] %s: %d rows as %s (query %q)", path, len(entries), p, meta.Query)
	return entries, report
}

// Normalize converts the raw rows of one file into entries decorated with the
// file's metadata. Rows that do not fit the header, and every row of a file
// lacking a required column, are skipped and counted.
func Normalize(table models.RawTable, meta models.FileMetadata) (models.Dataset, int) {
	p := meta.Platform
	header := table.Header
	addRank := p == platform.Facebook && !contains(header, string(platform.Rank))
	if addRank {
		header = append(append([]string(nil), header...), string(platform.Rank))
	}

	if err := checkRequired(p, header); err != nil {
		return nil, len(table.Rows)
	}

	var trending []time.Time
	if meta.HasTrending() {
		trending = []time.Time{meta.TrendingTime}
	}

	out := make(models.Dataset, 0, len(table.Rows))
	skipped := 0
	for i, raw := range table.Rows {
		if len(raw) != len(table.Header) {
			skipped++
			continue
		}
		values := raw
		if addRank {
			values = append(append([]string(nil), raw...), strconv.Itoa(i))
		}

		post := models.NewPost(p, header, values)
		row := post.ToRow()
		backfillURL(post, &row)
		if p == platform.Facebook && !row.Has(string(platform.ID)) {
			if id := FacebookID(row.Value(string(platform.URL)).String()); id != "" {
				row.Set(string(platform.ID), models.StringValue(id))
			}
		}

		out = append(out, models.Entry{
			Fields:        row,
			SearchTerm:    meta.Query,
			Platform:      p,
			TrendingTime:  append([]time.Time(nil), trending...),
			CollectedTime: meta.CollectedTime,
			FirstTrending: models.FirstTrendingOf(trending),
		})
	}
	return out, skipped
}

// backfillURL stores the post link under the canonical url column. Instagram
// and TikTok links are built from ids; YouTube exports without a link column
// use the text as a stand-in.
func backfillURL(post *models.Post, row *models.Row) {
	u, err := post.URL()
	if err != nil {
		if post.Platform() != platform.YouTube {
			return
		}
		if u, err = post.Text(); err != nil {
			return
		}
	}
	row.Set(string(platform.URL), u)
}

func checkRequired(p platform.Platform, header []string) error {
	for _, f := range platform.Posts.Required(p) {
		col, err := platform.Posts.Column(p, f)
		if err != nil {
			return err
		}
		if !contains(header, col) && !contains(header, string(f)) {
			return fmt.Errorf("%w: %s export lacks column %q", ErrMalformedRow, p.Title(), col)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
