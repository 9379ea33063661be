package models

import (
	"sort"
	"strings"
	"time"

	"search-analysis/platform"
)

// Category buckets used by account categorization.
const (
	CategoryOrg        = "ORG"
	CategoryIndividual = "IND"
)

// Entry is one row of the unified dataset: a canonical post row decorated with
// the collection parameters of the file it came from.
type Entry struct {
	Fields        Row               `json:"fields"`
	SearchTerm    string            `json:"searchTerm"`
	Platform      platform.Platform `json:"platform"`
	TrendingTime  []time.Time       `json:"trendingTime"`
	CollectedTime time.Time         `json:"collectedTime"`
	FirstTrending time.Time         `json:"firstTrending"`
	Category      string            `json:"cat,omitempty"`
}

func (e Entry) field(f platform.Field) Value { return e.Fields.Value(string(f)) }

// URL is the canonical url rendered as text, empty when absent.
func (e Entry) URL() string { return e.field(platform.URL).String() }

func (e Entry) ID() string { return e.field(platform.ID).String() }

func (e Entry) Text() string { return e.field(platform.Text).String() }

// UserName returns the author name and false when it was not collected.
func (e Entry) UserName() (string, bool) {
	v := e.field(platform.UserName)
	if v.IsAbsent() {
		return "", false
	}
	return v.String(), true
}

func (e Entry) Likes() (int64, bool) { return e.field(platform.Likes).Int() }

func (e Entry) Rank() (int64, bool) { return e.field(platform.Rank).Int() }

func (e Entry) UploadTime() (time.Time, bool) { return e.field(platform.UploadTime).Time() }

// Post re-wraps the canonical row without coercing it again.
func (e Entry) Post() *Post { return PostFromRow(e.Platform, e.Fields) }

// Clone copies the entry so its row and trending list can be modified.
func (e Entry) Clone() Entry {
	c := e
	c.Fields = e.Fields.Clone()
	c.TrendingTime = append([]time.Time(nil), e.TrendingTime...)
	return c
}

// Key identifies the entry for full-row duplicate removal.
func (e Entry) Key() string {
	var b strings.Builder
	b.WriteString(e.Fields.Key())
	b.WriteString(e.SearchTerm)
	b.WriteByte(0x1f)
	b.WriteString(string(e.Platform))
	b.WriteByte(0x1f)
	for _, t := range e.TrendingTime {
		b.WriteString(t.Format(time.RFC3339))
		b.WriteByte(',')
	}
	b.WriteByte(0x1f)
	b.WriteString(e.CollectedTime.Format(time.RFC3339))
	b.WriteByte(0x1f)
	b.WriteString(e.FirstTrending.Format(time.RFC3339))
	b.WriteByte(0x1f)
	b.WriteString(e.Category)
	return b.String()
}

// FirstTrendingOf is the earliest trending time, or UnknownTrending for an empty list.
func FirstTrendingOf(times []time.Time) time.Time {
	if len(times) == 0 {
		return UnknownTrending
	}
	first := times[0]
	for _, t := range times[1:] {
		if t.Before(first) {
			first = t
		}
	}
	return first
}

// Dataset is the unified, ordered record set handed to the metrics engine.
type Dataset []Entry

// Columns is the union of canonical row columns in first-seen order.
func (d Dataset) Columns() []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, e := range d {
		for _, k := range e.Fields.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			cols = append(cols, k)
		}
	}
	return cols
}

// Platforms lists the platforms present, in order of first appearance.
func (d Dataset) Platforms() []platform.Platform {
	seen := make(map[platform.Platform]struct{})
	var out []platform.Platform
	for _, e := range d {
		if _, ok := seen[e.Platform]; ok {
			continue
		}
		seen[e.Platform] = struct{}{}
		out = append(out, e.Platform)
	}
	return out
}

func (d Dataset) Filter(keep func(Entry) bool) Dataset {
	out := make(Dataset, 0, len(d))
	for _, e := range d {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func (d Dataset) ByPlatform(p platform.Platform) Dataset {
	return d.Filter(func(e Entry) bool { return e.Platform == p })
}

// SearchTerms returns the distinct queries, sorted.
func (d Dataset) SearchTerms() []string {
	seen := make(map[string]struct{})
	for _, e := range d {
		seen[e.SearchTerm] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for q := range seen {
		out = append(out, q)
	}
	sort.Strings(out)
	return out
}

// Clone deep copies every entry.
func (d Dataset) Clone() Dataset {
	out := make(Dataset, len(d))
	for i, e := range d {
		out[i] = e.Clone()
	}
	return out
}
