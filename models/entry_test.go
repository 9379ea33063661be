package models

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"search-analysis/platform"
)

func TestFirstTrendingOf(t *testing.T) {
	a := time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, UnknownTrending, FirstTrendingOf(nil))
	assert.Equal(t, b, FirstTrendingOf([]time.Time{a, b}))
}

func TestRowKeyIgnoresColumnOrder(t *testing.T) {
	a := NewRow()
	a.Set("url", StringValue("u"))
	a.Set("likes", NumberValue(3))
	b := NewRow()
	b.Set("likes", NumberValue(3))
	b.Set("url", StringValue("u"))
	c := NewRow()
	c.Set("likes", StringValue("3"))
	c.Set("url", StringValue("u"))

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key(), "kind is part of the identity")
	assert.Equal(t, []string{"url", "likes"}, a.Keys())
	assert.Equal(t, []string{"likes"}, a.Without("url").Keys())
}

func TestRowJSONKeepsOrderAndKinds(t *testing.T) {
	r := NewRow()
	r.Set("url", StringValue("u"))
	r.Set("upload time", TimeValue(time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)))
	r.Set("likes", NumberValue(0))
	r.Set("text", Absent())

	data, err := json.Marshal(r)
	require.NoError(t, err)
	var back Row
	require.NoError(t, json.Unmarshal(data, &back))

	assert.Equal(t, r.Keys(), back.Keys())
	assert.Equal(t, r.Key(), back.Key())
	assert.True(t, back.Value("text").IsAbsent())
	assert.True(t, back.Value("likes").IsNumber())
}

func TestEntryAccessors(t *testing.T) {
	r := NewRow()
	r.Set("url", StringValue("https://t/1"))
	r.Set("user name", Absent())
	r.Set("likes", NumberValue(12))
	e := Entry{Fields: r, Platform: platform.TikTok}

	assert.Equal(t, "https://t/1", e.URL())
	_, ok := e.UserName()
	assert.False(t, ok)
	likes, ok := e.Likes()
	assert.True(t, ok)
	assert.Equal(t, int64(12), likes)
	_, ok = e.Rank()
	assert.False(t, ok)

	url, err := e.Post().URL()
	require.NoError(t, err)
	assert.Equal(t, "https://t/1", url.String())
}

func TestEntryCloneIsIndependent(t *testing.T) {
	r := NewRow()
	r.Set("url", StringValue("a"))
	e := Entry{Fields: r, TrendingTime: []time.Time{UnknownTrending}}

	c := e.Clone()
	c.Fields.Set("url", StringValue("b"))
	c.TrendingTime[0] = time.Time{}

	assert.Equal(t, "a", e.URL())
	assert.Equal(t, UnknownTrending, e.TrendingTime[0])
	assert.NotEqual(t, e.Key(), c.Key())
}

func TestDatasetHelpers(t *testing.T) {
	row := func(cols ...string) Row {
		r := NewRow()
		for _, c := range cols {
			r.Set(c, StringValue(c))
		}
		return r
	}
	d := Dataset{
		{Fields: row("url", "likes"), Platform: platform.YouTube, SearchTerm: "b"},
		{Fields: row("url", "rank"), Platform: platform.TikTok, SearchTerm: "a"},
		{Fields: row("url"), Platform: platform.YouTube, SearchTerm: "b"},
	}

	assert.Equal(t, []string{"url", "likes", "rank"}, d.Columns())
	assert.Equal(t, []platform.Platform{platform.YouTube, platform.TikTok}, d.Platforms())
	assert.Equal(t, []string{"a", "b"}, d.SearchTerms())
	assert.Len(t, d.ByPlatform(platform.YouTube), 2)
}
