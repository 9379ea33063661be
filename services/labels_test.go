package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"search-analysis/models"
	"search-analysis/platform"
)

func categorized(e models.Entry, cat string) models.Entry {
	e.Category = cat
	return e
}

func TestCategorizerBuckets(t *testing.T) {
	labels := []models.Label{
		{UserName: "cnn", Category: "ORG-news"},
		{UserName: "alice", Category: "IND"},
		{UserName: "bob", Category: "ORG"},
		{UserName: "bob", Category: "IND-influencer"},
	}
	c := NewCategorizer(labels, newTestLogger())

	noUser := entry(platform.TikTok, "q", row("url", models.StringValue("u5"), "user name", models.Absent()))
	d := models.Dataset{
		post(platform.TikTok, "q", "u1", "cnn", 1),
		post(platform.TikTok, "q", "u2", "alice", 1),
		post(platform.TikTok, "q", "u3", "bob", 1),
		post(platform.TikTok, "q", "u4", "stranger", 1),
		noUser,
	}

	out := c.Categorize(d)
	require.Len(t, out, 5)
	assert.Equal(t, models.CategoryOrg, out[0].Category)
	assert.Equal(t, models.CategoryIndividual, out[1].Category)
	assert.Equal(t, models.CategoryIndividual, out[2].Category, "the later label wins")
	assert.Empty(t, out[3].Category)
	assert.Empty(t, out[4].Category)
	assert.Empty(t, d[0].Category, "input is not modified")
}

func TestCategoryShares(t *testing.T) {
	d := models.Dataset{
		categorized(post(platform.TikTok, "q", "u1", "cnn", 30), models.CategoryOrg),
		categorized(post(platform.TikTok, "q", "u2", "cnn", 10), models.CategoryOrg),
		categorized(post(platform.TikTok, "q", "u3", "alice", 60), models.CategoryIndividual),
		post(platform.TikTok, "q", "u4", "stranger", 100),
		categorized(post(platform.YouTube, "q", "y1", "bob", 5), models.CategoryIndividual),
	}

	got := CategoryShares(d)
	require.Len(t, got, 2)
	assert.Equal(t, "tiktok", got[0].Platform)
	assert.InDelta(t, 100.0/3, got[0].Accounts, 1e-9)
	assert.InDelta(t, 50.0, got[0].Videos, 1e-9)
	assert.InDelta(t, 40.0, got[0].Likes, 1e-9)
	assert.Equal(t, models.CategoryShare{Platform: "youtube"}, got[1])
}

func TestAverageLikesPerCategory(t *testing.T) {
	d := models.Dataset{
		categorized(post(platform.TikTok, "q", "u1", "cnn", 30), models.CategoryOrg),
		categorized(post(platform.TikTok, "q", "u2", "cnn", 10), models.CategoryOrg),
		categorized(post(platform.TikTok, "q", "u3", "alice", 60), models.CategoryIndividual),
		post(platform.TikTok, "q", "u4", "stranger", 100),
	}

	got := AverageLikesPerCategory(d)
	assert.Equal(t, []models.CategoryLikes{
		{Category: "IND", AverageLikes: 60},
		{Category: "ORG", AverageLikes: 20},
	}, got)
}

func TestOrgFraction(t *testing.T) {
	assert.Zero(t, OrgFraction(models.Dataset{post(platform.TikTok, "q", "u", "a", 1)}))

	d := models.Dataset{
		categorized(post(platform.TikTok, "q", "u1", "a", 1), models.CategoryOrg),
		categorized(post(platform.TikTok, "q", "u2", "b", 1), models.CategoryOrg),
		categorized(post(platform.TikTok, "q", "u3", "c", 1), models.CategoryOrg),
		categorized(post(platform.TikTok, "q", "u4", "d", 1), models.CategoryIndividual),
		post(platform.TikTok, "q", "u5", "e", 1),
	}
	assert.InDelta(t, 0.75, OrgFraction(d), 1e-9)
}

func TestOrgShareByTrendingLag(t *testing.T) {
	trendingAt := func(e models.Entry, first time.Time) models.Entry {
		e.FirstTrending = first
		e.TrendingTime = []time.Time{first}
		return e
	}
	d := models.Dataset{
		trendingAt(categorized(post(platform.TikTok, "q", "u1", "a", 1), models.CategoryOrg), july2),
		trendingAt(categorized(post(platform.TikTok, "q", "u2", "b", 1), models.CategoryIndividual), july2),
		trendingAt(categorized(post(platform.TikTok, "q", "u3", "c", 1), models.CategoryOrg), july1),
		categorized(post(platform.TikTok, "q", "u4", "d", 1), models.CategoryOrg),
	}

	got := OrgShareByTrendingLag(d)
	assert.Equal(t, []models.LagShare{
		{LagHours: 24, Rows: 2, PercentageOrg: 50},
		{LagHours: 48, Rows: 1, PercentageOrg: 100},
	}, got)
}
