package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"search-analysis/models"
	"search-analysis/platform"
)

func collectedAt(e models.Entry, t time.Time) models.Entry {
	e.CollectedTime = t
	return e
}

func pickOneSample() models.Dataset {
	early := time.Date(2024, 7, 2, 10, 0, 0, 0, time.UTC)
	late := time.Date(2024, 7, 3, 10, 0, 0, 0, time.UTC)

	noURL := entry(platform.TikTok, "trump", row("url", models.Absent(), "likes", models.NumberValue(1)))

	return models.Dataset{
		collectedAt(post(platform.TikTok, "trump", "https://t/a", "alice", 5), late),
		collectedAt(post(platform.TikTok, "trump", "https://t/c", "carol", 2), late),
		collectedAt(post(platform.TikTok, "trump", "https://t/a", "alice", 4), early),
		collectedAt(post(platform.TikTok, "trump", "https://t/b", "bob", 1), early),
		collectedAt(post(platform.TikTok, "trump", "https://t/a", "alice", 4), early),
		collectedAt(post(platform.YouTube, "trump", "https://y/d", "dave", 9), late),
		collectedAt(noURL, early),
	}
}

func TestPickOneKeepsEarliestRunPerQuery(t *testing.T) {
	out := PickOne(pickOneSample())

	require.Len(t, out, 3)
	assert.Equal(t, "https://t/a", out[0].URL())
	assert.Equal(t, "https://t/b", out[1].URL())
	assert.Equal(t, "https://y/d", out[2].URL())
	likes, _ := out[0].Likes()
	assert.Equal(t, int64(4), likes)
}

func TestPickOneIsIdempotent(t *testing.T) {
	once := PickOne(pickOneSample())
	twice := PickOne(once)

	require.Len(t, twice, len(once))
	for i := range once {
		assert.Equal(t, once[i].Key(), twice[i].Key())
	}
}

func TestPickOneEmpty(t *testing.T) {
	assert.Empty(t, PickOne(nil))
}

func TestUniqueVideosKeepsLastOccurrence(t *testing.T) {
	d := models.Dataset{
		post(platform.TikTok, "a", "https://t/1", "alice", 1),
		post(platform.TikTok, "a", "https://t/2", "bob", 1),
		post(platform.TikTok, "b", "https://t/1", "alice", 7),
	}

	out := UniqueVideos(d)
	require.Len(t, out, 2)
	assert.Equal(t, "https://t/2", out[0].URL())
	assert.Equal(t, "https://t/1", out[1].URL())
	assert.Equal(t, "b", out[1].SearchTerm)
}
