package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Platform
	}{
		{"tiktok", TikTok},
		{"Instagram1", Instagram},
		{"data/TikTok/trump.csv", TikTok},
		{"Facebook_trump-07-15-1300.csv", Facebook},
		{"YOUTUBE", YouTube},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := Parse("twitter")
	assert.ErrorIs(t, err, ErrUnknownPlatform)
	_, err = Parse("all")
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestParseFilter(t *testing.T) {
	p, err := ParseFilter(" ALL ")
	require.NoError(t, err)
	assert.Equal(t, Any, p)
	assert.False(t, p.Valid())

	p, err = ParseFilter("youtube")
	require.NoError(t, err)
	assert.Equal(t, YouTube, p)
	assert.True(t, p.Valid())
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "TikTok", TikTok.Title())
	assert.Equal(t, "YouTube", YouTube.Title())
	assert.Equal(t, "all", Any.Title())
}

func TestRegistryIsComplete(t *testing.T) {
	assert.NoError(t, Validate())
}

func TestSchemaColumn(t *testing.T) {
	col, err := Posts.Column(TikTok, Likes)
	require.NoError(t, err)
	assert.Equal(t, "diggCount", col)

	col, err = Posts.Column(YouTube, URL)
	require.NoError(t, err)
	assert.Equal(t, "videoUrl", col)

	_, err = Posts.Column(Facebook, ID)
	assert.ErrorIs(t, err, ErrUnsupportedField)
	_, err = Posts.Column(Instagram, URL)
	assert.ErrorIs(t, err, ErrUnsupportedField)
}

func TestSchemaField(t *testing.T) {
	f, ok := Posts.Field(TikTok, "createTime")
	assert.True(t, ok)
	assert.Equal(t, UploadTime, f)

	_, ok = Posts.Field(TikTok, "suggestedWords")
	assert.False(t, ok)
}

func TestEveryPlatformMapsTheCoreFields(t *testing.T) {
	for _, p := range All {
		for _, f := range []Field{UploadTime, UserName, Text, Likes} {
			_, err := Posts.Column(p, f)
			assert.NoError(t, err, "%s %s", p, f)
		}
	}
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, Posts.IsPlaceholder(Instagram, "<<could not collect>>"))
	assert.True(t, Posts.IsPlaceholder(Facebook, "time not found"))
	assert.True(t, Posts.IsPlaceholder(TikTok, ""))
	assert.False(t, Posts.IsPlaceholder(Instagram, ""))
	assert.False(t, Posts.IsPlaceholder(TikTok, "<<could not collect>>"))
}

func TestTimeSettings(t *testing.T) {
	assert.Equal(t, -4*time.Hour, TimeOffset(TikTok))
	assert.Zero(t, TimeOffset(Instagram))
	assert.Equal(t, "2006-01-02T15:04:05", TimeLayout(TikTok))
	assert.Empty(t, TimeLayout(Any))
}
