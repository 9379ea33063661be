package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"search-analysis/models"
	"search-analysis/platform"
	"search-analysis/storage"
	"search-analysis/utils"
)

const tiktokCSV = "id,createTime,author_nickname,author_uniqueId,videoDescription,diggCount,position\n"

func writeExport(t *testing.T, root, dir, name, content string) string {
	t.Helper()
	full := filepath.Join(root, dir)
	require.NoError(t, os.MkdirAll(full, 0o755))
	path := filepath.Join(full, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestPipeline(cache storage.DatasetCache, snapshots *storage.SnapshotStore) *Pipeline {
	logger := newTestLogger()
	if cache == nil {
		cache = storage.NewDatasetCache(false, 0, 0, nil)
	}
	return NewPipeline(
		NewIngestor(storage.NewCSVReader(), NewExtractor(2024), logger),
		NewCleaner(logger),
		cache,
		snapshots,
		utils.NewPipelineMetrics(false),
		logger,
		PipelineOptions{Workers: 2, Year: 2024},
	)
}

func TestPipelineGroupsTrendingTimesAcrossFiles(t *testing.T) {
	root := t.TempDir()
	line := "123,2024-07-01T12:00:00,Alice,alice,hello,1.5k,0\n"
	files := []string{
		writeExport(t, root, "trump_tiktok_trending@07-02-00_collected@07-03-00", "trump.csv", tiktokCSV+line),
		writeExport(t, root, "trump_tiktok_trending@07-01-00_collected@07-03-00", "trump.csv", tiktokCSV+line),
	}

	d, report, err := newTestPipeline(nil, nil).Run(context.Background(), files, "")
	require.NoError(t, err)
	require.Len(t, d, 1)

	e := d[0]
	assert.Equal(t, "https://www.tiktok.com/@alice/video/123", e.URL())
	assert.Equal(t, []time.Time{july1, july2}, e.TrendingTime)
	assert.Equal(t, july1, e.FirstTrending)
	assert.Equal(t, july3, e.CollectedTime)
	uploaded, _ := e.UploadTime()
	assert.Equal(t, time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC), uploaded)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, report.FilesRead)
	assert.Equal(t, 2, report.RowsRead)
	assert.False(t, report.FromCache)
}

func TestPipelineSkipsBadFilesAndRows(t *testing.T) {
	root := t.TempDir()
	files := []string{
		writeExport(t, root, "trump_tiktok_trending@07-01-00_collected@07-03-00", "trump.csv",
			tiktokCSV+"1,,A,a,x,1,0\n2,ragged\n"),
		writeExport(t, root, "misc", "notes.csv", "a,b\n1,2\n"),
	}

	d, report, err := newTestPipeline(nil, nil).Run(context.Background(), files, "")
	require.NoError(t, err)
	assert.Len(t, d, 1)
	assert.Equal(t, 1, report.FilesRead)
	assert.Equal(t, 1, report.FilesSkipped)
	assert.Equal(t, 1, report.RowsSkipped)

	var failed FileReport
	for _, fr := range report.Files {
		if fr.Err != nil {
			failed = fr
		}
	}
	assert.ErrorIs(t, failed.Err, ErrUnrecognizedFilename)
}

func TestPipelineOrderFollowsSortedPaths(t *testing.T) {
	root := t.TempDir()
	files := []string{
		writeExport(t, root, "b_tiktok_trending@07-01-00_collected@07-03-00", "b.csv", tiktokCSV+"2,,B,b,x,1,0\n"),
		writeExport(t, root, "a_tiktok_trending@07-01-00_collected@07-03-00", "a.csv", tiktokCSV+"1,,A,a,x,1,0\n"),
	}

	d, _, err := newTestPipeline(nil, nil).Run(context.Background(), files, "")
	require.NoError(t, err)
	require.Len(t, d, 2)
	assert.Equal(t, "a", d[0].SearchTerm)
	assert.Equal(t, "b", d[1].SearchTerm)
}

func TestPipelineReusesCachedDataset(t *testing.T) {
	root := t.TempDir()
	files := []string{
		writeExport(t, root, "trump_tiktok_trending@07-01-00_collected@07-03-00", "trump.csv", tiktokCSV+"1,,A,a,x,1,0\n"),
	}

	codec, err := storage.NewCodec()
	require.NoError(t, err)
	defer codec.Close()
	p := newTestPipeline(storage.NewDatasetCache(true, 8, 0, codec), nil)

	first, report, err := p.Run(context.Background(), files, "")
	require.NoError(t, err)
	assert.False(t, report.FromCache)

	second, report, err := p.Run(context.Background(), files, "")
	require.NoError(t, err)
	assert.True(t, report.FromCache)
	require.Len(t, second, len(first))
	assert.Equal(t, first[0].Key(), second[0].Key())
}

func TestPipelineFallsBackToSnapshot(t *testing.T) {
	root := t.TempDir()
	files := []string{
		writeExport(t, root, "trump_tiktok_trending@07-01-00_collected@07-03-00", "trump.csv", tiktokCSV+"1,,A,a,x,1,0\n"),
	}

	codec, err := storage.NewCodec()
	require.NoError(t, err)
	defer codec.Close()
	snapshots := storage.NewSnapshotStore(filepath.Join(root, "snapshot.zst"), codec)

	_, _, err = newTestPipeline(nil, snapshots).Run(context.Background(), files, "")
	require.NoError(t, err)

	d, report, err := newTestPipeline(nil, snapshots).Run(context.Background(), files, "")
	require.NoError(t, err)
	assert.True(t, report.FromCache)
	assert.Len(t, d, 1)
}

func TestPipelineCanceled(t *testing.T) {
	root := t.TempDir()
	files := []string{
		writeExport(t, root, "trump_tiktok_trending@07-01-00_collected@07-03-00", "trump.csv", tiktokCSV+"1,,A,a,x,1,0\n"),
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := newTestPipeline(nil, nil).Run(ctx, files, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGroupTrending(t *testing.T) {
	a1 := post(platform.TikTok, "trump", "https://t/a", "alice", 1)
	a1.TrendingTime = []time.Time{july2}
	a2 := a1.Clone()
	a2.TrendingTime = []time.Time{july1}
	a3 := post(platform.TikTok, "biden", "https://t/a", "alice", 1)
	a3.TrendingTime = []time.Time{july2}
	b := post(platform.YouTube, "trump", "https://y/b", "bob", 2)

	out := GroupTrending(models.Dataset{a1, a2, a3, b})
	require.Len(t, out, 3)
	assert.Equal(t, []time.Time{july1, july2}, out[0].TrendingTime)
	assert.Equal(t, july1, out[0].FirstTrending)
	assert.Equal(t, "biden", out[1].SearchTerm)
	assert.Equal(t, []time.Time{july1, july2}, out[1].TrendingTime)
	assert.Empty(t, out[2].TrendingTime)
	assert.Equal(t, models.UnknownTrending, out[2].FirstTrending)
}
