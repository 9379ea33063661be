package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetricsWhenDisabled(t *testing.T) {
	m := NewPipelineMetrics(false)
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	m.IncFilesRead("tiktok")
	m.IncFilesSkipped("filename")
	m.AddRowsSkipped("tiktok", 2)
	m.ObserveFileDuration(time.Millisecond)
	m.SetStageRows("clean", 10)
	m.IncCacheHits()
	m.IncCacheMisses()
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestPipelineMetricsCounters(t *testing.T) {
	m := NewPipelineMetrics(true).(*pipelineMetrics)

	m.IncFilesRead("tiktok")
	m.IncFilesRead("tiktok")
	m.AddRowsSkipped("youtube", 3)
	m.SetStageRows("ingest", 42)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.filesRead.WithLabelValues("tiktok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.rowsSkipped.WithLabelValues("youtube")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.stageRows.WithLabelValues("ingest")))

	n, err := testutil.GatherAndCount(m.Gatherer(), "search_analysis_files_read_total", "search_analysis_rows_skipped_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPipelineMetricsIsolatedRegistries(t *testing.T) {
	a := NewPipelineMetrics(true).(*pipelineMetrics)
	b := NewPipelineMetrics(true).(*pipelineMetrics)

	a.IncCacheHits()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.cacheHits))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.cacheHits))
}

func TestPipelineMetricsTextfile(t *testing.T) {
	m := NewPipelineMetrics(true)
	m.IncFilesSkipped("filename")

	path := filepath.Join(t.TempDir(), "pipeline.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `search_analysis_files_skipped_total{reason="filename"} 1`)
}
