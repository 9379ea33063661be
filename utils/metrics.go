package utils

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PipelineMetrics records what happened during one ingestion run.
type PipelineMetrics interface {
	IncFilesRead(platform string)
	IncFilesSkipped(reason string)
	AddRowsSkipped(platform string, n int)
	ObserveFileDuration(duration time.Duration)
	SetStageRows(stage string, count int)
	IncCacheHits()
	IncCacheMisses()
	// WriteTextfile dumps every metric in the node-exporter textfile format.
	WriteTextfile(path string) error
}

type pipelineMetrics struct {
	registry     *prometheus.Registry
	filesRead    *prometheus.CounterVec
	filesSkipped *prometheus.CounterVec
	rowsSkipped  *prometheus.CounterVec
	fileDuration prometheus.Histogram
	stageRows    *prometheus.GaugeVec
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
}

// NewPipelineMetrics returns a Prometheus backed recorder on its own registry,
// or a no-op recorder when disabled.
func NewPipelineMetrics(enabled bool) PipelineMetrics {
	if !enabled {
		return &noopMetrics{}
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &pipelineMetrics{
		registry: reg,
		filesRead: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "search_analysis_files_read_total",
			Help: "Export files ingested, per platform",
		}, []string{"platform"}),

		filesSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "search_analysis_files_skipped_total",
			Help: "Export files skipped, per reason",
		}, []string{"reason"}),

		rowsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "search_analysis_rows_skipped_total",
			Help: "Malformed rows skipped, per platform",
		}, []string{"platform"}),

		fileDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "search_analysis_file_ingest_duration_seconds",
			Help:    "Time spent reading and normalizing one file",
			Buckets: prometheus.DefBuckets,
		}),

		stageRows: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "search_analysis_stage_rows",
			Help: "Rows remaining after each pipeline stage",
		}, []string{"stage"}),

		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "search_analysis_cache_hits_total",
			Help: "Dataset cache hits",
		}),

		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "search_analysis_cache_misses_total",
			Help: "Dataset cache misses",
		}),
	}
}

func (m *pipelineMetrics) IncFilesRead(platform string) {
	m.filesRead.WithLabelValues(platform).Inc()
}

func (m *pipelineMetrics) IncFilesSkipped(reason string) {
	m.filesSkipped.WithLabelValues(reason).Inc()
}

func (m *pipelineMetrics) AddRowsSkipped(platform string, n int) {
	m.rowsSkipped.WithLabelValues(platform).Add(float64(n))
}

func (m *pipelineMetrics) ObserveFileDuration(duration time.Duration) {
	m.fileDuration.Observe(duration.Seconds())
}

func (m *pipelineMetrics) SetStageRows(stage string, count int) {
	m.stageRows.WithLabelValues(stage).Set(float64(count))
}

func (m *pipelineMetrics) IncCacheHits()   { m.cacheHits.Inc() }
func (m *pipelineMetrics) IncCacheMisses() { m.cacheMisses.Inc() }

func (m *pipelineMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Gatherer())
}

// Gatherer exposes the private registry.
func (m *pipelineMetrics) Gatherer() prometheus.Gatherer { return m.registry }

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncFilesRead(_ string)               {}
func (n *noopMetrics) IncFilesSkipped(_ string)            {}
func (n *noopMetrics) AddRowsSkipped(_ string, _ int)      {}
func (n *noopMetrics) ObserveFileDuration(_ time.Duration) {}
func (n *noopMetrics) SetStageRows(_ string, _ int)        {}
func (n *noopMetrics) IncCacheHits()                       {}
func (n *noopMetrics) IncCacheMisses()                     {}
func (n *noopMetrics) WriteTextfile(_ string) error        { return nil }
