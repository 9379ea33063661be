package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"search-analysis/models"
	"search-analysis/platform"
	"search-analysis/storage"
	"search-analysis/utils"
)

// IngestReport summarises one pipeline run.
type IngestReport struct {
	RunID        string
	Files        []FileReport
	FilesRead    int
	FilesSkipped int
	RowsRead     int
	RowsSkipped  int
	FromCache    bool
	Duration     time.Duration
}

// PipelineOptions tune a Pipeline. Zero values disable the optional parts.
type PipelineOptions struct {
	Workers int
	Year    int
}

// Pipeline composes ingestion, cleaning and trending grouping:
//
//	files -> per-file entries -> concatenation -> Clean -> GroupTrending
//
// Files are read in parallel; concatenation follows sorted path order.
type Pipeline struct {
	ingestor  *Ingestor
	cleaner   *Cleaner
	cache     storage.DatasetCache
	snapshots *storage.SnapshotStore
	metrics   utils.PipelineMetrics
	logger    *utils.Logger
	opts      PipelineOptions
}

func NewPipeline(
	ingestor *Ingestor,
	cleaner *Cleaner,
	cache storage.DatasetCache,
	snapshots *storage.SnapshotStore,
	metrics utils.PipelineMetrics,
	logger *utils.Logger,
	opts PipelineOptions,
) *Pipeline {
	return &Pipeline{
		ingestor:  ingestor,
		cleaner:   cleaner,
		cache:     cache,
		snapshots: snapshots,
		metrics:   metrics,
		logger:    logger,
		opts:      opts,
	}
}

// Run ingests files and returns the unified dataset. Single file failures are
// logged and counted; only cancellation is returned as an error.
func (p *Pipeline) Run(ctx context.Context, files []string, hint platform.Platform) (models.Dataset, *IngestReport, error) {
	start := time.Now()
	report := &IngestReport{RunID: uuid.NewString()}

	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	key, err := storage.FileSetKey(sorted, "year="+strconv.Itoa(p.opts.Year), "platform="+string(hint))
	if err != nil {
		p.logger.Warn("[pipeline] cache disabled for this run: %v", err)
		key = ""
	}
	if key != "" {
		if d, ok := p.lookup(key); ok {
			report.FromCache = true
			report.RowsRead = len(d)
			report.Duration = time.Since(start)
			p.logger.Info("[pipeline] %d files unchanged, reusing %d cached entries", len(sorted), len(d))
			return d, report, nil
		}
	}

	results := make([]models.Dataset, len(sorted))
	report.Files = make([]FileReport, len(sorted))
	pool := utils.NewWorkerPool(p.opts.Workers)
	for i, path := range sorted {
		pool.Submit(func() {
			if err := ctx.Err(); err != nil {
				report.Files[i] = FileReport{Path: path, Err: err}
				return
			}
			fileStart := time.Now()
			results[i], report.Files[i] = p.ingestor.IngestFile(path, hint)
			p.metrics.ObserveFileDuration(time.Since(fileStart))
		})
	}
	pool.Wait()
	if err := ctx.Err(); err != nil {
		return nil, report, fmt.Errorf("pipeline: %w", err)
	}

	var concat models.Dataset
	for i, fr := range report.Files {
		if fr.Err != nil {
			report.FilesSkipped++
			p.metrics.IncFilesSkipped(skipReason(fr.Err))
			p.logger.Warn("[pipeline] skipping %s: %v", fr.Path, fr.Err)
			continue
		}
		report.FilesRead++
		report.RowsRead += fr.Rows
		report.RowsSkipped += fr.Skipped
		p.metrics.IncFilesRead(string(fr.Platform))
		if fr.Skipped > 0 {
			p.metrics.AddRowsSkipped(string(fr.Platform), fr.Skipped)
		}
		concat = append(concat, results[i]...)
	}
	p.metrics.SetStageRows("ingest", len(concat))
	p.logger.Info("[pipeline] read %d/%d files, %d rows (%d malformed rows skipped)",
		report.FilesRead, len(sorted), report.RowsRead, report.RowsSkipped)

	cleaned := p.cleaner.Clean(concat)
	p.metrics.SetStageRows("clean", len(cleaned))

	dataset := GroupTrending(cleaned)
	p.metrics.SetStageRows("group", len(dataset))
	p.logger.Info("[pipeline] grouped trending times: %d → %d entries", len(cleaned), len(dataset))

	if key != "" {
		p.store(key, dataset)
	}
	report.Duration = time.Since(start)
	return dataset, report, nil
}

func (p *Pipeline) lookup(key string) (models.Dataset, bool) {
	if d, ok := p.cache.Get(key); ok {
		p.metrics.IncCacheHits()
		return d, true
	}
	p.metrics.IncCacheMisses()

	if p.snapshots == nil {
		return nil, false
	}
	d, ok, err := p.snapshots.Load(key)
	if err != nil {
		p.logger.Warn("[pipeline] snapshot unreadable, rebuilding: %v", err)
		return nil, false
	}
	if ok {
		if err := p.cache.Set(key, d); err != nil {
			p.logger.Debug("[pipeline] %v", err)
		}
	}
	return d, ok
}

func (p *Pipeline) store(key string, d models.Dataset) {
	if err := p.cache.Set(key, d); err != nil {
		p.logger.Debug("[pipeline] %v", err)
	}
	if p.snapshots == nil {
		return
	}
	if err := p.snapshots.Save(key, d); err != nil {
		p.logger.Warn("[pipeline] could not save snapshot: %v", err)
	}
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, ErrUnrecognizedFilename):
		return "filename"
	case errors.Is(err, platform.ErrUnknownPlatform):
		return "platform"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "read"
}

// GroupTrending collapses entries that differ only in trending time. Every
// remaining entry carries the sorted distinct trending times seen for its url
// across all files, and the earliest of them as FirstTrending.
func GroupTrending(d models.Dataset) models.Dataset {
	byURL := make(map[string]map[int64]time.Time)
	for _, e := range d {
		set, ok := byURL[e.URL()]
		if !ok {
			set = make(map[int64]time.Time)
			byURL[e.URL()] = set
		}
		for _, t := range e.TrendingTime {
			set[t.UnixNano()] = t
		}
	}

	lists := make(map[string][]time.Time, len(byURL))
	for url, set := range byURL {
		list := make([]time.Time, 0, len(set))
		for _, t := range set {
			list = append(list, t)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Before(list[j]) })
		lists[url] = list
	}

	seen := make(map[string]struct{}, len(d))
	out := make(models.Dataset, 0, len(d))
	for _, e := range d {
		bare := e
		bare.TrendingTime = nil
		bare.FirstTrending = time.Time{}
		k := bare.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}

		g := e.Clone()
		g.TrendingTime = append([]time.Time(nil), lists[e.URL()]...)
		g.FirstTrending = models.FirstTrendingOf(g.TrendingTime)
		out = append(out, g)
	}
	return out
}
