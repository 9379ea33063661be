package app

import (
	"context"
	"fmt"
	"time"

	"search-analysis/config"
	"search-analysis/models"
	"search-analysis/platform"
	"search-analysis/services"
	"search-analysis/storage"
	"search-analysis/utils"
)

// App runs one batch: discover exports, build the unified dataset, report on
// it and export it.
type App struct {
	cfg      *config.Config
	pipeline *services.Pipeline
	insights *services.InsightService
	metrics  utils.PipelineMetrics
	retry    *utils.RetryConfig
	logger   *utils.Logger
}

func New(
	cfg *config.Config,
	pipeline *services.Pipeline,
	insights *services.InsightService,
	metrics utils.PipelineMetrics,
	retry *utils.RetryConfig,
	logger *utils.Logger,
) *App {
	return &App{
		cfg:      cfg,
		pipeline: pipeline,
		insights: insights,
		metrics:  metrics,
		retry:    retry,
		logger:   logger,
	}
}

// Run executes the batch. Only failures that leave nothing to report, such as
// an unreadable data directory, are returned.
func (a *App) Run(ctx context.Context) (*models.InsightReport, error) {
	filter := a.cfg.PlatformFilter()
	a.logger.Info("=== Search result analysis starting ===")
	a.logger.Info("Config: data dir %s | platform: %s | concurrency: %d | year: %d",
		a.cfg.DataDir, filter, a.cfg.MaxConcurrency, a.cfg.CollectionYear)

	files, err := storage.FindFiles(a.cfg.DataDir, filter, a.cfg.IncludeIntermediate)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		a.logger.Warn("[app] No export files found under %s", a.cfg.DataDir)
	}

	var hint platform.Platform
	if filter.Valid() {
		hint = filter
	}
	dataset, ingest, err := a.pipeline.Run(ctx, files, hint)
	if err != nil {
		return nil, err
	}

	dataset = a.categorize(dataset)
	dataset = a.filterQueries(dataset)

	report := a.insights.Generate(ingest.RunID, dataset, a.cfg.TopN, float64(a.cfg.FreshnessHours))
	a.insights.Print(report)

	a.export(ctx, ingest.RunID, dataset)

	if a.cfg.MetricsTextfile != "" {
		if err := a.metrics.WriteTextfile(a.cfg.MetricsTextfile); err != nil {
			a.logger.Error("[app] Metrics textfile write failed: %v", err)
		} else {
			a.logger.Info("[app] Metrics written to %s", a.cfg.MetricsTextfile)
		}
	}

	fmt.Printf("  Done. %d files → %d rows in %s (run %s)\n\n",
		ingest.FilesRead, len(dataset), ingest.Duration.Round(time.Millisecond), ingest.RunID)
	return report, nil
}

func (a *App) categorize(d models.Dataset) models.Dataset {
	if a.cfg.LabelsPath == "" {
		return d
	}
	labels, err := storage.ReadLabels(a.cfg.LabelsPath)
	if err != nil {
		a.logger.Warn("[app] Skipping account categories: %v", err)
		return d
	}
	return services.NewCategorizer(labels, a.logger).Categorize(d)
}

func (a *App) filterQueries(d models.Dataset) models.Dataset {
	if a.cfg.ApprovedQueriesPath == "" {
		return d
	}
	approved, err := storage.ReadLines(a.cfg.ApprovedQueriesPath)
	if err != nil {
		a.logger.Warn("[app] Keeping every query: %v", err)
		return d
	}
	filtered := services.FilterQueries(d, approved)
	a.logger.Info("[app] Approved queries kept %d → %d rows (dropped %d)",
		len(d), len(filtered), len(d)-len(filtered))
	return filtered
}

type namedWriter struct {
	name   string
	writer storage.DatasetWriter
}

// export writes the dataset to every configured backend. A failing backend
// is logged and the others still run.
func (a *App) export(ctx context.Context, runID string, d models.Dataset) {
	for _, w := range a.openWriters(ctx) {
		if err := w.writer.Write(ctx, runID, d); err != nil {
			a.logger.Error("[app] %s write failed: %v", w.name, err)
		} else {
			a.logger.Info("[app] %d rows stored in %s", len(d), w.name)
		}
		if err := w.writer.Close(); err != nil {
			a.logger.Warn("[app] %s close: %v", w.name, err)
		}
	}
}

func (a *App) openWriters(ctx context.Context) []namedWriter {
	var writers []namedWriter

	if a.cfg.CSVOutputPath != "" {
		w, err := storage.NewCSVWriter(a.cfg.CSVOutputPath)
		if err != nil {
			a.logger.Error("[app] Failed to create CSV writer: %v", err)
		} else {
			writers = append(writers, namedWriter{name: "CSV " + a.cfg.CSVOutputPath, writer: w})
		}
	}

	if a.cfg.SQLitePath != "" {
		w, err := storage.NewSQLiteWriter(a.cfg.SQLitePath)
		if err != nil {
			a.logger.Error("[app] Failed to open SQLite: %v", err)
		} else {
			writers = append(writers, namedWriter{name: "SQLite " + a.cfg.SQLitePath, writer: w})
		}
	}

	if a.cfg.PostgresEnabled {
		w, err := storage.NewPostgresWriter(ctx, a.cfg.DSN(), a.retry, a.cfg.PostgresReplace)
		if err != nil {
			a.logger.Error("[app] Failed to connect to PostgreSQL: %v", err)
			a.logger.Error("[app] Make sure Docker is running: docker compose up -d")
		} else {
			writers = append(writers, namedWriter{name: "PostgreSQL (table: posts)", writer: w})
		}
	}

	return writers
}
