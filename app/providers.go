package app

import (
	"time"

	"github.com/google/wire"

	"search-analysis/config"
	"search-analysis/services"
	"search-analysis/storage"
	"search-analysis/utils"
)

// ProviderSet wires everything App needs from a loaded Config.
var ProviderSet = wire.NewSet(
	NewLogger,
	NewMetrics,
	NewCodec,
	NewCache,
	NewSnapshots,
	NewExtractor,
	NewPipelineOptions,
	NewRetry,
	storage.NewCSVReader,
	wire.Bind(new(storage.TableReader), new(*storage.CSVReader)),
	services.NewIngestor,
	services.NewCleaner,
	services.NewPipeline,
	services.NewInsightService,
	New,
)

// NewLogger builds the process logger at the configured level.
func NewLogger(cfg *config.Config) *utils.Logger {
	logger := utils.NewLogger()
	logger.SetLevel(cfg.LogLevel)
	return logger
}

func NewMetrics(cfg *config.Config) utils.PipelineMetrics {
	return utils.NewPipelineMetrics(cfg.MetricsEnabled)
}

// NewCodec returns the shared snapshot codec and its cleanup.
func NewCodec() (*storage.Codec, func(), error) {
	codec, err := storage.NewCodec()
	if err != nil {
		return nil, nil, err
	}
	return codec, codec.Close, nil
}

func NewCache(cfg *config.Config, codec *storage.Codec) storage.DatasetCache {
	return storage.NewDatasetCache(cfg.CacheEnabled, cfg.CacheSizeMB, cfg.CacheTTLSeconds, codec)
}

// NewSnapshots returns nil when no snapshot path is configured.
func NewSnapshots(cfg *config.Config, codec *storage.Codec) *storage.SnapshotStore {
	if cfg.SnapshotPath == "" {
		return nil
	}
	return storage.NewSnapshotStore(cfg.SnapshotPath, codec)
}

func NewExtractor(cfg *config.Config) *services.Extractor {
	return services.NewExtractor(cfg.CollectionYear)
}

func NewPipelineOptions(cfg *config.Config) services.PipelineOptions {
	return services.PipelineOptions{Workers: cfg.MaxConcurrency, Year: cfg.CollectionYear}
}

func NewRetry(cfg *config.Config, logger *utils.Logger) *utils.RetryConfig {
	return &utils.RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: time.Second, Logger: logger}
}
