package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gookit/validate"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"search-analysis/platform"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataDir             string `mapstructure:"data_dir" validate:"required"`
	Platform            string `mapstructure:"platform" validate:"required|in:facebook,instagram,tiktok,youtube,all"`
	IncludeIntermediate bool   `mapstructure:"include_intermediate"`
	LabelsPath          string `mapstructure:"labels_path"`
	ApprovedQueriesPath string `mapstructure:"approved_queries_path"`

	CollectionYear int `mapstructure:"collection_year" validate:"required|min:2000|max:2100"`
	FreshnessHours int `mapstructure:"freshness_hours" validate:"required|min:1"`
	TopN           int `mapstructure:"top_n" validate:"required|min:1"`

	MaxConcurrency int `mapstructure:"max_concurrency" validate:"required|min:1"`
	MaxRetries     int `mapstructure:"max_retries" validate:"required|min:1"`

	CacheEnabled    bool   `mapstructure:"cache_enabled"`
	CacheSizeMB     int    `mapstructure:"cache_size_mb"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
	SnapshotPath    string `mapstructure:"snapshot_path"`

	CSVOutputPath string `mapstructure:"csv_output_path"`
	SQLitePath    string `mapstructure:"sqlite_path"`

	PostgresEnabled  bool   `mapstructure:"postgres_enabled"`
	PostgresReplace  bool   `mapstructure:"postgres_replace"`
	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresPort     string `mapstructure:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"`
	PostgresDB       string `mapstructure:"postgres_db"`
	PostgresSSLMode  string `mapstructure:"postgres_sslmode"`

	MetricsEnabled  bool   `mapstructure:"metrics_enabled"`
	MetricsTextfile string `mapstructure:"metrics_textfile"`

	LogLevel string `mapstructure:"log_level" validate:"required|in:debug,info,warn,error"`
}

var defaults = map[string]any{
	"data_dir":              "./data",
	"platform":              "all",
	"include_intermediate":  false,
	"labels_path":           "",
	"approved_queries_path": "",

	"collection_year": 2024,
	"freshness_hours": 24,
	"top_n":           10,

	"max_concurrency": runtime.NumCPU(),
	"max_retries":     3,

	"cache_enabled":     true,
	"cache_size_mb":     64,
	"cache_ttl_seconds": 0,
	"snapshot_path":     "./output/dataset.snapshot.zst",

	"csv_output_path": "./output/data.csv",
	"sqlite_path":     "",

	"postgres_enabled":  false,
	"postgres_replace":  false,
	"postgres_host":     "localhost",
	"postgres_port":     "5432",
	"postgres_user":     "analysis",
	"postgres_password": "analysis",
	"postgres_db":       "search_analysis",
	"postgres_sslmode":  "disable",

	"metrics_enabled":  false,
	"metrics_textfile": "",

	"log_level": "info",
}

// Load reads the .env file, then the environment, and returns a validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("[config] No .env file found, falling back to system env vars")
	}
	return FromEnv()
}

// FromEnv builds the Config from environment variables alone.
func FromEnv() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("config: unable to decode: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	v := validate.Struct(c)
	if !v.Validate() {
		return fmt.Errorf("config: %w", v.Errors)
	}
	if c.PlatformFilter() == platform.Any && c.IncludeIntermediate {
		return errors.New("config: INCLUDE_INTERMEDIATE cannot be combined with PLATFORM=all")
	}
	if c.MetricsTextfile != "" && !c.MetricsEnabled {
		return errors.New("config: METRICS_TEXTFILE needs METRICS_ENABLED=true")
	}
	return nil
}

// PlatformFilter is the parsed PLATFORM value.
func (c *Config) PlatformFilter() platform.Platform {
	p, err := platform.ParseFilter(c.Platform)
	if err != nil {
		return platform.Any
	}
	return p
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}
