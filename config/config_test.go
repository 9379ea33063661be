package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"search-analysis/platform"
)

func TestFromEnvDefaults(t *testing.T) {
	conf, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "./data", conf.DataDir)
	assert.Equal(t, platform.Any, conf.PlatformFilter())
	assert.Equal(t, 2024, conf.CollectionYear)
	assert.Equal(t, 24, conf.FreshnessHours)
	assert.Equal(t, 10, conf.TopN)
	assert.Equal(t, 3, conf.MaxRetries)
	assert.True(t, conf.CacheEnabled)
	assert.False(t, conf.PostgresEnabled)
	assert.Equal(t, "info", conf.LogLevel)
	assert.GreaterOrEqual(t, conf.MaxConcurrency, 1)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/srv/exports")
	t.Setenv("PLATFORM", "tiktok")
	t.Setenv("INCLUDE_INTERMEDIATE", "true")
	t.Setenv("COLLECTION_YEAR", "2025")
	t.Setenv("FRESHNESS_HOURS", "48")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("LOG_LEVEL", "debug")

	conf, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/srv/exports", conf.DataDir)
	assert.Equal(t, platform.TikTok, conf.PlatformFilter())
	assert.True(t, conf.IncludeIntermediate)
	assert.Equal(t, 2025, conf.CollectionYear)
	assert.Equal(t, 48, conf.FreshnessHours)
	assert.False(t, conf.CacheEnabled)
	assert.Equal(t, "debug", conf.LogLevel)
	assert.Contains(t, conf.DSN(), "host=db ")
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PLATFORM", "twitter"},
		{"LOG_LEVEL", "verbose"},
		{"TOP_N", "0"},
		{"COLLECTION_YEAR", "1999"},
		{"MAX_CONCURRENCY", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestValidateCrossFieldRules(t *testing.T) {
	t.Setenv("INCLUDE_INTERMEDIATE", "true")
	_, err := FromEnv()
	assert.ErrorContains(t, err, "INCLUDE_INTERMEDIATE")

	t.Setenv("INCLUDE_INTERMEDIATE", "false")
	t.Setenv("METRICS_TEXTFILE", "/tmp/metrics.prom")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "METRICS_ENABLED")

	t.Setenv("METRICS_ENABLED", "true")
	_, err = FromEnv()
	assert.NoError(t, err)
}

func TestDSN(t *testing.T) {
	c := &Config{
		PostgresHost: "localhost", PostgresPort: "5432", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "d", PostgresSSLMode: "disable",
	}
	assert.Equal(t, "host=localhost port=5432 user=u password=p dbname=d sslmode=disable", c.DSN())
}
