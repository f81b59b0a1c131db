package config

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "LOG_PRETTY", "DEV_MODE", "COHORT_ROSTER_PATH",
		"SCORE_PRIMARY_WEIGHT", "SCORE_SECONDARY_WEIGHT", "MAX_UPLOAD_MB", "MAX_DATASETS",
		"CORS_ORIGINS", "FEED_SOURCE", "FEED_SHEET", "FEED_SCHEDULE",
		"S3_REGION", "S3_ENDPOINT", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "configs/cohorts.yaml", cfg.CohortRosterPath)
	assert.Equal(t, 0.7, cfg.PrimaryWeight)
	assert.Equal(t, 0.3, cfg.SecondaryWeight)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes())
	assert.Equal(t, 32, cfg.MaxDatasets)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.Feed.Enabled())
	assert.Equal(t, "@every 15m", cfg.Feed.Schedule)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SCORE_PRIMARY_WEIGHT", "0.5")
	t.Setenv("SCORE_SECONDARY_WEIGHT", "0.5")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("FEED_SOURCE", "s3://bucket/sales.xlsx")
	t.Setenv("FEED_SCHEDULE", "0 */5 * * * *")
	t.Setenv("S3_ENDPOINT", "http://minio:9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 0.5, cfg.Weights().Primary)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.Feed.Enabled())
	assert.Equal(t, "http://minio:9000", cfg.Feed.S3.ToWorkbookConfig().Endpoint)
}

func TestLoad_UnparseableFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-number")
	t.Setenv("LOG_PRETTY", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.LogPretty)
}

func TestLoad_RejectsNaNWeight(t *testing.T) {
	clearEnv(t)
	t.Setenv("SCORE_PRIMARY_WEIGHT", "NaN")

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "score weights")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:            8080,
			PrimaryWeight:   0.7,
			SecondaryWeight: 0.3,
			MaxUploadMB:     1,
			MaxDatasets:     1,
			Feed:            &FeedConfig{Schedule: "@hourly"},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"valid", func(c *Config) {}, ""},
		{"port too high", func(c *Config) { c.Port = 70000 }, "PORT"},
		{"weights off", func(c *Config) { c.SecondaryWeight = 0.5 }, "score weights"},
		{"negative weight", func(c *Config) { c.PrimaryWeight = 1.3; c.SecondaryWeight = -0.3 }, "score weights"},
		{"nan weight", func(c *Config) { c.PrimaryWeight = math.NaN() }, "finite"},
		{"infinite weight", func(c *Config) { c.SecondaryWeight = math.Inf(1) }, "finite"},
		{"zero upload", func(c *Config) { c.MaxUploadMB = 0 }, "MAX_UPLOAD_MB"},
		{"zero datasets", func(c *Config) { c.MaxDatasets = 0 }, "MAX_DATASETS"},
		{"feed without schedule", func(c *Config) { c.Feed = &FeedConfig{Source: "x.xlsx"} }, "FEED_SCHEDULE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
