// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/salesrace/pitwall/internal/modules/scoring"
	"github.com/salesrace/pitwall/internal/modules/workbook"
	"github.com/salesrace/pitwall/internal/utils"
)

// Config holds application configuration
type Config struct {
	Port             int
	LogLevel         string
	LogPretty        bool
	DevMode          bool
	CohortRosterPath string
	PrimaryWeight    float64 // Sales achievement share of the overall score
	SecondaryWeight  float64 // Apps achievement share of the overall score
	MaxUploadMB      int
	MaxDatasets      int // Stored ingestion results before the oldest is evicted
	CORSOrigins      []string
	Feed             *FeedConfig
}

// FeedConfig holds the scheduled workbook refresh configuration
type FeedConfig struct {
	Source   string // Local path or s3://bucket/key; empty disables the feed
	Sheet    string // Optional explicit sheet name
	Schedule string // Cron spec, seconds field optional
	S3       S3Config
}

// S3Config holds S3-compatible storage credentials (config package version)
type S3Config struct {
	Region          string
	Endpoint        string // e.g. R2 or MinIO endpoint; empty for AWS
	AccessKeyID     string
	SecretAccessKey string
}

// Enabled reports whether a feed source is configured.
func (c *FeedConfig) Enabled() bool {
	return c != nil && c.Source != ""
}

// ToWorkbookConfig converts config.S3Config to workbook.S3Config
func (c S3Config) ToWorkbookConfig() workbook.S3Config {
	return workbook.S3Config{
		Region:          c.Region,
		Endpoint:        c.Endpoint,
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
	}
}

// Weights returns the configured scoring weights.
func (c *Config) Weights() scoring.Weights {
	return scoring.Weights{Primary: c.PrimaryWeight, Secondary: c.SecondaryWeight}
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnvAsInt("PORT", 8080),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogPretty:        getEnvAsBool("LOG_PRETTY", true),
		DevMode:          getEnvAsBool("DEV_MODE", false),
		CohortRosterPath: getEnv("COHORT_ROSTER_PATH", "configs/cohorts.yaml"),
		PrimaryWeight:    getEnvAsFloat("SCORE_PRIMARY_WEIGHT", scoring.DefaultWeights.Primary),
		SecondaryWeight:  getEnvAsFloat("SCORE_SECONDARY_WEIGHT", scoring.DefaultWeights.Secondary),
		MaxUploadMB:      getEnvAsInt("MAX_UPLOAD_MB", 10),
		MaxDatasets:      getEnvAsInt("MAX_DATASETS", 32),
		CORSOrigins:      getEnvAsList("CORS_ORIGINS", []string{"*"}),
		Feed:             loadFeedConfig(),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if err := c.Weights().Validate(); err != nil {
		return fmt.Errorf("invalid score weights: %w", err)
	}
	if c.MaxUploadMB < 1 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	if c.MaxDatasets < 1 {
		return fmt.Errorf("MAX_DATASETS must be positive, got %d", c.MaxDatasets)
	}
	if c.Feed.Enabled() && c.Feed.Schedule == "" {
		return fmt.Errorf("FEED_SCHEDULE is required when FEED_SOURCE is set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	if values := utils.SplitList(os.Getenv(key)); len(values) > 0 {
		return values
	}
	return defaultValue
}

// loadFeedConfig loads the scheduled feed configuration
func loadFeedConfig() *FeedConfig {
	return &FeedConfig{
		Source:   getEnv("FEED_SOURCE", ""),
		Sheet:    getEnv("FEED_SHEET", ""),
		Schedule: getEnv("FEED_SCHEDULE", "@every 15m"),
		S3: S3Config{
			Region:          getEnv("S3_REGION", "auto"),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		},
	}
}
