package config

import (
	"os"
	"strconv"

	"progeval/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Data     DataConfig
}

// DatabaseConfig holds database connection settings. An empty URL disables
// the report archive.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	APIPort    string
	ViewerPort string
}

// DataConfig holds dataset loading settings
type DataConfig struct {
	File           string // CSV or XLSX input; empty means the built-in demo study
	GroupColumn    string
	PretestColumn  string
	PosttestColumn string
	FollowupColumn string
	Alpha          float64
}

// Load builds configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			APIPort:    envOr("API_PORT", "8080"),
			ViewerPort: envOr("VIEWER_PORT", "8081"),
		},
		Data: DataConfig{
			File:           os.Getenv("DATA_FILE"),
			GroupColumn:    envOr("GROUP_COLUMN", "group"),
			PretestColumn:  envOr("PRETEST_COLUMN", "pretest"),
			PosttestColumn: envOr("POSTTEST_COLUMN", "posttest"),
			FollowupColumn: envOr("FOLLOWUP_COLUMN", "followup"),
			Alpha:          0.05,
		},
	}

	if raw := os.Getenv("ALPHA"); raw != "" {
		alpha, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.ConfigInvalid("ALPHA must be a number: " + raw)
		}
		if alpha <= 0 || alpha >= 1 {
			return nil, errors.ConfigInvalid("ALPHA must be in (0, 1): " + raw)
		}
		cfg.Data.Alpha = alpha
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
