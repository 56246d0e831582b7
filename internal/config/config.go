package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                   string
	DBPath                 string
	LogLevel               string
	PolicyPresetsPath      string
	DefaultPreset          string
	MaintenanceAt          string
	JobWorkerCount         int
	JobQueueSize           int
	ReviewLogRetentionDays int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                   envOr("ADDR", ":8080"),
		DBPath:                 envOr("DB_PATH", "file:lingodeck.db"),
		LogLevel:               envOr("LOG_LEVEL", "INFO"),
		PolicyPresetsPath:      envOr("POLICY_PRESETS_PATH", ""),
		DefaultPreset:          envOr("DEFAULT_PRESET", "default"),
		MaintenanceAt:          envOr("MAINTENANCE_AT", "00:00"),
		JobWorkerCount:         envIntOr("JOB_WORKER_COUNT", 1),
		JobQueueSize:           envIntOr("JOB_QUEUE_SIZE", 16),
		ReviewLogRetentionDays: envIntOr("REVIEW_LOG_RETENTION_DAYS", 365),
	}
}

// Validate reports every invalid setting at once. LogLevel is normalised to
// upper case on success.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, "ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, "DB_PATH cannot be empty")
	}

	level := strings.ToUpper(strings.TrimSpace(c.LogLevel))
	switch level {
	case "DEBUG", "INFO", "WARN", "ERROR":
		c.LogLevel = level
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel))
	}

	if strings.TrimSpace(c.DefaultPreset) == "" {
		errs = append(errs, "DEFAULT_PRESET cannot be empty")
	}
	if _, err := time.Parse("15:04", c.MaintenanceAt); err != nil {
		errs = append(errs, fmt.Sprintf("MAINTENANCE_AT must be HH:MM, got %q", c.MaintenanceAt))
	}
	if c.JobWorkerCount < 1 {
		errs = append(errs, fmt.Sprintf("JOB_WORKER_COUNT must be at least 1, got %d", c.JobWorkerCount))
	}
	if c.JobQueueSize < 1 {
		errs = append(errs, fmt.Sprintf("JOB_QUEUE_SIZE must be at least 1, got %d", c.JobQueueSize))
	}
	if c.ReviewLogRetentionDays < 0 {
		errs = append(errs, fmt.Sprintf("REVIEW_LOG_RETENTION_DAYS cannot be negative, got %d", c.ReviewLogRetentionDays))
	}

	if len(errs) > 0 {
		return errors.New("invalid configuration: " + strings.Join(errs, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
