package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables that override file values.
const (
	EnvBaseURL       = "RESOURCESCAN_BASE_URL"
	EnvOutput        = "RESOURCESCAN_OUTPUT"
	EnvFormat        = "RESOURCESCAN_FORMAT"
	EnvScanner       = "RESOURCESCAN_SCANNER"
	EnvMarkdown      = "RESOURCESCAN_MARKDOWN"
	EnvHistoryPath   = "RESOURCESCAN_HISTORY_PATH"
	EnvMetrics       = "RESOURCESCAN_METRICS_TEXTFILE"
	EnvBatchWorkers  = "RESOURCESCAN_BATCH_WORKERS"
	EnvWatchInterval = "RESOURCESCAN_WATCH_INTERVAL"
	EnvNATSURL       = "RESOURCESCAN_NATS_URL"
)

// envFiles are loaded in order. godotenv never overrides variables that are already set,
// so the process environment wins, then .env, then .env.local.
var envFiles = []string{".env", ".env.local"}

func loadEnvFiles() {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			fmt.Fprintf(os.Stderr, "Note: could not load %s: %v\n", f, err)
		}
	}
}

func applyEnvOverrides(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setString(EnvBaseURL, &cfg.BaseURL)
	setString(EnvOutput, &cfg.Output)
	setString(EnvFormat, &cfg.Format)
	setString(EnvScanner, &cfg.Scanner)
	setString(EnvHistoryPath, &cfg.History.Path)
	setString(EnvMetrics, &cfg.Metrics.Textfile)
	setString(EnvNATSURL, &cfg.Notify.NATSURL)

	if v := os.Getenv(EnvMarkdown); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMarkdown, err)
		}
		cfg.Markdown = &b
	}
	if v := os.Getenv(EnvBatchWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBatchWorkers, err)
		}
		cfg.Batch.Workers = n
	}
	if v := os.Getenv(EnvWatchInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWatchInterval, err)
		}
		cfg.Watch.Interval = d
	}
	return nil
}
