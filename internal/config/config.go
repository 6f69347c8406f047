package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/resourcescan/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when no --config flag is given.
const DefaultPath = "resourcescan.yaml"

// Config represents the application configuration.
type Config struct {
	BaseURL  string        `yaml:"base_url,omitempty"`
	Output   string        `yaml:"output,omitempty"`   // Report path, "-" for stdout
	Format   string        `yaml:"format,omitempty"`   // json or yaml
	Scanner  string        `yaml:"scanner,omitempty"`  // pattern or token
	Markdown *bool         `yaml:"markdown,omitempty"` // nil means never
	History  HistoryConfig `yaml:"history,omitempty"`
	Metrics  MetricsConfig `yaml:"metrics,omitempty"`
	Batch    BatchConfig   `yaml:"batch,omitempty"`
	Watch    WatchConfig   `yaml:"watch,omitempty"`
	Notify   NotifyConfig  `yaml:"notify,omitempty"`
}

// HistoryConfig controls the SQLite run history.
type HistoryConfig struct {
	Path  string `yaml:"path,omitempty"` // Empty disables history
	Limit int    `yaml:"limit,omitempty"`
}

// MetricsConfig controls Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"` // Empty disables metrics
}

// NotifyConfig controls scan-completed events on NATS.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"` // Empty disables notifications
	Subject string `yaml:"subject,omitempty"`
}

// BatchConfig controls multi-document runs.
type BatchConfig struct {
	Workers int `yaml:"workers,omitempty"`
}

// WatchConfig controls re-scans on change.
type WatchConfig struct {
	Interval  time.Duration `yaml:"interval,omitempty"`  // Zero disables periodic rescans
	Debounce  time.Duration `yaml:"debounce,omitempty"`
	CacheSize int           `yaml:"cache_size,omitempty"`
}

// Load reads configuration from configPath. A missing file at the default path is not
// an error; the result then only carries environment overrides and defaults.
// Environment variables are expanded in the YAML content before decoding.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	cfg := &Config{}
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to parse configuration file").
				Fatal().WithContext("path", configPath).Build()
		}
	case os.IsNotExist(err) && configPath == DefaultPath:
		// Optional file.
	case os.IsNotExist(err):
		return nil, derrors.ConfigError("configuration file not found").WithContext("path", configPath).Build()
	default:
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to read configuration file").
			Fatal().WithContext("path", configPath).Build()
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "invalid environment override").Fatal().Build()
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "invalid configuration").Fatal().Build()
	}
	return cfg, nil
}

// RenderMarkdown reports whether inputs are rendered from Markdown before scanning.
// Rendering is opt-in; an unset value means never.
func (c *Config) RenderMarkdown() bool {
	return c.Markdown != nil && *c.Markdown
}
