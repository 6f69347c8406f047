package config

import (
	"runtime"
	"time"
)

const (
	defaultFormat    = "json"
	defaultScanner   = "pattern"
	defaultDebounce  = 500 * time.Millisecond
	defaultCacheSize = 64
	defaultHistory   = 20
	defaultSubject   = "resourcescan.scans"
)

func applyDefaults(cfg *Config) {
	if cfg.Format == "" {
		cfg.Format = defaultFormat
	}
	if cfg.Scanner == "" {
		cfg.Scanner = defaultScanner
	}
	if cfg.Batch.Workers == 0 {
		cfg.Batch.Workers = min(runtime.NumCPU(), 8)
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = defaultDebounce
	}
	if cfg.Watch.CacheSize == 0 {
		cfg.Watch.CacheSize = defaultCacheSize
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = defaultSubject
	}
	if cfg.History.Limit == 0 {
		cfg.History.Limit = defaultHistory
	}
}
