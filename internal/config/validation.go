package config

import (
	"errors"
	"fmt"
)

// Validate checks enumerated values and numeric bounds.
func (c *Config) Validate() error {
	var errs []error

	switch c.Format {
	case "json", "yaml":
	default:
		errs = append(errs, fmt.Errorf("format: unsupported value %q (want json or yaml)", c.Format))
	}
	switch c.Scanner {
	case "pattern", "token":
	default:
		errs = append(errs, fmt.Errorf("scanner: unsupported value %q (want pattern or token)", c.Scanner))
	}
	if c.Batch.Workers < 1 {
		errs = append(errs, fmt.Errorf("batch.workers: must be at least 1, got %d", c.Batch.Workers))
	}
	if c.Watch.Interval < 0 {
		errs = append(errs, fmt.Errorf("watch.interval: must not be negative"))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce: must not be negative"))
	}
	if c.Watch.CacheSize < 1 {
		errs = append(errs, fmt.Errorf("watch.cache_size: must be at least 1, got %d", c.Watch.CacheSize))
	}
	if c.History.Limit < 1 {
		errs = append(errs, fmt.Errorf("history.limit: must be at least 1, got %d", c.History.Limit))
	}

	return errors.Join(errs...)
}
