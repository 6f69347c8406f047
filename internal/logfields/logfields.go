package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyScanID     = "scan_id"
	KeySource     = "source"
	KeyBaseURL    = "base_url"
	KeyOutput     = "output"
	KeyCategory   = "category"
	KeyLinks      = "links"
	KeyScanner    = "scanner"
	KeyPath       = "path"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
	KeyCount      = "count"
	KeySucceeded  = "succeeded"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func ScanID(id string) slog.Attr      { return slog.String(KeyScanID, id) }
func Source(path string) slog.Attr    { return slog.String(KeySource, path) }
func BaseURL(u string) slog.Attr      { return slog.String(KeyBaseURL, u) }
func Output(path string) slog.Attr    { return slog.String(KeyOutput, path) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func Links(n int) slog.Attr           { return slog.Int(KeyLinks, n) }
func Scanner(name string) slog.Attr   { return slog.String(KeyScanner, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Succeeded(n int) slog.Attr       { return slog.Int(KeySucceeded, n) }

// Duration converts d to milliseconds under KeyDurationMS.
func Duration(d time.Duration) slog.Attr {
	return DurationMS(float64(d.Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
