package metrics

import "time"

// ResultLabel enumerates document scan outcomes for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// Recorder defines observability hooks for document scans.
type Recorder interface {
	ObserveScanDuration(scanner string, d time.Duration)
	IncDocument(result ResultLabel)
	AddLinks(category string, n int)
	AddSkipped(n int)
	AddUnresolved(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveScanDuration(string, time.Duration) {}
func (NoopRecorder) IncDocument(ResultLabel)                   {}
func (NoopRecorder) AddLinks(string, int)                      {}
func (NoopRecorder) AddSkipped(int)                            {}
func (NoopRecorder) AddUnresolved(int)                         {}
