package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry     *prom.Registry
	scanDuration *prom.HistogramVec
	documents    *prom.CounterVec
	links        *prom.CounterVec
	skipped      prom.Counter
	unresolved   prom.Counter
}

// NewPrometheusRecorder constructs the scan metrics and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		scanDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "resourcescan",
			Name:      "scan_duration_seconds",
			Help:      "Duration of scanning and classifying one document",
			Buckets:   prom.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"scanner"}),
		documents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "resourcescan",
			Name:      "documents_total",
			Help:      "Documents processed by outcome",
		}, []string{"result"}),
		links: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "resourcescan",
			Name:      "links_total",
			Help:      "Deduplicated resource links by category",
		}, []string{"category"}),
		skipped: prom.NewCounter(prom.CounterOpts{
			Namespace: "resourcescan",
			Name:      "occurrences_skipped_total",
			Help:      "Occurrences dropped as empty, in-page anchors or javascript: URLs",
		}),
		unresolved: prom.NewCounter(prom.CounterOpts{
			Namespace: "resourcescan",
			Name:      "occurrences_unresolved_total",
			Help:      "Occurrences kept verbatim because URL resolution failed",
		}),
	}
	reg.MustRegister(pr.scanDuration, pr.documents, pr.links, pr.skipped, pr.unresolved)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

func (p *PrometheusRecorder) ObserveScanDuration(scanner string, d time.Duration) {
	if p == nil {
		return
	}
	p.scanDuration.WithLabelValues(scanner).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncDocument(result ResultLabel) {
	if p == nil {
		return
	}
	p.documents.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) AddLinks(category string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.links.WithLabelValues(category).Add(float64(n))
}

func (p *PrometheusRecorder) AddSkipped(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.skipped.Add(float64(n))
}

func (p *PrometheusRecorder) AddUnresolved(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.unresolved.Add(float64(n))
}

// WriteTextfile writes the recorder's registry to path in the text exposition format.
// The write goes through a temporary file and a rename, as the textfile collector expects.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
