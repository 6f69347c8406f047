package audit

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/resourcescan/internal/foundation/errors"
	"git.home.luguber.info/inful/resourcescan/internal/history"
	"git.home.luguber.info/inful/resourcescan/internal/logfields"
	"git.home.luguber.info/inful/resourcescan/internal/metrics"
	"git.home.luguber.info/inful/resourcescan/internal/notify"
	"git.home.luguber.info/inful/resourcescan/internal/report"
	"git.home.luguber.info/inful/resourcescan/internal/revision"
	"git.home.luguber.info/inful/resourcescan/internal/scanner"
	"git.home.luguber.info/inful/resourcescan/internal/source"
)

// StdoutPath selects standard output as the report destination.
const StdoutPath = "-"

// Request names one document to audit.
type Request struct {
	BaseURL string
	Input   string
	Output  string
}

// Outcome describes a completed run.
type Outcome struct {
	ScanID   string
	Report   *report.Report
	Encoded  []byte
	Stats    scanner.Stats
	Duration time.Duration
}

// Options configures an Auditor. Zero values pick defaults.
type Options struct {
	Scanner  scanner.Scanner
	Format   report.Format
	Markdown bool // render every input from Markdown before scanning
	Recorder metrics.Recorder
	History  history.Store
	Notifier notify.Notifier
	Stdout   io.Writer
	Logger   *slog.Logger
}

// Auditor runs the pipeline with a fixed configuration.
type Auditor struct {
	scanner  scanner.Scanner
	format   report.Format
	markdown bool
	recorder metrics.Recorder
	history  history.Store
	notifier notify.Notifier
	stdout   io.Writer
	logger   *slog.Logger
	newID    func() string
}

// New creates an Auditor.
func New(opts Options) *Auditor {
	a := &Auditor{
		scanner:  opts.Scanner,
		format:   opts.Format,
		markdown: opts.Markdown,
		recorder: opts.Recorder,
		history:  opts.History,
		notifier: opts.Notifier,
		stdout:   opts.Stdout,
		logger:   opts.Logger,
		newID:    uuid.NewString,
	}
	if a.scanner == nil {
		a.scanner = scanner.PatternScanner{}
	}
	if a.format == "" {
		a.format = report.FormatJSON
	}
	if a.recorder == nil {
		a.recorder = metrics.NoopRecorder{}
	}
	if a.stdout == nil {
		a.stdout = os.Stdout
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Format returns the report encoding used by this Auditor.
func (a *Auditor) Format() report.Format { return a.format }

// Run loads req.Input from disk and audits it.
func (a *Auditor) Run(ctx context.Context, req Request) (*Outcome, error) {
	doc, err := source.Load(req.Input, a.LoadOptions())
	if err != nil {
		a.recorder.IncDocument(metrics.ResultFailed)
		return nil, err
	}
	return a.RunDocument(ctx, req, doc)
}

// RunDocument audits a document that is already in memory. The report is fully
// encoded before anything is written, so a failure never leaves a partial report.
func (a *Auditor) RunDocument(ctx context.Context, req Request, doc *source.Document) (*Outcome, error) {
	scanID := a.newID()
	log := a.logger.With(logfields.ScanID(scanID), logfields.Source(req.Input))
	log.Debug("Scan started", logfields.BaseURL(req.BaseURL), logfields.Scanner(a.scanner.Name()))

	if err := ctx.Err(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "scan cancelled").Build()
	}

	start := time.Now()
	result := a.scanner.Scan(doc.Markup, req.BaseURL)
	rep := report.Build(req.BaseURL, req.Input, result.Links)
	elapsed := time.Since(start)

	encoded, err := report.Encode(rep, a.format)
	if err != nil {
		a.recorder.IncDocument(metrics.ResultFailed)
		return nil, errors.WrapError(err, errors.CategoryInternal, "encode report").
			WithContext("scan_id", scanID).
			Build()
	}

	if err := a.write(req.Output, encoded); err != nil {
		a.recorder.IncDocument(metrics.ResultFailed)
		log.Error("Report write failed", logfields.Output(req.Output), logfields.Error(err))
		return nil, err
	}

	a.record(rep, result.Stats, elapsed)
	log.Info("Scan complete",
		logfields.Output(req.Output),
		logfields.Links(rep.TotalLinks),
		logfields.Duration(elapsed))
	for _, set := range rep.Links {
		log.Debug("Category", logfields.Category(string(set.Category)), logfields.Links(len(set.Entries)))
	}

	if a.history != nil {
		rev, err := revision.Of(req.Input)
		if err != nil {
			log.Debug("Source revision unavailable", logfields.Error(err))
		}
		run := history.Run{
			ScanID:       scanID,
			Source:       rep.SourceHTML,
			BaseURL:      rep.BaseURL,
			Revision:     rev,
			TotalLinks:   rep.TotalLinks,
			ByTypeCounts: rep.ByTypeCounts,
		}
		if err := a.history.Append(ctx, run); err != nil {
			return nil, err
		}
	}

	if a.notifier != nil {
		event := &notify.ScanCompletedEvent{
			ScanID:       scanID,
			Source:       rep.SourceHTML,
			BaseURL:      rep.BaseURL,
			Output:       req.Output,
			TotalLinks:   rep.TotalLinks,
			ByTypeCounts: rep.ByTypeCounts,
		}
		if err := a.notifier.Publish(ctx, event); err != nil {
			log.Warn("Failed to publish scan event", logfields.Error(err))
		}
	}

	return &Outcome{
		ScanID:   scanID,
		Report:   rep,
		Encoded:  encoded,
		Stats:    result.Stats,
		Duration: elapsed,
	}, nil
}

// LoadOptions returns the source options this Auditor applies to every input.
// Inputs are scanned raw unless Markdown rendering was requested.
func (a *Auditor) LoadOptions() source.Options {
	return source.Options{RenderMarkdown: a.markdown}
}

func (a *Auditor) write(output string, data []byte) error {
	if output == "" || output == StdoutPath {
		return report.Write(a.stdout, data)
	}
	return report.WriteFile(output, data)
}

func (a *Auditor) record(rep *report.Report, stats scanner.Stats, elapsed time.Duration) {
	a.recorder.IncDocument(metrics.ResultSuccess)
	a.recorder.ObserveScanDuration(a.scanner.Name(), elapsed)
	a.recorder.AddSkipped(stats.Skipped)
	a.recorder.AddUnresolved(stats.Unresolved)
	for category, n := range rep.ByTypeCounts {
		a.recorder.AddLinks(category, n)
	}
}
