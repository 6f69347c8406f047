package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/resourcescan/internal/audit"
	"git.home.luguber.info/inful/resourcescan/internal/config"
	"git.home.luguber.info/inful/resourcescan/internal/foundation/errors"
	"git.home.luguber.info/inful/resourcescan/internal/history"
	"git.home.luguber.info/inful/resourcescan/internal/logfields"
	"git.home.luguber.info/inful/resourcescan/internal/metrics"
	"git.home.luguber.info/inful/resourcescan/internal/notify"
	"git.home.luguber.info/inful/resourcescan/internal/report"
	"git.home.luguber.info/inful/resourcescan/internal/scanner"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"resourcescan.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Scan    ScanCmd    `cmd:"" help:"Extract and classify resource references from one document"`
	Batch   BatchCmd   `cmd:"" help:"Scan many documents into an output directory"`
	Watch   WatchCmd   `cmd:"" help:"Re-scan a document whenever it changes"`
	History HistoryCmd `cmd:"" help:"List recorded scan runs"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// ScanFlags are the pipeline settings shared by scan, batch and watch.
// Empty values fall back to the configuration file and environment.
type ScanFlags struct {
	BaseURL  string `name:"base-url" help:"Base URL that relative references resolve against"`
	Format   string `help:"Report format (json or yaml)"`
	Scanner  string `help:"Scanner implementation (pattern or token)"`
	Markdown string `help:"Render input from Markdown first (config, always or never)" enum:"config,always,never" default:"config"`
}

// loadConfig reads the configuration and layers flags on top.
func loadConfig(root *CLI, flags ScanFlags) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}

	if flags.BaseURL != "" {
		cfg.BaseURL = flags.BaseURL
	}
	if flags.Format != "" {
		cfg.Format = flags.Format
	}
	if flags.Scanner != "" {
		cfg.Scanner = flags.Scanner
	}
	switch flags.Markdown {
	case "always":
		on := true
		cfg.Markdown = &on
	case "never":
		off := false
		cfg.Markdown = &off
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid flags").Fatal().Build()
	}
	if cfg.BaseURL == "" {
		return nil, errors.ValidationError("a base URL is required (--base-url, base_url or RESOURCESCAN_BASE_URL)").Build()
	}
	return cfg, nil
}

// pipeline bundles an Auditor with the resources that must be released after use.
type pipeline struct {
	auditor  *audit.Auditor
	store    history.Store
	notifier notify.Notifier
	recorder *metrics.PrometheusRecorder
	textfile string
	logger   *slog.Logger
}

func newPipeline(cfg *config.Config, g *Global) (*pipeline, error) {
	logger := g.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sc, err := scanner.New(cfg.Scanner)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid scanner").Fatal().Build()
	}
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid report format").Fatal().Build()
	}

	p := &pipeline{logger: logger, textfile: cfg.Metrics.Textfile}
	opts := audit.Options{
		Scanner:  sc,
		Format:   format,
		Markdown: cfg.RenderMarkdown(),
		Stdout:   g.Stdout,
		Logger:   logger,
	}

	if cfg.Metrics.Textfile != "" {
		p.recorder = metrics.NewPrometheusRecorder(nil)
		opts.Recorder = p.recorder
	}
	if cfg.History.Path != "" {
		store, err := history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		p.store = store
		opts.History = store
	}

	if cfg.Notify.NATSURL != "" {
		n, err := notify.NewNATSNotifier(cfg.Notify.NATSURL, cfg.Notify.Subject)
		if err != nil {
			if p.store != nil {
				_ = p.store.Close()
			}
			return nil, errors.WrapError(err, errors.CategoryConfig, "connect to NATS").
				Fatal().
				WithContext("url", cfg.Notify.NATSURL).
				Build()
		}
		p.notifier = n
		opts.Notifier = n
	}

	p.auditor = audit.New(opts)
	return p, nil
}

// close flushes metrics and releases the history store.
func (p *pipeline) close() {
	if p.recorder != nil {
		if err := p.recorder.WriteTextfile(p.textfile); err != nil {
			p.logger.Warn("Failed to write metrics", logfields.Path(p.textfile), logfields.Error(err))
		}
	}
	if p.notifier != nil {
		p.notifier.Close()
	}
	if p.store != nil {
		if err := p.store.Close(); err != nil {
			p.logger.Warn("Failed to close history store", logfields.Error(err))
		}
	}
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
