package commands

import (
	"context"
	"time"

	"git.home.luguber.info/inful/resourcescan/internal/audit"
	"git.home.luguber.info/inful/resourcescan/internal/foundation/errors"
	"git.home.luguber.info/inful/resourcescan/internal/source"
	"git.home.luguber.info/inful/resourcescan/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	ScanFlags `embed:""`

	HTML     string `name:"html" required:"" help:"Markup document to watch"`
	Out      string `short:"o" help:"Report path, '-' for stdout (default: output from config)"`
	Interval string `help:"Also rescan on this interval, e.g. 5m (default: watch.interval from config)"`
}

// Run executes the watch command until interrupted.
func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root, w.ScanFlags)
	if err != nil {
		return err
	}
	if w.Interval != "" {
		d, err := parseInterval(w.Interval)
		if err != nil {
			return err
		}
		cfg.Watch.Interval = d
	}

	out := w.Out
	if out == "" {
		out = cfg.Output
	}
	if out == "" {
		return errors.ValidationError("an output path is required (--out, output or RESOURCESCAN_OUTPUT)").Build()
	}

	p, err := newPipeline(cfg, g)
	if err != nil {
		return err
	}
	defer p.close()

	scan := func(ctx context.Context, path string, raw []byte) error {
		doc, err := source.FromBytes(path, raw, p.auditor.LoadOptions())
		if err != nil {
			return err
		}
		_, err = p.auditor.RunDocument(ctx, audit.Request{BaseURL: cfg.BaseURL, Input: path, Output: out}, doc)
		return err
	}

	watcher, err := watch.New(w.HTML, scan, watch.Options{
		Debounce:  cfg.Watch.Debounce,
		Interval:  cfg.Watch.Interval,
		CacheSize: cfg.Watch.CacheSize,
		Logger:    p.logger,
	})
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "create watcher").Fatal().Build()
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := watcher.Run(ctx); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "watch input").
			Fatal().
			WithContext("path", w.HTML).
			Build()
	}
	return nil
}

func parseInterval(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return 0, errors.ValidationError("invalid --interval").
			WithCause(err).
			WithContext("value", value).
			Build()
	}
	return d, nil
}
