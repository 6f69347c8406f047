package commands

import (
	"git.home.luguber.info/inful/resourcescan/internal/foundation/errors"
	"git.home.luguber.info/inful/resourcescan/internal/logfields"
)

// BatchCmd implements the 'batch' command.
type BatchCmd struct {
	ScanFlags `embed:""`

	OutDir  string   `name:"out-dir" required:"" help:"Directory receiving one report per input"`
	Workers int      `short:"j" help:"Maximum parallel scans (default: batch.workers from config)"`
	Inputs  []string `arg:"" name:"input" help:"Markup documents to scan"`
}

// Run executes the batch command.
func (b *BatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root, b.ScanFlags)
	if err != nil {
		return err
	}
	workers := cfg.Batch.Workers
	if b.Workers != 0 {
		if b.Workers < 0 {
			return errors.ValidationError("--workers must be positive").Build()
		}
		workers = b.Workers
	}

	p, err := newPipeline(cfg, g)
	if err != nil {
		return err
	}
	defer p.close()

	ctx, cancel := signalContext()
	defer cancel()

	results, err := p.auditor.Batch(ctx, cfg.BaseURL, b.OutDir, b.Inputs, workers)
	succeeded := 0
	for _, res := range results {
		if res.Err == nil {
			succeeded++
		}
	}
	p.logger.Info("Batch finished",
		logfields.Output(b.OutDir),
		logfields.Count(len(results)),
		logfields.Succeeded(succeeded))
	return err
}
