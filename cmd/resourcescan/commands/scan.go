package commands

import (
	"git.home.luguber.info/inful/resourcescan/internal/audit"
	"git.home.luguber.info/inful/resourcescan/internal/foundation/errors"
)

// ScanCmd implements the 'scan' command.
type ScanCmd struct {
	ScanFlags `embed:""`

	HTML string `name:"html" required:"" help:"Markup document to scan"`
	Out  string `short:"o" help:"Report path, '-' for stdout (default: output from config)"`
}

// Run executes the scan command.
func (s *ScanCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root, s.ScanFlags)
	if err != nil {
		return err
	}

	out := s.Out
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

	ctx, cancel := signalContext()
	defer cancel()

	_, err = p.auditor.Run(ctx, audit.Request{BaseURL: cfg.BaseURL, Input: s.HTML, Output: out})
	return err
}
