package commands

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/resourcescan/internal/config"
	"git.home.luguber.info/inful/resourcescan/internal/foundation/errors"
	"git.home.luguber.info/inful/resourcescan/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Path  string `help:"History database (default: history.path from config)"`
	Limit int    `short:"n" help:"Number of runs to show (default: history.limit from config)"`
}

// Run executes the history command.
func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	path := h.Path
	if path == "" {
		path = cfg.History.Path
	}
	if path == "" {
		return errors.ValidationError("no history database configured (--path, history.path or RESOURCESCAN_HISTORY_PATH)").Build()
	}
	if _, err := os.Stat(path); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "history database not found").
			Fatal().
			WithContext("path", path).
			Build()
	}
	limit := cfg.History.Limit
	if h.Limit > 0 {
		limit = h.Limit
	}

	store, err := history.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if g.Stdout != nil {
		out = g.Stdout
	}
	return printRuns(out, runs)
}

func printRuns(w io.Writer, runs []history.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No scan runs recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CREATED\tSCAN ID\tSOURCE\tREVISION\tBASE URL\tLINKS\tBY TYPE")
	for _, r := range runs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.ScanID,
			r.Source,
			shortRevision(r.Revision),
			r.BaseURL,
			r.TotalLinks,
			formatCounts(r.ByTypeCounts))
	}
	return tw.Flush()
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(counts))
	for _, k := range slices.Sorted(maps.Keys(counts)) {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, ",")
}

func shortRevision(rev string) string {
	switch {
	case rev == "":
		return "-"
	case len(rev) > 12:
		return rev[:12]
	default:
		return rev
	}
}
