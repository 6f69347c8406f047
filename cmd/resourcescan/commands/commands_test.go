package commands

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/resourcescan/internal/foundation/errors"
	"git.home.luguber.info/inful/resourcescan/internal/history"
)

const page = `<link href="style.css"><script src="/js/app.js"></script><img src="logo.png">`

// run parses args against a fresh CLI and executes the selected command in dir.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(dir)

	var stdout bytes.Buffer
	cli := &CLI{}
	global := &Global{
		Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		Stdout: &stdout,
	}
	parser, err := kong.New(cli,
		kong.Name("resourcescan"),
		kong.Vars{"version": "test"},
		kong.Bind(global, cli),
		kong.Exit(func(int) { t.Fatalf("unexpected exit for %v", args) }),
	)
	require.NoError(t, err)

	kctx, err := parser.Parse(args)
	require.NoError(t, err)
	err = kctx.Run()
	return stdout.String(), err
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestScan_WritesJSONReport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), page)

	_, err := run(t, dir, "scan", "--base-url", "https://example.com/site/", "--html", "index.html", "--out", "reports/index.json")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "reports", "index.json"))
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(data), "}\n"))

	var decoded struct {
		BaseURL      string         `json:"base_url"`
		SourceHTML   string         `json:"source_html"`
		TotalLinks   int            `json:"total_links"`
		ByTypeCounts map[string]int `json:"by_type_counts"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "https://example.com/site/", decoded.BaseURL)
	require.Equal(t, "index.html", filepath.Base(decoded.SourceHTML))
	require.Equal(t, 3, decoded.TotalLinks)
	require.Equal(t, map[string]int{"css": 1, "image": 1, "js": 1}, decoded.ByTypeCounts)
}

func TestScan_StdoutYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), page)

	out, err := run(t, dir, "scan", "--base-url", "https://example.com/", "--html", "index.html", "--out", "-", "--format", "yaml")
	require.NoError(t, err)
	require.Contains(t, out, "total_links: 3")
	require.Contains(t, out, "url: https://example.com/js/app.js")
}

func TestScan_MarkdownRenderingIsOptIn(t *testing.T) {
	const fenced = "```html\n<script src=\"app.js\"></script>\n```\n"

	cases := []struct {
		name   string
		config string
		flags  []string
		want   string
	}{
		{"raw by default", "", nil, "total_links: 1"},
		{"flag renders", "", []string{"--markdown", "always"}, "total_links: 0"},
		{"config renders", "markdown: true\n", nil, "total_links: 0"},
		{"flag overrides config", "markdown: true\n", []string{"--markdown", "never"}, "total_links: 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "notes.md"), fenced)
			if tc.config != "" {
				writeFile(t, filepath.Join(dir, "resourcescan.yaml"), tc.config)
			}

			args := append([]string{"scan", "--base-url", "https://example.com/", "--html", "notes.md", "--out", "-", "--format", "yaml"}, tc.flags...)
			out, err := run(t, dir, args...)
			require.NoError(t, err)
			require.Contains(t, out, tc.want)
		})
	}
}

func TestScan_EchoesSourcePathAsGiven(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "site", "page.html"), page)
	work := filepath.Join(dir, "work")
	require.NoError(t, os.MkdirAll(work, 0o750))

	out, err := run(t, work, "scan", "--base-url", "https://example.com/", "--html", "../site/./page.html", "--out", "-")
	require.NoError(t, err)
	require.Contains(t, out, `"source_html": "../site/./page.html"`)
}

func TestScan_ConfigSuppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), page)
	writeFile(t, filepath.Join(dir, "resourcescan.yaml"), "base_url: https://cdn.example.net/\noutput: out.json\nscanner: token\n")

	_, err := run(t, dir, "scan", "--html", "index.html")
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "out.json"))
	require.NoError(t, err)
	require.Contains(t, string(data), "https://cdn.example.net/style.css")
}

func TestScan_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		category errors.ErrorCategory
	}{
		{"missing base url", []string{"scan", "--html", "index.html", "--out", "r.json"}, errors.CategoryValidation},
		{"missing output", []string{"scan", "--base-url", "https://e.com/", "--html", "index.html"}, errors.CategoryValidation},
		{"unknown format", []string{"scan", "--base-url", "https://e.com/", "--html", "index.html", "--out", "r.json", "--format", "xml"}, errors.CategoryValidation},
		{"missing input", []string{"scan", "--base-url", "https://e.com/", "--html", "missing.html", "--out", "r.json"}, errors.CategoryFileSystem},
		{"explicit config missing", []string{"--config", "nope.yaml", "scan", "--base-url", "https://e.com/", "--html", "index.html", "--out", "r.json"}, errors.CategoryConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "index.html"), page)

			_, err := run(t, dir, tt.args...)
			require.Error(t, err)
			require.True(t, errors.HasCategory(err, tt.category), "got %v", err)
			require.NoFileExists(t, filepath.Join(dir, "r.json"))
		})
	}
}

func TestScan_RecordsHistoryAndMetrics(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), page)
	writeFile(t, filepath.Join(dir, "resourcescan.yaml"), "history:\n  path: runs.db\nmetrics:\n  textfile: scan.prom\n")

	_, err := run(t, dir, "scan", "--base-url", "https://example.com/", "--html", "index.html", "--out", "r.json")
	require.NoError(t, err)

	metrics, err := os.ReadFile(filepath.Join(dir, "scan.prom"))
	require.NoError(t, err)
	require.Contains(t, string(metrics), `resourcescan_documents_total{result="success"} 1`)

	out, err := run(t, dir, "history")
	require.NoError(t, err)
	require.Contains(t, out, "index.html")
	require.Contains(t, out, "css=1,image=1,js=1")
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.html"), `<img src="a.png">`)
	writeFile(t, filepath.Join(dir, "b.html"), `<link href="b.css">`)

	_, err := run(t, dir, "batch", "--base-url", "https://example.com/", "--out-dir", "out", "-j", "2", "a.html", "b.html")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "out", "a.json"))
	require.FileExists(t, filepath.Join(dir, "out", "b.json"))
}

func TestBatch_FailsOnMissingInput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.html"), `<img src="a.png">`)

	_, err := run(t, dir, "batch", "--base-url", "https://example.com/", "--out-dir", "out", "missing.html", "a.html")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestHistory_Errors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		_, err := run(t, t.TempDir(), "history")
		require.True(t, errors.HasCategory(err, errors.CategoryValidation))
	})

	t.Run("database missing", func(t *testing.T) {
		_, err := run(t, t.TempDir(), "history", "--path", "absent.db")
		require.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
	})
}

func TestHistory_Empty(t *testing.T) {
	dir := t.TempDir()
	store, err := history.NewSQLiteStore(filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	out, err := run(t, dir, "history", "--path", "runs.db")
	require.NoError(t, err)
	require.Equal(t, "No scan runs recorded.\n", out)
}

func TestFormatCounts(t *testing.T) {
	require.Equal(t, "-", formatCounts(nil))
	require.Equal(t, "css=2,js=1", formatCounts(map[string]int{"js": 1, "css": 2}))
}

func TestPrintRuns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRuns(&buf, []history.Run{{
		ScanID:       "abc",
		Source:       "index.html",
		BaseURL:      "https://example.com/",
		TotalLinks:   2,
		ByTypeCounts: map[string]int{"css": 2},
		CreatedAt:    time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
	}}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "SCAN ID")
	require.Contains(t, lines[1], "2026-05-01T08:00:00Z")
	require.Contains(t, lines[1], "css=2")
}

func TestParseInterval(t *testing.T) {
	d, err := parseInterval("90s")
	require.NoError(t, err)
	require.Equal(t, 90*time.Second, d)

	_, err = parseInterval("soon")
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))

	_, err = parseInterval("-1m")
	require.Error(t, err)
}
