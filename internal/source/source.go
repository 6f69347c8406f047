// Package source loads the markup document that gets scanned.
package source

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/encoding/unicode"

	"git.home.luguber.info/inful/resourcescan/internal/foundation/errors"
)

// Document is a fully buffered input document.
type Document struct {
	Path   string
	Markup string
	Raw    []byte // Bytes as read from disk, before decoding or rendering
}

// Options controls how a document is turned into markup.
type Options struct {
	// RenderMarkdown converts the body from Markdown to HTML before scanning.
	RenderMarkdown bool
}

// Load reads path fully into memory and decodes it as UTF-8, replacing invalid bytes
// with U+FFFD. Read failures are fatal filesystem errors; decoding never fails.
func Load(path string, opts Options) (*Document, error) {
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read input document").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return FromBytes(path, raw, opts)
}

// FromBytes builds a Document from bytes already in memory.
func FromBytes(path string, raw []byte, opts Options) (*Document, error) {
	decoded := DecodeUTF8(raw)

	if opts.RenderMarkdown {
		rendered, err := RenderMarkdown(decoded)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryInternal, "render markdown").
				WithContext("path", path).
				Build()
		}
		decoded = rendered
	}

	return &Document{Path: path, Markup: string(decoded), Raw: raw}, nil
}

// DecodeUTF8 returns raw as valid UTF-8, each invalid byte replaced by U+FFFD.
func DecodeUTF8(raw []byte) []byte {
	out, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		// The UTF-8 decoder replaces instead of failing; keep a defined result anyway.
		return bytes.ToValidUTF8(raw, []byte("�"))
	}
	return out
}

// RenderMarkdown converts a Markdown document to HTML. Raw HTML in the source is kept
// so embedded tags are scanned too. Leading YAML frontmatter is dropped.
func RenderMarkdown(src []byte) ([]byte, error) {
	md := goldmark.New(goldmark.WithRendererOptions(html.WithUnsafe()))

	var buf bytes.Buffer
	if err := md.Convert(stripFrontmatter(src), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// stripFrontmatter removes a leading `---` delimited block.
func stripFrontmatter(content []byte) []byte {
	nl := "\n"
	if bytes.Contains(content, []byte("\r\n")) {
		nl = "\r\n"
	}
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return content
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return rest[len(open):]
	}
	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		return content
	}
	return rest[idx+len(closeSeq):]
}
