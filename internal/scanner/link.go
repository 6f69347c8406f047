package scanner

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Link represents a single resource reference discovered in markup.
type Link struct {
	URL       string // Absolute URL, or the raw trimmed value when it could not be resolved
	Attribute string // href or src
	Tag       string // Lowercase name of the enclosing tag
}

// Stats counts what happened to the occurrences seen during a scan.
type Stats struct {
	Occurrences int // Tag/attribute matches before filtering
	Skipped     int // Empty values, in-page anchors and javascript: URLs
	Unresolved  int // Values kept verbatim because resolution failed
	Duplicates  int // Occurrences whose resolved URL was already seen
}

// Result is the outcome of scanning one document.
type Result struct {
	Links []Link
	Stats Stats
}

// Scanner extracts links from markup.
type Scanner interface {
	Name() string
	Scan(markup, baseURL string) Result
}

const (
	KindPattern = "pattern"
	KindToken   = "token"
)

// New returns the scanner registered under kind.
func New(kind string) (Scanner, error) {
	switch kind {
	case "", KindPattern:
		return PatternScanner{}, nil
	case KindToken:
		return TokenScanner{}, nil
	default:
		return nil, fmt.Errorf("unknown scanner %q (want %s or %s)", kind, KindPattern, KindToken)
	}
}

// ShouldSkip reports whether a trimmed attribute value carries no fetchable resource.
func ShouldSkip(value string) bool {
	if value == "" || strings.HasPrefix(value, "#") {
		return true
	}
	return len(value) >= len("javascript:") && strings.EqualFold(value[:len("javascript:")], "javascript:")
}

// collector applies the shared filter, resolve and dedup rules.
type collector struct {
	base   Reference
	baseOK bool
	links  map[string]Link
	stats  Stats
}

func newCollector(baseURL string) *collector {
	_, err := url.Parse(baseURL)
	return &collector{
		base:   SplitReference(baseURL),
		baseOK: err == nil,
		links:  make(map[string]Link),
	}
}

func (c *collector) resolve(value string) (string, bool) {
	if !c.baseOK {
		return value, false
	}
	return resolveAgainst(c.base, value)
}

func (c *collector) add(tag, attr, raw string) {
	c.stats.Occurrences++

	value := strings.TrimSpace(raw)
	if ShouldSkip(value) {
		c.stats.Skipped++
		return
	}

	resolved, ok := c.resolve(value)
	if !ok {
		c.stats.Unresolved++
	}
	if _, seen := c.links[resolved]; seen {
		c.stats.Duplicates++
	}
	// Last write wins for duplicate URLs.
	c.links[resolved] = Link{
		URL:       resolved,
		Attribute: strings.ToLower(attr),
		Tag:       strings.ToLower(tag),
	}
}

func (c *collector) result() Result {
	links := make([]Link, 0, len(c.links))
	for _, l := range c.links {
		links = append(links, l)
	}
	slices.SortFunc(links, func(a, b Link) int { return strings.Compare(a.URL, b.URL) })
	return Result{Links: links, Stats: c.stats}
}
