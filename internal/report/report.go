// Package report assembles and serializes the resource audit report.
package report

import (
	"git.home.luguber.info/inful/resourcescan/internal/classify"
	"git.home.luguber.info/inful/resourcescan/internal/scanner"
)

// Entry is the serialized form of a single link.
type Entry struct {
	URL  string `json:"url" yaml:"url"`
	Tag  string `json:"tag" yaml:"tag"`
	Attr string `json:"attr" yaml:"attr"`
}

// LinkSet holds the entries of one category, ordered by URL.
type LinkSet struct {
	Category classify.Category
	Entries  []Entry
}

// LinkSets is an ordered category -> entries mapping. Categories appear in the order
// their first link appears in the URL-sorted link list.
type LinkSets []LinkSet

// Get returns the entries for category c.
func (s LinkSets) Get(c classify.Category) ([]Entry, bool) {
	for _, set := range s {
		if set.Category == c {
			return set.Entries, true
		}
	}
	return nil, false
}

// Report is the complete audit of one document. It is built once and not mutated.
type Report struct {
	BaseURL      string         `json:"base_url" yaml:"base_url"`
	SourceHTML   string         `json:"source_html" yaml:"source_html"`
	TotalLinks   int            `json:"total_links" yaml:"total_links"`
	ByTypeCounts map[string]int `json:"by_type_counts" yaml:"by_type_counts"`
	Links        LinkSets       `json:"links" yaml:"links"`
}

// Build assembles a report from the scanner's deduplicated, URL-sorted links.
func Build(baseURL, sourcePath string, links []scanner.Link) *Report {
	grouped := classify.Group(links)

	counts := make(map[string]int, len(grouped))
	for c, n := range grouped.Counts() {
		counts[string(c)] = n
	}

	sets := make(LinkSets, 0, len(grouped))
	seen := make(map[classify.Category]bool, len(grouped))
	for _, l := range links {
		c := classify.Classify(l.URL)
		if seen[c] {
			continue
		}
		seen[c] = true

		bucket := grouped[c]
		entries := make([]Entry, 0, len(bucket))
		for _, bl := range bucket {
			entries = append(entries, Entry{URL: bl.URL, Tag: bl.Tag, Attr: bl.Attribute})
		}
		sets = append(sets, LinkSet{Category: c, Entries: entries})
	}

	return &Report{
		BaseURL:      baseURL,
		SourceHTML:   sourcePath,
		TotalLinks:   len(links),
		ByTypeCounts: counts,
		Links:        sets,
	}
}
