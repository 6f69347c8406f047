// Package classify buckets resolved resource URLs by the file extension of their path.
package classify

import (
	"slices"
	"strings"

	"git.home.luguber.info/inful/resourcescan/internal/scanner"
)

// Category is a resource-type label.
type Category string

const (
	CategoryCSS   Category = "css"
	CategoryJS    Category = "js"
	CategoryImage Category = "image"
	CategoryFont  Category = "font"
	CategoryJSON  Category = "json"
	CategoryXML   Category = "xml"
	CategoryWasm  Category = "wasm"
	CategoryOther Category = "other"
)

// rule maps a set of path suffixes to a category.
type rule struct {
	category Category
	suffixes []string
}

// rules are evaluated top-down; the first matching rule wins.
var rules = []rule{
	{CategoryCSS, []string{".css"}},
	{CategoryJS, []string{".js", ".mjs"}},
	{CategoryImage, []string{".png", ".jpg", ".jpeg", ".webp", ".svg", ".ico", ".gif"}},
	{CategoryFont, []string{".woff2", ".woff", ".ttf", ".otf", ".eot"}},
	{CategoryJSON, []string{".json"}},
	{CategoryXML, []string{".xml"}},
	{CategoryWasm, []string{".wasm"}},
}

// Categories returns every label in rule order, ending with CategoryOther.
func Categories() []Category {
	out := make([]Category, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.category)
	}
	return append(out, CategoryOther)
}

// Classify returns the category for rawURL. Only the path is inspected; query and
// fragment never influence the result. It never fails.
func Classify(rawURL string) Category {
	path := strings.ToLower(urlPath(rawURL))
	for _, r := range rules {
		for _, suffix := range r.suffixes {
			if strings.HasSuffix(path, suffix) {
				return r.category
			}
		}
	}
	return CategoryOther
}

// paramSchemes carry ";params" on the last path segment.
var paramSchemes = map[string]bool{
	"": true, "ftp": true, "hdl": true, "prospero": true, "http": true, "imap": true,
	"https": true, "shttp": true, "rtsp": true, "rtspu": true, "sip": true, "sips": true,
	"mms": true, "sftp": true, "tel": true,
}

// urlPath extracts the path component as written, without percent-decoding.
// Opaque values such as mailto:x.css yield the text after the scheme.
func urlPath(rawURL string) string {
	ref := scanner.SplitReference(rawURL)
	path := ref.Path
	if !paramSchemes[strings.ToLower(ref.Scheme)] {
		return path
	}
	last := strings.LastIndexByte(path, '/') + 1
	if i := strings.IndexByte(path[last:], ';'); i >= 0 {
		path = path[:last+i]
	}
	return path
}

// CategorizedLinks groups links by category. Only non-empty categories are present
// and each bucket keeps the order the links were supplied in.
type CategorizedLinks map[Category][]scanner.Link

// Group classifies each link in order and appends it to its category bucket.
func Group(links []scanner.Link) CategorizedLinks {
	grouped := make(CategorizedLinks)
	for _, l := range links {
		c := Classify(l.URL)
		grouped[c] = append(grouped[c], l)
	}
	return grouped
}

// Keys returns the non-empty categories sorted lexicographically.
func (c CategorizedLinks) Keys() []Category {
	keys := make([]Category, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Counts returns the size of each non-empty bucket.
func (c CategorizedLinks) Counts() map[Category]int {
	counts := make(map[Category]int, len(c))
	for k, v := range c {
		if len(v) > 0 {
			counts[k] = len(v)
		}
	}
	return counts
}

// Total returns the number of links across all buckets.
func (c CategorizedLinks) Total() int {
	n := 0
	for _, v := range c {
		n += len(v)
	}
	return n
}
