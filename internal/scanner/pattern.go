package scanner

import "regexp"

// attrPattern matches an opening tag followed, before any '>', by whitespace and an
// href or src attribute whose value is delimited by matching quotes. The quoted value
// may itself contain '>' and newlines.
var attrPattern = regexp.MustCompile(
	`(?i)<([a-zA-Z0-9:_-]+)\b[^>]*?\s(href|src)\s*=\s*(?:"([^"]*)"|'([^']*)')`,
)

const (
	groupTag = 1 + iota
	groupAttr
	groupDoubleQuoted
	groupSingleQuoted
)

// PatternScanner scans raw text without building a document tree. Matches do not
// overlap, so only the first href or src of a tag is reported.
type PatternScanner struct{}

func (PatternScanner) Name() string { return KindPattern }

// Scan implements Scanner.
func (PatternScanner) Scan(markup, baseURL string) Result {
	c := newCollector(baseURL)
	for _, m := range attrPattern.FindAllStringSubmatchIndex(markup, -1) {
		value := ""
		switch {
		case m[2*groupDoubleQuoted] >= 0:
			value = markup[m[2*groupDoubleQuoted]:m[2*groupDoubleQuoted+1]]
		case m[2*groupSingleQuoted] >= 0:
			value = markup[m[2*groupSingleQuoted]:m[2*groupSingleQuoted+1]]
		}
		c.add(
			markup[m[2*groupTag]:m[2*groupTag+1]],
			markup[m[2*groupAttr]:m[2*groupAttr+1]],
			value,
		)
	}
	return c.result()
}
