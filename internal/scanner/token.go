package scanner

import (
	"strings"

	"golang.org/x/net/html"
)

// TokenScanner walks the HTML tokenizer and reports every href and src attribute of
// start and self-closing tags. Attribute values arrive entity-decoded.
type TokenScanner struct{}

func (TokenScanner) Name() string { return KindToken }

// Scan implements Scanner.
func (TokenScanner) Scan(markup, baseURL string) Result {
	c := newCollector(baseURL)
	z := html.NewTokenizer(strings.NewReader(markup))

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF is the only error an in-memory reader can produce.
			return c.result()
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				switch string(key) {
				case "href", "src":
					c.add(tag, string(key), string(val))
				}
			}
		}
	}
}
