// Package scanner finds resource references (href and src attribute values) in raw
// markup, resolves them against a base URL and returns them deduplicated by resolved
// URL and sorted ascending.
//
// Two implementations share the filtering, resolution and ordering rules:
// PatternScanner matches attribute-bearing opening tags directly in the text, and
// TokenScanner walks the golang.org/x/net/html tokenizer.
package scanner
