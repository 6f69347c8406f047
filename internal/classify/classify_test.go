package classify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/resourcescan/internal/scanner"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		url  string
		want Category
	}{
		{"https://example.com/a/b/c.css", CategoryCSS},
		{"https://cdn.example.com/app.js", CategoryJS},
		{"https://example.com/mod.MJS", CategoryJS},
		{"https://example.com/logo.SVG", CategoryImage},
		{"https://example.com/p.jpeg", CategoryImage},
		{"https://example.com/favicon.ico", CategoryImage},
		{"https://example.com/f.woff2", CategoryFont},
		{"https://example.com/f.woff", CategoryFont},
		{"https://example.com/f.eot", CategoryFont},
		{"https://example.com/data.json", CategoryJSON},
		{"https://example.com/feed.xml", CategoryXML},
		{"https://example.com/app.wasm", CategoryWasm},
		{"https://example.com/", CategoryOther},
		{"https://example.com/page.html", CategoryOther},
		{"mailto:someone@example.com", CategoryOther},
		{"", CategoryOther},
	}

	for _, tc := range cases {
		t.Run(tc.url, func(t *testing.T) {
			require.Equal(t, tc.want, Classify(tc.url))
		})
	}
}

func TestClassify_IgnoresQueryAndFragment(t *testing.T) {
	require.Equal(t, CategoryOther, Classify("https://example.com/page?file=style.css"))
	require.Equal(t, CategoryOther, Classify("https://example.com/page#x.js"))
	require.Equal(t, CategoryCSS, Classify("https://example.com/style.css?v=3#top"))
}

func TestClassify_RawPath(t *testing.T) {
	// The path is inspected as written; escapes are not decoded.
	require.Equal(t, CategoryOther, Classify("https://example.com/x%2Ecss"))
	require.Equal(t, CategoryImage, Classify("https://example.com/my photo.JPG"))
	// Opaque values expose everything after the scheme as the path.
	require.Equal(t, CategoryCSS, Classify("mailto:x.css"))
	require.Equal(t, CategoryJSON, Classify("urn:data.json"))
	// Parameters on the last segment are not part of the path for hierarchical schemes.
	require.Equal(t, CategoryCSS, Classify("https://example.com/a.css;v=1"))
	require.Equal(t, CategoryOther, Classify("https://example.com/a;x.css"))
	require.Equal(t, CategoryOther, Classify("urn:a;x.png;y"))
}

func TestClassify_UnparsableValues(t *testing.T) {
	// The scanner keeps malformed values verbatim; they still get exactly one category.
	require.Equal(t, CategoryImage, Classify("%zz.png"))
	require.Equal(t, CategoryOther, Classify("%zz?x.css"))
	require.Equal(t, CategoryOther, Classify("http://[::1"))
}

func TestClassify_Totality(t *testing.T) {
	valid := make(map[Category]bool)
	for _, c := range Categories() {
		valid[c] = true
	}
	require.Len(t, valid, 8)

	for _, u := range []string{"a.css", "b", "http://x/y.unknown", "%", "::", "?.png", "#.js"} {
		require.True(t, valid[Classify(u)], "unexpected category for %q", u)
	}
}

func TestGroup(t *testing.T) {
	links := []scanner.Link{
		{URL: "https://example.com/a.css", Attribute: "href", Tag: "link"},
		{URL: "https://example.com/a.html", Attribute: "href", Tag: "a"},
		{URL: "https://example.com/b.css", Attribute: "href", Tag: "link"},
		{URL: "https://example.com/c.png", Attribute: "src", Tag: "img"},
	}

	grouped := Group(links)
	require.Equal(t, []Category{CategoryCSS, CategoryImage, CategoryOther}, grouped.Keys())
	require.Equal(t, []scanner.Link{links[0], links[2]}, grouped[CategoryCSS])
	require.Equal(t, map[Category]int{CategoryCSS: 2, CategoryImage: 1, CategoryOther: 1}, grouped.Counts())
	require.Equal(t, len(links), grouped.Total())

	sum := 0
	for _, n := range grouped.Counts() {
		sum += n
	}
	require.Equal(t, len(links), sum)
}

func TestGroup_Empty(t *testing.T) {
	grouped := Group(nil)
	require.Empty(t, grouped.Keys())
	require.Empty(t, grouped.Counts())
	require.Zero(t, grouped.Total())
}
