package scanner

import (
	"net/url"
	"regexp"
	"strings"
)

// referencePattern splits a URI reference into its components without decoding
// or re-encoding any of them.
var referencePattern = regexp.MustCompile(
	`(?s)^(?:([A-Za-z][A-Za-z0-9+.\-]*):)?(?://([^/?#]*))?([^?#]*)(?:\?([^#]*))?(?:#(.*))?$`,
)

// Reference is a URI reference split into its raw components.
type Reference struct {
	Scheme       string
	Authority    string
	Path         string
	Query        string
	Fragment     string
	HasAuthority bool
	HasQuery     bool
	HasFragment  bool
}

// SplitReference splits raw into components. Every string splits; the text is
// kept exactly as written.
func SplitReference(raw string) Reference {
	m := referencePattern.FindStringSubmatchIndex(raw)
	if m == nil {
		return Reference{Path: raw}
	}
	group := func(i int) (string, bool) {
		if m[2*i] < 0 {
			return "", false
		}
		return raw[m[2*i]:m[2*i+1]], true
	}

	var r Reference
	r.Scheme, _ = group(1)
	r.Authority, r.HasAuthority = group(2)
	r.Path, _ = group(3)
	r.Query, r.HasQuery = group(4)
	r.Fragment, r.HasFragment = group(5)
	return r
}

// IsAbs reports whether the reference carries a scheme.
func (r Reference) IsAbs() bool { return r.Scheme != "" }

// String recomposes the reference.
func (r Reference) String() string {
	var b strings.Builder
	if r.Scheme != "" {
		b.WriteString(r.Scheme)
		b.WriteByte(':')
	}
	if r.HasAuthority {
		b.WriteString("//")
		b.WriteString(r.Authority)
	}
	b.WriteString(r.Path)
	if r.HasQuery {
		b.WriteByte('?')
		b.WriteString(r.Query)
	}
	if r.HasFragment {
		b.WriteByte('#')
		b.WriteString(r.Fragment)
	}
	return b.String()
}

// Resolve resolves value against baseURL. It never fails: when either side is
// malformed, value is returned unchanged and ok is false.
//
// An absolute value is returned as written. Relative values are merged with the
// base on their raw text, so characters such as spaces or non-ASCII letters are
// never percent-encoded.
func Resolve(baseURL, value string) (resolved string, ok bool) {
	if _, err := url.Parse(baseURL); err != nil {
		return value, false
	}
	return resolveAgainst(SplitReference(baseURL), value)
}

func resolveAgainst(base Reference, value string) (string, bool) {
	if _, err := url.Parse(value); err != nil {
		return value, false
	}
	ref := SplitReference(value)
	if ref.IsAbs() {
		return value, true
	}

	target := Reference{
		Scheme:      base.Scheme,
		Fragment:    ref.Fragment,
		HasFragment: ref.HasFragment,
	}
	switch {
	case ref.HasAuthority:
		// Scheme-relative: only the scheme comes from the base.
		target.Authority, target.HasAuthority = ref.Authority, true
		target.Path = ref.Path
		target.Query, target.HasQuery = ref.Query, ref.HasQuery
	case ref.Path == "":
		target.Authority, target.HasAuthority = base.Authority, base.HasAuthority
		target.Path = base.Path
		if ref.HasQuery {
			target.Query, target.HasQuery = ref.Query, true
		} else {
			target.Query, target.HasQuery = base.Query, base.HasQuery
		}
	default:
		target.Authority, target.HasAuthority = base.Authority, base.HasAuthority
		if strings.HasPrefix(ref.Path, "/") {
			target.Path = removeDotSegments(ref.Path)
		} else {
			target.Path = removeDotSegments(mergePaths(base, ref.Path))
		}
		target.Query, target.HasQuery = ref.Query, ref.HasQuery
	}
	return target.String(), true
}

func mergePaths(base Reference, refPath string) string {
	if base.HasAuthority && base.Path == "" {
		return "/" + refPath
	}
	i := strings.LastIndexByte(base.Path, '/')
	return base.Path[:i+1] + refPath
}

// removeDotSegments interprets "." and ".." segments (RFC 3986 section 5.2.4).
func removeDotSegments(path string) string {
	in := path
	var out []string
	for in != "" {
		switch {
		case strings.HasPrefix(in, "../"):
			in = in[3:]
		case strings.HasPrefix(in, "./"):
			in = in[2:]
		case strings.HasPrefix(in, "/./"):
			in = in[2:]
		case in == "/.":
			in = "/"
		case strings.HasPrefix(in, "/../"):
			in = in[3:]
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		case in == "/..":
			in = "/"
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		case in == "." || in == "..":
			in = ""
		default:
			start := 0
			if in[0] == '/' {
				start = 1
			}
			end := strings.IndexByte(in[start:], '/')
			if end < 0 {
				end = len(in)
			} else {
				end += start
			}
			out = append(out, in[:end])
			in = in[end:]
		}
	}
	return strings.Join(out, "")
}
