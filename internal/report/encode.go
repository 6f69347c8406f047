package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/resourcescan/internal/classify"
)

// Format names a serialization of the report.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Extension returns the file extension used for f, including the dot.
func (f Format) Extension() string {
	if f == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

// ParseFormat validates a format name. The empty string selects JSON.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want json or yaml)", name)
	}
}

// Encode serializes r in full. The output always ends with a newline.
func Encode(r *Report, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return encodeJSON(r)
	case FormatYAML:
		return encodeYAML(r)
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// encodeJSON writes two-space indented JSON with non-ASCII and HTML characters left as is.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return unescapeLineSeparators(buf.Bytes()), nil
}

// unescapeLineSeparators writes U+2028 and U+2029 as raw characters. encoding/json
// always escapes them, even with HTML escaping disabled.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' {
			out = append(out, data[i])
			continue
		}
		// Other escapes are copied whole.
		if i+5 < len(data) && data[i+1] == 'u' && string(data[i+2:i+5]) == "202" && (data[i+5] == '8' || data[i+5] == '9') {
			if data[i+5] == '8' {
				out = append(out, "\u2028"...)
			} else {
				out = append(out, "\u2029"...)
			}
			i += 5
			continue
		}
		out = append(out, data[i])
		if i+1 < len(data) {
			out = append(out, data[i+1])
			i++
		}
	}
	return out
}

func encodeYAML(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON writes the sets as a JSON object preserving their order.
func (s LinkSets) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, set := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := compactJSON(string(set.Category))
		if err != nil {
			return nil, err
		}
		entries := set.Entries
		if entries == nil {
			entries = []Entry{}
		}
		val, err := compactJSON(entries)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// compactJSON marshals v without HTML escaping; json.Marshal would escape '&', '<' and '>'.
func compactJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalYAML emits the sets as a mapping node preserving their order.
func (s LinkSets) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, set := range s {
		var val yaml.Node
		entries := set.Entries
		if entries == nil {
			entries = []Entry{}
		}
		if err := val.Encode(entries); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(set.Category)},
			&val,
		)
	}
	return node, nil
}

// UnmarshalJSON restores the sets in document order.
func (s *LinkSets) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("links: expected object, got %v", tok)
	}

	var sets LinkSets
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("links: expected string key, got %v", tok)
		}
		var entries []Entry
		if err := dec.Decode(&entries); err != nil {
			return fmt.Errorf("links[%s]: %w", key, err)
		}
		sets = append(sets, LinkSet{Category: classify.Category(key), Entries: entries})
	}
	*s = sets
	return nil
}
