package serialize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is an interchange format.
type Format string

const (
	// FormatJSON is a structured JSON document.
	FormatJSON Format = "json"
	// FormatYAML is a structured YAML document.
	FormatYAML Format = "yaml"
	// FormatText is a line list with a JSON sidecar envelope.
	FormatText Format = "txt"
)

// ParseFormat resolves a format name, ignoring case. "yml" is accepted for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown format %q, want one of [json, yaml, txt]", name)
}

// FormatFromPath infers the format from the extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer format of %s: no extension", path)
	}
	return ParseFormat(ext)
}

// Ext returns the file extension for f, without the dot.
func (f Format) Ext() string { return string(f) }

// Structured reports whether f is a document format.
func (f Format) Structured() bool { return f == FormatJSON || f == FormatYAML }

func encodeDocument(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%s is not a document format", f)
}

// decoder returns a strict decoding function over data: unknown fields are
// rejected.
func decoder(f Format, data []byte) (func(v any) error, error) {
	switch f {
	case FormatJSON:
		return func(v any) error {
			dec := json.NewDecoder(bytes.NewReader(data))
			dec.DisallowUnknownFields()
			return dec.Decode(v)
		}, nil
	case FormatYAML:
		return func(v any) error {
			dec := yaml.NewDecoder(bytes.NewReader(data))
			dec.KnownFields(true)
			err := dec.Decode(v)
			if errors.Is(err, io.EOF) {
				// An empty document is an empty update.
				return nil
			}
			return err
		}, nil
	}
	return nil, fmt.Errorf("%s is not a document format", f)
}

// splitGroupDocument breaks a group document into per-file documents keyed by
// relative path.
func splitGroupDocument(f Format, data []byte) (map[string][]byte, error) {
	out := make(map[string][]byte)
	switch f {
	case FormatJSON:
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		for path, doc := range raw {
			out[path] = doc
		}
	case FormatYAML:
		var raw map[string]yaml.Node
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		for path, node := range raw {
			doc, err := yaml.Marshal(&node)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			out[path] = doc
		}
	default:
		return nil, fmt.Errorf("%s is not a document format", f)
	}
	return out, nil
}
