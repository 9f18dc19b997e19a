package fixedmap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"iter"

	"gopkg.in/yaml.v3"
)

// ErrDuplicateKey is returned when a document names the same key twice,
// including names that differ only in case.
var ErrDuplicateKey = errors.New("duplicate key")

// Maps and Sparse values encode as objects keyed by canonical name, with keys
// in code order. Decoding matches names case-insensitively and rejects names
// outside the table.

func marshalJSON[K Key, V any](all iter.Seq2[K, V]) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for k, v := range all {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		name, err := json.Marshal(k.String())
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func unmarshalJSON[K Key, V any](data []byte, set func(K, V)) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected an object of names, got %v", tok)
	}
	var seen Map[K, bool]
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		k, err := Parse[K](name)
		if err != nil {
			return err
		}
		if seen.Get(k) {
			return fmt.Errorf("%w %q, already given as %s", ErrDuplicateKey, name, k)
		}
		seen.Set(k, true)
		var v V
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		set(k, v)
	}
	_, err = dec.Token()
	return err
}

func marshalYAML[K Key, V any](all iter.Seq2[K, V]) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for k, v := range all {
		var val yaml.Node
		if err := val.Encode(v); err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k.String()},
			&val,
		)
	}
	return n, nil
}

func unmarshalYAML[K Key, V any](n *yaml.Node, set func(K, V)) error {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of names", n.Line)
	}
	var seen Map[K, bool]
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i]
		k, err := Parse[K](name.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", name.Line, err)
		}
		if seen.Get(k) {
			return fmt.Errorf("line %d: %w %q, already given as %s", name.Line, ErrDuplicateKey, name.Value, k)
		}
		seen.Set(k, true)
		var v V
		if err := n.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		set(k, v)
	}
	return nil
}

// MarshalJSON encodes every key, in code order.
func (m Map[K, V]) MarshalJSON() ([]byte, error) { return marshalJSON(m.All()) }

// UnmarshalJSON fills m from an object. Missing keys read as the zero V.
func (m *Map[K, V]) UnmarshalJSON(data []byte) error {
	*m = New[K, V]()
	return unmarshalJSON(data, m.Set)
}

// MarshalYAML encodes every key, in code order.
func (m Map[K, V]) MarshalYAML() (any, error) { return marshalYAML(m.All()) }

// UnmarshalYAML fills m from a mapping. Missing keys read as the zero V.
func (m *Map[K, V]) UnmarshalYAML(n *yaml.Node) error {
	*m = New[K, V]()
	return unmarshalYAML(n, m.Set)
}

// MarshalJSON encodes present keys, in code order.
func (s Sparse[K, V]) MarshalJSON() ([]byte, error) { return marshalJSON(s.All()) }

// UnmarshalJSON replaces s with the keys named in data.
func (s *Sparse[K, V]) UnmarshalJSON(data []byte) error {
	*s = Sparse[K, V]{}
	return unmarshalJSON(data, s.Set)
}

// MarshalYAML encodes present keys, in code order.
func (s Sparse[K, V]) MarshalYAML() (any, error) { return marshalYAML(s.All()) }

// UnmarshalYAML replaces s with the keys named in n.
func (s *Sparse[K, V]) UnmarshalYAML(n *yaml.Node) error {
	*s = Sparse[K, V]{}
	return unmarshalYAML(n, s.Set)
}
