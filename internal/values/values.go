// Package values supplies the hierarchical replacement document consumed by
// the template renderer. The renderer only sees the Value interface: child
// lookup by string key and scalar string conversion. The concrete backing
// store is a YAML document, but nothing outside this package depends on that.
package values

import (
	"fmt"
	"os"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Value is one node of the replacement document. A node is either a mapping
// (Lookup succeeds for its keys) or a scalar (Scalar succeeds); sequences and
// null nodes are neither.
type Value interface {
	// Lookup returns the child node under key, or false if this node is not
	// a mapping or has no such key.
	Lookup(key string) (Value, bool)

	// Scalar returns this node converted to a string, or false if the node
	// is not a string-convertible scalar.
	Scalar() (string, bool)
}

// node wraps the generic decoding of a YAML document. yaml.v3 decodes
// mappings with string keys to map[string]interface{} and everything nested
// under interface-typed values the same way.
type node struct {
	v interface{}
}

// FromAny wraps an already-decoded document (maps, slices, scalars) as a
// Value. A nil document resolves nothing.
func FromAny(v interface{}) Value {
	return node{v: v}
}

// Load parses a YAML document into a Value.
func Load(data []byte) (Value, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing replacement document: %w", err)
	}
	return node{v: doc}, nil
}

// LoadFile reads and parses a YAML replacement document from disk.
func LoadFile(path string) (Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading replacement document %s: %w", path, err)
	}
	return Load(data)
}

func (n node) Lookup(key string) (Value, bool) {
	switch m := n.v.(type) {
	case map[string]interface{}:
		child, ok := m[key]
		if !ok {
			return nil, false
		}
		return node{v: child}, true
	case map[interface{}]interface{}:
		child, ok := m[key]
		if !ok {
			return nil, false
		}
		return node{v: child}, true
	default:
		return nil, false
	}
}

func (n node) Scalar() (string, bool) {
	switch n.v.(type) {
	case nil, map[string]interface{}, map[interface{}]interface{}, []interface{}:
		return "", false
	}
	s, err := cast.ToStringE(n.v)
	if err != nil {
		return "", false
	}
	return s, true
}
