package protocol

import (
	"fmt"
	"strings"
)

// Payload is a decoded command payload. Nested fields are addressed by
// dotted path (e.g. "src.node"), matching the wire format's nested JSON
// objects once unmarshaled into map[string]any.
type Payload map[string]any

func (p Payload) lookup(path string) (any, bool) {
	var cur any = map[string]any(p)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := m[part]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// Required returns the value at path, or an error if absent.
func (p Payload) Required(path string) (any, error) {
	v, ok := p.lookup(path)
	if !ok {
		return nil, fmt.Errorf("protocol: missing required field %q", path)
	}
	return v, nil
}

// Optional returns the value at path, or def if absent.
func (p Payload) Optional(path string, def any) any {
	if v, ok := p.lookup(path); ok {
		return v
	}
	return def
}

// String returns a required string field.
func (p Payload) String(path string) (string, error) {
	v, err := p.Required(path)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("protocol: field %q is not a string", path)
	}
	return s, nil
}

// OptString returns an optional string field, or def if absent or of the
// wrong type.
func (p Payload) OptString(path, def string) string {
	v, ok := p.lookup(path)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

// OptIndex returns an optional addressable-port index field. JSON numbers
// decode as float64; a "none" string (per §4.2's PortRef convention) and
// an absent field both mean "no index".
func (p Payload) OptIndex(path string) *int {
	v, ok := p.lookup(path)
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case float64:
		i := int(n)
		return &i
	case int:
		return &n
	case string:
		if n == "" || n == "none" {
			return nil
		}
	}
	return nil
}

// Metadata returns an optional "metadata" object field as map[string]any.
func (p Payload) Metadata() map[string]any {
	v, ok := p.lookup("metadata")
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return m
}
