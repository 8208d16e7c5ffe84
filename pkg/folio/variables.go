package folio

import "strings"

// Variables is an ordered string-to-string mapping. Keys are unique and
// case-sensitive; iteration follows insertion order.
type Variables struct {
	keys   []string
	values map[string]string
}

// NewVariables creates an empty mapping
func NewVariables() *Variables {
	return &Variables{values: make(map[string]string)}
}

// VariablesFrom builds a mapping from alternating key/value pairs.
// A trailing key without a value is ignored.
func VariablesFrom(pairs ...string) *Variables {
	v := NewVariables()
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Set(pairs[i], pairs[i+1])
	}
	return v
}

// Set inserts or replaces a value. Replacing keeps the original position.
func (v *Variables) Set(key, value string) {
	if v.values == nil {
		v.values = make(map[string]string)
	}
	if _, ok := v.values[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.values[key] = value
}

// Get returns the value for key and whether it was present
func (v *Variables) Get(key string) (string, bool) {
	if v == nil {
		return "", false
	}
	value, ok := v.values[key]
	return value, ok
}

// Lookup returns the value for key, or the empty string
func (v *Variables) Lookup(key string) string {
	value, _ := v.Get(key)
	return value
}

// Has reports whether key is present, regardless of its value
func (v *Variables) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Delete removes key if present
func (v *Variables) Delete(key string) {
	if !v.Has(key) {
		return
	}
	delete(v.values, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of keys
func (v *Variables) Len() int {
	if v == nil {
		return 0
	}
	return len(v.keys)
}

// Keys returns the keys in insertion order
func (v *Variables) Keys() []string {
	if v == nil {
		return nil
	}
	keys := make([]string, len(v.keys))
	copy(keys, v.keys)
	return keys
}

// Clone returns an independent copy
func (v *Variables) Clone() *Variables {
	c := NewVariables()
	for _, k := range v.Keys() {
		c.Set(k, v.values[k])
	}
	return c
}

// Map returns the contents as a plain map
func (v *Variables) Map() map[string]string {
	m := make(map[string]string, v.Len())
	for _, k := range v.Keys() {
		m[k] = v.values[k]
	}
	return m
}

func (v *Variables) String() string {
	var parts []string
	for _, k := range v.Keys() {
		parts = append(parts, k+"="+v.values[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// DocumentSet holds one mapping per parsed document, in input order.
type DocumentSet []*Variables
