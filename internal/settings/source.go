package settings

import "strings"

// Source is one layer of overrides.
type Source interface {
	// Lookup returns the raw value stored under key and whether it is set.
	Lookup(key string) (any, bool)
}

// Map is an in-memory Source. Its values are returned exactly as stored, so
// a Map used directly as a provider applies no text decoding.
type Map map[string]any

// Lookup implements Source.
func (m Map) Lookup(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

// Get returns the value for key, or def when the key is not set.
func (m Map) Get(key string, def any) any {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

// FromStrings builds a Map from KEY=VALUE style overrides such as command
// line flags. Keys are upper-cased.
func FromStrings(values map[string]string) Map {
	m := make(Map, len(values))
	for k, v := range values {
		m[normalizeKey(k)] = v
	}
	return m
}

func normalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}
