package filter

import (
	"net/url"
	"sort"
)

// Source supplies raw filter entries.
type Source interface {
	// Keys returns every filter expression present.
	Keys() []string
	// Get returns the raw value for key. A present key may have a nil value.
	Get(key string) (interface{}, bool)
}

// MultiSource is a Source that keeps every occurrence of a repeated key,
// such as a query string with tags__in=a&tags__in=b.
type MultiSource interface {
	Source
	All(key string) []string
}

// Map is a single-valued Source. Values may be strings or already-decoded
// JSON values (bool, float64, nil, []interface{}, map[string]interface{}).
type Map map[string]interface{}

// Keys implements Source.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get implements Source.
func (m Map) Get(key string) (interface{}, bool) {
	v, ok := m[key]
	return v, ok
}

// Values adapts url.Values into a MultiSource. Get returns the last
// occurrence of a key, matching how repeated query parameters override.
type Values url.Values

// Keys implements Source.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get implements Source.
func (v Values) Get(key string) (interface{}, bool) {
	vs, ok := v[key]
	if !ok {
		return nil, false
	}
	if len(vs) == 0 {
		return nil, true
	}
	return vs[len(vs)-1], true
}

// All implements MultiSource.
func (v Values) All(key string) []string {
	return v[key]
}

// FromQuery parses a raw query string into a MultiSource.
func FromQuery(rawQuery string) (Values, error) {
	vs, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, err
	}
	return Values(vs), nil
}
