package filter

import (
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kart-io/docbridge/pkg/errors"
	"github.com/kart-io/docbridge/pkg/utils/json"
)

// Document is a MongoDB query document.
type Document = bson.M

// QueryKey is the escape-hatch key. A JSON object under it is used as the
// query document verbatim.
const QueryKey = "query"

// DefaultSeparator separates a field path from its modifier.
const DefaultSeparator = "__"

// DefaultReservedKeys are request parameters that are never filters.
var DefaultReservedKeys = []string{"format", "callback", "limit", "offset"}

// Default is a Translator with the default separator and reserved keys.
var Default = New()

// Option configures a Translator.
type Option func(*Translator)

// WithSeparator sets the lookup separator. An empty separator is ignored.
func WithSeparator(sep string) Option {
	return func(t *Translator) {
		if sep != "" {
			t.separator = sep
		}
	}
}

// WithReservedKeys replaces the reserved key set. QueryKey is always reserved.
func WithReservedKeys(keys ...string) Option {
	return func(t *Translator) {
		t.reserved = make(map[string]struct{}, len(keys)+1)
		for _, k := range keys {
			t.reserved[k] = struct{}{}
		}
		t.reserved[QueryKey] = struct{}{}
	}
}

// Translator turns filter expressions into a Document. It is immutable once
// built and safe for concurrent use.
type Translator struct {
	separator string
	reserved  map[string]struct{}
}

// New creates a Translator.
func New(opts ...Option) *Translator {
	t := &Translator{separator: DefaultSeparator}
	WithReservedKeys(DefaultReservedKeys...)(t)
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Separator returns the lookup separator.
func (t *Translator) Separator() string {
	return t.separator
}

// Reserved reports whether key is never treated as a filter.
func (t *Translator) Reserved(key string) bool {
	_, ok := t.reserved[key]
	return ok
}

// Translate builds a query document using the Default translator.
func Translate(src Source) (Document, error) {
	return Default.Translate(src)
}

// Translate builds a query document from src.
func (t *Translator) Translate(src Source) (Document, error) {
	doc := Document{}
	if src == nil {
		return doc, nil
	}

	if raw, ok := src.Get(QueryKey); ok && !isBlank(raw) {
		return decodeQuery(raw)
	}

	keys := src.Keys()
	sort.Strings(keys)

	for _, key := range keys {
		if t.Reserved(key) {
			continue
		}
		raw, _ := src.Get(key)

		field, mod, value, err := t.translateOne(src, key, raw)
		if err != nil {
			return nil, err
		}
		if field == "" {
			return nil, errors.ErrMalformedQuery.WithMessagef("filter %q has an empty field name", key)
		}

		if mod == Exact || mod == "" {
			doc[field] = value
		} else {
			doc[field] = bson.M{mod.Key(): value}
		}
	}

	return doc, nil
}

func (t *Translator) translateOne(src Source, key string, raw interface{}) (string, Modifier, interface{}, error) {
	field, mod, err := t.splitKey(key)
	if err != nil {
		return "", "", nil, err
	}

	if s, ok := raw.(string); ok && json.LooksLikeObject(s) {
		obj, err := json.DecodeObject(s)
		if err != nil {
			return "", "", nil, errors.ErrMalformedQuery.WithMessagef("filter %q: %v", key, err).WithCause(err)
		}
		raw = obj
	}

	if obj, ok := asObject(raw); ok {
		bits, value, err := Extract(obj, nil)
		if err != nil {
			return "", "", nil, err
		}
		field, mod, value = assemble(bits, value, field, mod)
		return field, mod, value, nil
	}

	value, err := t.literal(src, key, raw, mod)
	if err != nil {
		return "", "", nil, err
	}
	return field, mod, value, nil
}

// splitKey splits a filter expression into its field name and trailing
// modifier, if any. The field name is the first segment; segments between
// it and the modifier are dropped.
func (t *Translator) splitKey(key string) (string, Modifier, error) {
	segments := strings.Split(key, t.separator)
	mod := Exact

	if n := len(segments); n > 1 {
		last := segments[n-1]
		if Modifier(last) == Exact {
			segments = segments[:n-1]
		} else {
			m, ok, err := LookupModifier(last)
			if err != nil {
				return "", "", err
			}
			if ok {
				mod = m
				segments = segments[:n-1]
			}
		}
	}

	return segments[0], mod, nil
}

func (t *Translator) literal(src Source, key string, raw interface{}, mod Modifier) (interface{}, error) {
	if mod.IsList() {
		if ms, ok := src.(MultiSource); ok {
			if all := ms.All(key); len(all) > 0 {
				return splitAll(all), nil
			}
		}
	}

	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return Coerce(v), nil
	case []string:
		out := make([]interface{}, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, nil
	case bool, float64, float32, int, int32, int64, uint, uint32, uint64, []interface{}:
		return v, nil
	default:
		return nil, errors.ErrValueNotSupported.WithMessagef("filter %q: value of type %T is not supported", key, raw)
	}
}

// Coerce converts the literal strings true/True, false/False and
// nil/none/None/"" to their JSON values. Every other string is returned
// unchanged; numbers are never coerced.
func Coerce(s string) interface{} {
	switch s {
	case "true", "True":
		return true
	case "false", "False":
		return false
	case "", "nil", "none", "None":
		return nil
	default:
		return s
	}
}

func splitAll(raw []string) []interface{} {
	out := make([]interface{}, 0, len(raw))
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			out = append(out, part)
		}
	}
	return out
}

func decodeQuery(raw interface{}) (Document, error) {
	switch v := raw.(type) {
	case string:
		obj, err := json.DecodeObject(v)
		if err != nil {
			return nil, errors.ErrMalformedQuery.WithMessagef("query is not a JSON object: %v", err).WithCause(err)
		}
		return Document(obj), nil
	default:
		if obj, ok := asObject(v); ok {
			return Document(obj), nil
		}
		return nil, errors.ErrMalformedQuery.WithMessagef("query must be a JSON object, got %T", raw)
	}
}

func isBlank(v interface{}) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(s) == ""
	}
	return false
}
