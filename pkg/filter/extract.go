package filter

import (
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kart-io/docbridge/pkg/errors"
)

// Extract walks a nested JSON filter value and flattens it into path bits
// and a terminal value.
//
// Each single-key object contributes its key to the path. Field names are
// appended as-is; a recognised modifier is appended in operator form ("$in").
// Once a modifier has been seen, the remaining keys describe the operand and
// are appended verbatim; an operand object that does not have exactly one
// key is returned whole as the terminal value.
//
//	{"age": 5}                       -> ["age"], 5
//	{"in": [1, 2]}                   -> ["$in"], [1, 2]
//	{"tags": {"all": ["a"]}}         -> ["tags", "$all"], ["a"]
//	{"scores": {"ne": {"math": 5}}}  -> ["scores", "$ne", "math"], 5
//
// Before a modifier, an empty or multi-key object is ErrMalformedQuery.
func Extract(node interface{}, path []string) ([]string, interface{}, error) {
	return extract(node, path, false)
}

func extract(node interface{}, path []string, afterModifier bool) ([]string, interface{}, error) {
	obj, ok := asObject(node)
	if !ok {
		return path, node, nil
	}

	if len(obj) != 1 {
		if afterModifier {
			return path, node, nil
		}
		return nil, nil, errors.ErrMalformedQuery.WithMessagef(
			"nested filter must have exactly one key, got %d (%s)", len(obj), strings.Join(objectKeys(obj), ", "))
	}

	for key, sub := range obj {
		m, isModifier, err := LookupModifier(key)
		if err != nil {
			return nil, nil, err
		}

		bits := append(path[:len(path):len(path)], key)
		if isModifier && !afterModifier {
			bits[len(bits)-1] = m.Key()
			return extract(sub, bits, true)
		}
		return extract(sub, bits, afterModifier)
	}

	return path, node, nil
}

// assemble rebuilds a field, modifier and value from extracted bits. The
// first bit before the modifier names the field and later field bits are
// dropped; bits after the modifier are re-nested around the value. Missing
// parts fall back to the filter expression.
func assemble(bits []string, value interface{}, field string, mod Modifier) (string, Modifier, interface{}) {
	pre := bits
	var post []string
	for i, bit := range bits {
		if strings.HasPrefix(bit, "$") {
			mod = Modifier(strings.TrimPrefix(bit, "$"))
			pre, post = bits[:i], bits[i+1:]
			break
		}
	}

	if len(pre) > 0 {
		field = pre[0]
	}

	for i := len(post) - 1; i >= 0; i-- {
		value = bson.M{post[i]: value}
	}

	return field, mod, value
}

func asObject(v interface{}) (map[string]interface{}, bool) {
	switch o := v.(type) {
	case map[string]interface{}:
		return o, true
	case bson.M:
		return o, true
	default:
		return nil, false
	}
}

func objectKeys(obj map[string]interface{}) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
