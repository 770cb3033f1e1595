package filter

import (
	"strings"

	"github.com/kart-io/docbridge/pkg/errors"
)

// Modifier is a comparison operator applied to a field.
type Modifier string

// Supported modifiers. Exact is the identity modifier and is never written
// into a query document.
const (
	Exact  Modifier = "exact"
	All    Modifier = "all"
	Exists Modifier = "exists"
	Mod    Modifier = "mod"
	Ne     Modifier = "ne"
	In     Modifier = "in"
	Nin    Modifier = "nin"
	Size   Modifier = "size"
	Type   Modifier = "type"
)

var supportedModifiers = map[Modifier]struct{}{
	All:    {},
	Exists: {},
	Mod:    {},
	Ne:     {},
	In:     {},
	Nin:    {},
	Size:   {},
	Type:   {},
}

var rejectedModifiers = map[string]struct{}{
	"and": {},
	"or":  {},
	"nor": {},
}

// Key returns the operator key used in a query document, e.g. "$in".
func (m Modifier) Key() string {
	return "$" + string(m)
}

// IsList reports whether the modifier takes a list of values.
func (m Modifier) IsList() bool {
	return m == In || m == Nin
}

// LookupModifier resolves a token to a supported modifier. The token may carry
// a leading "$". It returns ok=false for ordinary field names, and
// ErrUnsupportedModifier for logical operators or unknown "$" operators.
func LookupModifier(token string) (m Modifier, ok bool, err error) {
	name := strings.TrimPrefix(token, "$")
	if _, rejected := rejectedModifiers[name]; rejected {
		return "", false, errors.ErrUnsupportedModifier.WithMessagef("modifier %q is not supported", name)
	}
	if _, found := supportedModifiers[Modifier(name)]; found {
		return Modifier(name), true, nil
	}
	if name != token {
		return "", false, errors.ErrUnsupportedModifier.WithMessagef("operator %q is not supported", token)
	}
	return "", false, nil
}

// Modifiers returns the supported modifier set.
func Modifiers() []Modifier {
	return []Modifier{All, Exists, Mod, Ne, In, Nin, Size, Type}
}
