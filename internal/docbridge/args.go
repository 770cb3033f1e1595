package docbridge

import (
	"net/url"
	"strings"

	"github.com/kart-io/docbridge/pkg/errors"
	"github.com/kart-io/docbridge/pkg/filter"
)

// ParseArgs turns key=value arguments into filter values. Keys may repeat.
func ParseArgs(args []string) (filter.Values, error) {
	values := url.Values{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, errors.ErrMalformedQuery.WithMessagef("filter %q must have the form key=value", arg)
		}
		values.Add(key, value)
	}
	return filter.Values(values), nil
}
