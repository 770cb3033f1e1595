// Package filter provides options for the filter translator.
package filter

import (
	"github.com/spf13/pflag"

	"github.com/kart-io/docbridge/pkg/errors"
	"github.com/kart-io/docbridge/pkg/filter"
	"github.com/kart-io/docbridge/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options configures how request parameters become query documents.
type Options struct {
	Separator    string   `json:"separator" mapstructure:"separator"`
	ReservedKeys []string `json:"reserved-keys" mapstructure:"reserved-keys"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		Separator:    filter.DefaultSeparator,
		ReservedKeys: append([]string(nil), filter.DefaultReservedKeys...),
	}
}

// AddFlags adds flags for filter options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "filter."

	fs.StringVar(&o.Separator, p+"separator", o.Separator, "Separator between a field path and its modifier.")
	fs.StringSliceVar(&o.ReservedKeys, p+"reserved-keys", o.ReservedKeys, "Parameters that are never treated as filters.")
}

// Complete completes the filter options with defaults.
func (o *Options) Complete() error {
	if o.Separator == "" {
		o.Separator = filter.DefaultSeparator
	}
	return nil
}

// Validate validates the filter options.
func (o *Options) Validate() error {
	if o.Separator == "" {
		return errors.ErrInvalidConfig.WithMessage("filter separator must not be empty")
	}
	return nil
}

// NewTranslator builds a translator from the options.
func (o *Options) NewTranslator() *filter.Translator {
	return filter.New(
		filter.WithSeparator(o.Separator),
		filter.WithReservedKeys(o.ReservedKeys...),
	)
}
