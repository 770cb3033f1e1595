package docbridge

import (
	"github.com/spf13/pflag"

	filteropts "github.com/kart-io/docbridge/pkg/options/filter"
	logopts "github.com/kart-io/docbridge/pkg/options/logger"
	mongodbopts "github.com/kart-io/docbridge/pkg/options/mongodb"
)

// Options contains all docbridge options.
type Options struct {
	// MongoDB contains the connection configuration.
	MongoDB *mongodbopts.Options `json:"mongodb" mapstructure:"mongodb"`

	// Filter contains the filter translator configuration.
	Filter *filteropts.Options `json:"filter" mapstructure:"filter"`

	// Log contains logger configuration.
	Log *logopts.Options `json:"log" mapstructure:"log"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		MongoDB: mongodbopts.NewOptions(),
		Filter:  filteropts.NewOptions(),
		Log:     logopts.NewOptions(),
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.MongoDB.AddFlags(fs)
	o.Filter.AddFlags(fs)
	o.Log.AddFlags(fs)
}

// Complete completes the options.
func (o *Options) Complete() error {
	if err := o.Log.Complete(); err != nil {
		return err
	}
	if err := o.MongoDB.Complete(); err != nil {
		return err
	}
	return o.Filter.Complete()
}

// Validate validates the options.
func (o *Options) Validate() error {
	if err := o.Log.Validate(); err != nil {
		return err
	}
	if err := o.MongoDB.Validate(); err != nil {
		return err
	}
	return o.Filter.Validate()
}
