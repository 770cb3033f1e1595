// Package docbridge wires the docbridge command line tool.
package docbridge

import (
	"github.com/spf13/cobra"

	"github.com/kart-io/docbridge/pkg/app"
)

const (
	appName        = "docbridge"
	appDescription = `docbridge - query MongoDB with REST-style filters

Filters are key=value pairs. A key is a field path with an optional
modifier separated by "__" (all, exists, mod, ne, in, nin, size, type).
A value starting with "{" is read as a JSON modifier expression, and the
reserved key "query" takes a raw MongoDB query document.

Examples:
  # Show the query document for a set of filters
  docbridge translate age__ne=5 tags__in=a,b tags__in=c

  # Run it against a collection, ten at a time
  docbridge find --mongodb.collection=users active=true limit=10

  # Fetch and delete by id
  docbridge get 65f1c0a2e4b0a1b2c3d4e5f6
  docbridge delete 65f1c0a2e4b0a1b2c3d4e5f6

  # Store and fetch files in the GridFS bucket named by --mongodb.collection
  docbridge files put ./report.pdf --mongodb.collection=fs
  docbridge files ls filename=report.pdf

Configuration:
  Configuration can be provided via:
  - Command-line flags (highest priority)
  - Environment variables (prefix: DOCBRIDGE_), also read from .env
  - Configuration file (YAML, -c or ./docbridge.yaml)
  - Default values (lowest priority)`
)

// NewApp creates a new application instance.
func NewApp() *app.App {
	opts := NewOptions()

	return app.NewApp(appName,
		app.WithShortDescription("Query MongoDB with REST-style filters"),
		app.WithDescription(appDescription),
		app.WithOptions(opts),
		app.WithCommands(commands(opts)...),
	)
}

func commands(opts *Options) []*cobra.Command {
	return []*cobra.Command{
		newTranslateCommand(opts),
		newFindCommand(opts),
		newCountCommand(opts),
		newGetCommand(opts),
		newDeleteCommand(opts),
		newPingCommand(opts),
		newFilesCommand(opts),
	}
}
