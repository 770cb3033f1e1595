package docbridge

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"
	"github.com/spf13/cobra"

	"github.com/kart-io/docbridge/pkg/filter"
	"github.com/kart-io/docbridge/pkg/mongodb"
	"github.com/kart-io/docbridge/pkg/store"
)

// withGuard initialises logging, opens a guarded connection for the
// duration of fn and closes it afterwards.
func withGuard(ctx context.Context, opts *Options, fn func(ctx context.Context, g *mongodb.Guard) error) error {
	if err := opts.Log.Init(); err != nil {
		return err
	}

	connector, err := mongodb.NewConnector(opts.MongoDB)
	if err != nil {
		return err
	}
	guard := mongodb.NewGuard(connector)
	defer func() {
		if err := guard.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warnw("failed to close connection", "error", err.Error())
		}
	}()

	return fn(ctx, guard)
}

// withRepository runs fn against the configured collection.
func withRepository(ctx context.Context, opts *Options, fn func(ctx context.Context, repo *store.Repository) error) error {
	return withGuard(ctx, opts, func(ctx context.Context, g *mongodb.Guard) error {
		coll, err := g.AsQuery(ctx)
		if err != nil {
			return err
		}
		return fn(ctx, store.NewRepository(coll))
	})
}

// translateArgs parses args and translates them into a query document.
func translateArgs(opts *Options, args []string) (filter.Values, filter.Document, error) {
	values, err := ParseArgs(args)
	if err != nil {
		return nil, nil, err
	}
	doc, err := opts.Filter.NewTranslator().Translate(values)
	if err != nil {
		return nil, nil, err
	}
	return values, doc, nil
}

func newTranslateCommand(opts *Options) *cobra.Command {
	var raw string

	cmd := &cobra.Command{
		Use:   "translate [key=value ...]",
		Short: "Print the query document for a set of filters",
		Long: `Print the MongoDB query document for a set of filters without
connecting to a server. --raw accepts a URL query string and is merged
with the positional filters.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := ParseArgs(args)
			if err != nil {
				return err
			}
			if raw != "" {
				extra, err := filter.FromQuery(raw)
				if err != nil {
					return err
				}
				for k, vs := range extra {
					values[k] = append(values[k], vs...)
				}
			}

			doc, err := opts.Filter.NewTranslator().Translate(values)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().StringVar(&raw, "raw", "", "URL query string of filters, e.g. 'age__ne=5&tags__in=a,b'")

	return cmd
}

func newFindCommand(opts *Options) *cobra.Command {
	var sort []string

	cmd := &cobra.Command{
		Use:   "find [key=value ...]",
		Short: "Find documents matching the filters",
		Long: `Find documents in the configured collection. The reserved keys
limit and offset page through the result.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, doc, err := translateArgs(opts, args)
			if err != nil {
				return err
			}
			findOpts, err := store.FindOptionsFrom(values)
			if err != nil {
				return err
			}
			findOpts.Sort = sort

			return withRepository(cmd.Context(), opts, func(ctx context.Context, repo *store.Repository) error {
				docs, err := repo.Find(ctx, doc, findOpts)
				if err != nil {
					return err
				}
				logger.Debugw("find completed", "query", doc, "count", len(docs))
				return printDocuments(cmd.OutOrStdout(), docs...)
			})
		},
	}
	cmd.Flags().StringSliceVar(&sort, "sort", nil, "Sort fields, prefix with - for descending")

	return cmd
}

func newCountCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "count [key=value ...]",
		Short: "Count documents matching the filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, doc, err := translateArgs(opts, args)
			if err != nil {
				return err
			}

			return withRepository(cmd.Context(), opts, func(ctx context.Context, repo *store.Repository) error {
				n, err := repo.Count(ctx, doc)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
				return err
			})
		},
	}
}

func newGetCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print the document with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd.Context(), opts, func(ctx context.Context, repo *store.Repository) error {
				doc, err := repo.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return printDocuments(cmd.OutOrStdout(), doc)
			})
		},
	}
}

func newDeleteCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete the document with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd.Context(), opts, func(ctx context.Context, repo *store.Repository) error {
				if err := repo.Delete(ctx, args[0]); err != nil {
					return err
				}
				logger.Infow("document deleted", "id", args[0], "collection", opts.MongoDB.Collection)
				return nil
			})
		},
	}
}

func newPingCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withGuard(cmd.Context(), opts, func(ctx context.Context, g *mongodb.Guard) error {
				if err := g.Ping(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "mongodb ok")
				return err
			})
		},
	}
}
