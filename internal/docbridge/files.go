package docbridge

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/kart-io/logger"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/kart-io/docbridge/pkg/mongodb"
	"github.com/kart-io/docbridge/pkg/store"
)

// withFiles runs fn against the GridFS bucket named by the configured collection.
func withFiles(ctx context.Context, opts *Options, fn func(ctx context.Context, fs *store.FileStore) error) error {
	return withGuard(ctx, opts, func(ctx context.Context, g *mongodb.Guard) error {
		bucket, err := g.AsLargeObjectStore(ctx)
		if err != nil {
			return err
		}
		return fn(ctx, store.NewFileStore(bucket))
	})
}

func newFilesCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Store and fetch files in a GridFS bucket",
	}
	cmd.AddCommand(
		newFilesPutCommand(opts),
		newFilesGetCommand(opts),
		newFilesListCommand(opts),
		newFilesLastCommand(opts),
		newFilesRemoveCommand(opts),
	)
	return cmd
}

func newFilesPutCommand(opts *Options) *cobra.Command {
	var (
		name     string
		metadata map[string]string
	)

	cmd := &cobra.Command{
		Use:   "put <path>",
		Short: "Upload a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			if name == "" {
				name = filepath.Base(args[0])
			}
			meta := bson.M{}
			for k, v := range metadata {
				meta[k] = v
			}

			return withFiles(cmd.Context(), opts, func(_ context.Context, fs *store.FileStore) error {
				id, err := fs.Put(name, f, meta)
				if err != nil {
					return err
				}
				logger.Infow("file uploaded", "id", id.Hex(), "filename", name)
				return printJSON(cmd.OutOrStdout(), map[string]string{"id": id.Hex(), "filename": name})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Stored file name (defaults to the base name of path)")
	cmd.Flags().StringToStringVar(&metadata, "meta", nil, "Metadata entries, e.g. --meta owner=ops")

	return cmd
}

func newFilesGetCommand(opts *Options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Download a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFiles(cmd.Context(), opts, func(_ context.Context, fs *store.FileStore) error {
				stream, err := fs.Open(args[0])
				if err != nil {
					return err
				}
				defer stream.Close()

				var w io.Writer = cmd.OutOrStdout()
				if output != "" {
					f, err := os.Create(output)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				n, err := io.Copy(w, stream)
				if err != nil {
					return err
				}
				logger.Debugw("file downloaded", "id", args[0], "bytes", n)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this path instead of stdout")

	return cmd
}

func newFilesListCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "ls [key=value ...]",
		Short: "List files matching the filters, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, doc, err := translateArgs(opts, args)
			if err != nil {
				return err
			}
			return withFiles(cmd.Context(), opts, func(ctx context.Context, fs *store.FileStore) error {
				files, err := fs.List(ctx, doc)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), files)
			})
		},
	}
}

func newFilesLastCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "last [key=value ...]",
		Short: "Show the most recent file matching the filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, doc, err := translateArgs(opts, args)
			if err != nil {
				return err
			}
			return withFiles(cmd.Context(), opts, func(ctx context.Context, fs *store.FileStore) error {
				info, err := fs.LastVersion(ctx, doc)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), info)
			})
		},
	}
}

func newFilesRemoveCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a file and its chunks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFiles(cmd.Context(), opts, func(ctx context.Context, fs *store.FileStore) error {
				if err := fs.Delete(ctx, args[0]); err != nil {
					return err
				}
				logger.Infow("file deleted", "id", args[0])
				return nil
			})
		},
	}
}
