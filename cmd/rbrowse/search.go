package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/kk-code-lab/rbrowse/internal/logging"
	statepkg "github.com/kk-code-lab/rbrowse/internal/state"
	"github.com/spf13/cobra"
)

// NewSearchCmd creates the search command
func NewSearchCmd(opts *rootOptions) *cobra.Command {
	var maxDepth, maxResults int

	cmd := &cobra.Command{
		Use:   "search <query> [path]",
		Short: "Print file names below a directory that contain query",
		Long: `Search walks the directory tree below path (default: the configured start
directory) and prints every file whose name contains query, one path per
line relative to path. Unreadable directories are reported on stderr.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.loadConfig(cmd)
			if len(args) == 2 {
				cfg.StartPath = args[1]
			}
			if cmd.Flags().Changed("max-depth") {
				cfg.Search.MaxDepth = maxDepth
			}
			if cmd.Flags().Changed("max-results") {
				cfg.Search.MaxResults = maxResults
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, closer, err := logging.New(cfg.LogOptions(opts.debug))
			if err != nil {
				return err
			}
			defer func() {
				_ = closer.Close()
			}()

			controller, err := statepkg.NewController(statepkg.Options{
				StartPath:  cfg.StartPath,
				HideHidden: cfg.HideHidden,
				Search:     cfg.SearchOptions(),
				Logger:     logger,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return printSearch(ctx, cmd, controller, args[0])
		},
	}

	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "directory levels to descend (0 = unlimited)")
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "stop after this many matches (0 = unlimited)")

	return cmd
}

func printSearch(ctx context.Context, cmd *cobra.Command, controller *statepkg.Controller, query string) error {
	controller.SetSearchQuery(query)
	if err := controller.RunSearch(ctx); err != nil {
		return err
	}

	snap := controller.Snapshot()
	out := cmd.OutOrStdout()
	for _, entry := range snap.SearchResults {
		rel, err := filepath.Rel(snap.CurrentPath, entry.FullPath)
		if err != nil {
			rel = entry.FullPath
		}
		printf(out, "%s\n", rel)
	}

	errOut := cmd.ErrOrStderr()
	for _, skipped := range snap.SearchSkipped {
		printf(errOut, "skipped %s\n", skipped.Error())
	}
	if snap.SearchTruncated {
		printf(errOut, "stopped after %d matches\n", len(snap.SearchResults))
	}
	return nil
}
