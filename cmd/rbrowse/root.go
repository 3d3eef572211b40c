package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kk-code-lab/rbrowse/internal/app"
	"github.com/kk-code-lab/rbrowse/internal/config"
	"github.com/kk-code-lab/rbrowse/internal/logging"
	"github.com/kk-code-lab/rbrowse/internal/opener"
	statepkg "github.com/kk-code-lab/rbrowse/internal/state"
	"github.com/spf13/cobra"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	cfgFile    string
	hidden     bool
	ignoreCase bool
	noWatch    bool
	logFile    string
	debug      bool
	cdFile     string
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "rbrowse [path]",
		Short: "Browse and search the local filesystem from the terminal",
		Long: `rbrowse lists a directory, lets you walk up and down the tree, searches
file names below the current directory and opens files with their default
application.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.loadConfig(cmd)
			if len(args) == 1 {
				cfg.StartPath = args[0]
			}
			return runBrowser(cfg, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is <user config dir>/rbrowse/config.yaml)")
	flags.BoolVar(&opts.hidden, "hide-hidden", false, "hide dot-files in listings and searches")
	flags.BoolVarP(&opts.ignoreCase, "ignore-case", "i", false, "match search queries case-insensitively")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	flags.BoolVar(&opts.debug, "debug", false, "log at debug level")
	rootCmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "do not refresh when the directory changes")
	rootCmd.Flags().StringVar(&opts.cdFile, "cd-file", "", "write the final directory to this file on exit")

	rootCmd.AddCommand(NewSearchCmd(opts))
	rootCmd.AddCommand(NewConfigCmd(opts))
	rootCmd.AddCommand(NewShellInitCmd())

	return rootCmd
}

// loadConfig reads the config file and applies flag overrides. A broken
// config is reported and replaced by defaults.
func (o *rootOptions) loadConfig(cmd *cobra.Command) *config.Config {
	var (
		cfg *config.Config
		err error
	)
	if o.cfgFile != "" {
		cfg, err = config.LoadFile(o.cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\nusing default settings\n", err)
		cfg = config.Default()
	}

	if cmd.Flags().Changed("hide-hidden") {
		cfg.HideHidden = o.hidden
	}
	if o.ignoreCase {
		cfg.Search.CaseInsensitive = true
	}
	if o.noWatch {
		cfg.Watch = false
	}
	if o.logFile != "" {
		cfg.Log.File = o.logFile
	}
	return cfg
}

func runBrowser(cfg *config.Config, opts *rootOptions) error {
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
		Opener:     opener.New(),
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	application, err := app.NewApplication(app.Options{
		Controller: controller,
		Watch:      cfg.Watch,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("initialize terminal: %w", err)
	}
	application.Run()
	final := application.GetCurrentPath()
	if err := application.Close(); err != nil {
		logger.WithError(err).Warn("shutdown")
	}

	return writeCdFile(opts.cdFile, final)
}

// writeCdFile records dir for the shell integration.
func writeCdFile(path, dir string) error {
	if path == "" || dir == "" {
		return nil
	}
	if err := os.WriteFile(path, []byte(dir), 0o600); err != nil {
		return fmt.Errorf("write cd file: %w", err)
	}
	return nil
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
