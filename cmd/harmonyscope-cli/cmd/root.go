package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"harmonyscope/internal/adapters/sqlite"
	"harmonyscope/internal/application"
	"harmonyscope/internal/config"
	"harmonyscope/internal/logging"
	"harmonyscope/internal/ports"
)

const (
	exitUsage   = 1
	exitFailure = 2
)

// cli holds what the subcommands share once the root command has run
type cli struct {
	configFile string
	format     string

	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
	locator  *application.Locator
	sessions ports.SessionFactory
}

func newRootCmd() *cobra.Command {
	app := &cli{}

	rootCmd := &cobra.Command{
		Use:   "harmonyscope-cli",
		Short: "Inspect the commit log of a CRDT store",
		Long: `harmonyscope-cli reads the commit history of a Harmony CRDT SQLite store
without modifying it.

It lists commits newest first, loads the changes of a commit on request,
and reports the change and object types the store contains.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip initialization for commands that do not read a store
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Annotations["store"] == "none" {
				return nil
			}
			return app.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app.closeLog != nil {
				return app.closeLog()
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/harmonyscope/config.yaml)")
	flags.String("db", "", "path or connection string of the CRDT store")
	flags.String("log-level", config.DefaultLogLevel, "debug, info, warn or error")
	flags.String("log-file", "", "write logs to this file instead of stderr")
	flags.StringVarP(&app.format, "format", "f", formatTable, "output format: table, json or yaml")

	rootCmd.AddCommand(
		newCommitsCmd(app),
		newChangesCmd(app),
		newTreeCmd(app),
		newTypesCmd(app),
		newInfoCmd(app),
		newSeedCmd(),
	)
	return rootCmd
}

func (a *cli) init(cmd *cobra.Command) error {
	if err := checkFormat(a.format); err != nil {
		return usageError{err}
	}

	loader := config.NewLoader(a.configFile)
	if err := loader.BindFlags(cmd.Flags()); err != nil {
		return usageError{err}
	}
	cfg, err := loader.Load()
	if err != nil {
		return usageError{err}
	}
	if err := cfg.Validate(); err != nil {
		return usageError{fmt.Errorf("%w (use --db or HARMONYSCOPE_DB)", err)}
	}
	a.cfg = cfg

	logger, closeLog, err := logging.New(logging.Options{
		Level:    cfg.LogLevel,
		File:     cfg.LogFile,
		Fallback: cmd.ErrOrStderr(),
		Service:  "cli",
	})
	if err != nil {
		return usageError{err}
	}
	a.logger, a.closeLog = logger, closeLog

	locator, err := application.NewLocator(cfg.DB)
	if err != nil {
		return usageError{err}
	}
	a.locator = locator
	a.sessions = sqlite.NewSessionFactory(locator, logger)
	return nil
}

// usageError marks failures caused by how the command was invoked
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }

func (e usageError) Unwrap() error { return e.err }

// exitCode maps inspection failures to 2 and everything else to 1
func exitCode(err error) int {
	var usage usageError
	if errors.As(err, &usage) {
		return exitUsage
	}
	if errors.Is(err, application.ErrStorageUnavailable) ||
		errors.Is(err, application.ErrQueryFailed) ||
		errors.Is(err, application.ErrNotFound) {
		return exitFailure
	}
	return exitUsage
}

// Execute runs the root command
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
