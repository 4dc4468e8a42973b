package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"harmonyscope/internal/adapters/pager"
	"harmonyscope/internal/adapters/sqlite"
	"harmonyscope/internal/adapters/tui"
	"harmonyscope/internal/adapters/tui/views"
	"harmonyscope/internal/adapters/watch"
	"harmonyscope/internal/application"
	"harmonyscope/internal/application/commands"
	"harmonyscope/internal/config"
	"harmonyscope/internal/logging"
)

const (
	exitUsage   = 1
	exitFailure = 2
)

func main() {
	code, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "harmonyscope: %v\n", err)
	}
	os.Exit(code)
}

// run starts the browser and returns the process exit code.
// Everything it opens is closed before it returns.
func run(args []string) (int, error) {
	flags := pflag.NewFlagSet("harmonyscope", pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: harmonyscope [flags] [store]\n\n%s", flags.FlagUsages())
	}
	configFile := flags.String("config", "", "config file (default $XDG_CONFIG_HOME/harmonyscope/config.yaml)")
	flags.String("db", "", "path or connection string of the CRDT store")
	flags.String("log-level", config.DefaultLogLevel, "debug, info, warn or error")
	flags.String("log-file", "", "write logs to this file")
	flags.Bool("watch", false, "reload when the store is written")
	flags.Int("page-size", config.DefaultPageSize, "commits per page")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0, nil
		}
		// pflag has already printed the error and usage
		return exitUsage, nil
	}

	loader := config.NewLoader(*configFile)
	if err := loader.BindFlags(flags); err != nil {
		return exitUsage, err
	}
	cfg, err := loader.Load()
	if err != nil {
		return exitUsage, err
	}
	if flags.NArg() > 0 {
		cfg.DB = flags.Arg(0)
	}
	if err := cfg.Validate(); err != nil {
		return exitUsage, err
	}

	// the alt screen owns the terminal, so logs only go to a file
	logger, closeLog, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Service: "tui"})
	if err != nil {
		return exitUsage, err
	}
	defer closeLog()

	locator, err := application.NewLocator(cfg.DB)
	if err != nil {
		return exitUsage, err
	}
	sessions := sqlite.NewSessionFactory(locator, logger)

	// fail before taking over the screen when the store cannot be read
	check, err := sessions.OpenSession(context.Background())
	if err != nil {
		logger.Error("store unavailable", "error", err)
		return exitFailure, err
	}
	check.Close()

	var storeChanged <-chan struct{}
	if cfg.Watch {
		path, err := sqlite.ResolvePath(cfg.DB)
		if err != nil {
			return exitFailure, err
		}
		watcher, err := watch.New(path, watch.DefaultDebounce, logger)
		if err != nil {
			return exitFailure, fmt.Errorf("cannot watch %s: %w", path, err)
		}
		defer watcher.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go watcher.Run(ctx)
		storeChanged = watcher.Changes()
	}

	commits := commands.NewLoadCommitsCommand(sessions)
	app := tui.NewApp(locator, views.BrowserOptions{
		Tree:      commands.NewBuildTreeCommand(commits, commands.NewChangeLoader(sessions)),
		Catalog:   commands.NewTypeCatalogCommand(sessions),
		PageSize:  cfg.PageSize,
		StoreName: sqlite.DatabaseName,
		Viewer:    pager.NewViewer(),
	}, storeChanged)

	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		logger.Error("tui stopped", "error", err)
		return exitFailure, err
	}
	return 0, nil
}
