package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/pflag"

	mcpadapter "harmonyscope/internal/adapters/mcp"
	"harmonyscope/internal/adapters/sqlite"
	"harmonyscope/internal/application"
	"harmonyscope/internal/config"
	"harmonyscope/internal/logging"
	"harmonyscope/internal/ports"
)

func main() {
	code, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "harmonyscope-mcp: %v\n", err)
	}
	os.Exit(code)
}

// run serves MCP on stdio until the client disconnects and returns the exit code
func run(args []string) (int, error) {
	flags := pflag.NewFlagSet("harmonyscope-mcp", pflag.ContinueOnError)
	configFile := flags.String("config", "", "config file")
	flags.String("db", "", "path or connection string of the CRDT store")
	flags.String("log-level", config.DefaultLogLevel, "debug, info, warn or error")
	flags.String("log-file", "", "write logs to this file")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0, nil
		}
		return 1, nil
	}

	loader := config.NewLoader(*configFile)
	if err := loader.BindFlags(flags); err != nil {
		return 1, err
	}
	cfg, err := loader.Load()
	if err != nil {
		return 1, err
	}
	if err := cfg.Validate(); err != nil {
		return 1, err
	}

	// stdout carries the protocol; logs go to stderr or the log file
	logger, closeLog, err := logging.New(logging.Options{
		Level:    cfg.LogLevel,
		File:     cfg.LogFile,
		Fallback: os.Stderr,
		Service:  "mcp",
	})
	if err != nil {
		return 1, err
	}
	defer closeLog()

	locator, err := application.NewLocator(cfg.DB)
	if err != nil {
		return 1, err
	}
	sessionsAt := func(source ports.LocationSource) ports.SessionFactory {
		return sqlite.NewSessionFactory(source, logger)
	}
	insp := mcpadapter.NewInspector(locator, sessionsAt, sqlite.DatabaseName)

	mcpServer := server.NewMCPServer(
		"harmonyscope-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, insp)
	mcpadapter.RegisterStoreTools(mcpServer, insp)

	logger.Info("serving", "store", locator.Location())
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error("server stopped", "error", err)
		return 2, err
	}
	return 0, nil
}
