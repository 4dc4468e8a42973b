package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"harmonyscope/internal/application"
	"harmonyscope/internal/application/commands"
)

// RegisterStoreTools adds the tool that points the inspector at another store.
// Nothing is ever written to a store.
func RegisterStoreTools(s *server.MCPServer, insp *Inspector) {
	s.AddTool(switchStoreTool(), switchStoreHandler(insp))
}

func switchStoreTool() mcp.Tool {
	return mcp.NewTool("switch_store",
		mcp.WithDescription("Read from a different CRDT store from now on. The store is checked before switching; on failure the current store stays in use."),
		mcp.WithString("location",
			mcp.Description("Path or connection string of the SQLite store"),
			mcp.Required(),
		),
	)
}

func switchStoreHandler(insp *Inspector) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		location := req.GetString("location", "")

		switchStore := commands.NewSwitchStoreCommand(insp.locator, location)
		switchStore.Check = insp.checkStore
		previous, err := switchStore.Execute(ctx)
		if err != nil {
			var valErr *application.ValidationError
			if errors.As(err, &valErr) {
				return toolError(err)
			}
			return toolError(fmt.Errorf("%w; still using %s", err, previous))
		}

		return mcp.NewToolResultText(fmt.Sprintf("Switched from %s to %s", previous, location)), nil
	}
}

// checkStore reads the candidate's commits through its own locator, so the
// shared one only ever points at stores that opened.
func (insp *Inspector) checkStore(ctx context.Context, location string) error {
	candidate, err := application.NewLocator(location)
	if err != nil {
		return err
	}
	_, err = commands.NewLoadCommitsCommand(insp.sessionsAt(candidate)).Execute(ctx)
	return err
}
