package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"harmonyscope/internal/application"
	"harmonyscope/internal/application/commands"
	"harmonyscope/internal/domain"
	"harmonyscope/internal/ports"
)

const defaultLimit = 50

// Inspector bundles the commands the MCP tools run against the current store
type Inspector struct {
	locator    *application.Locator
	sessionsAt func(ports.LocationSource) ports.SessionFactory

	commits   *commands.LoadCommitsCommand
	loader    *commands.ChangeLoader
	tree      *commands.BuildTreeCommand
	catalog   *commands.TypeCatalogCommand
	storeName func(location string) string
}

// NewInspector creates the tool backend. sessionsAt builds a session factory over
// a location source; storeName formats the store in replies.
func NewInspector(locator *application.Locator, sessionsAt func(ports.LocationSource) ports.SessionFactory, storeName func(string) string) *Inspector {
	if storeName == nil {
		storeName = func(location string) string { return location }
	}
	sessions := sessionsAt(locator)
	commits := commands.NewLoadCommitsCommand(sessions)
	loader := commands.NewChangeLoader(sessions)
	return &Inspector{
		locator:    locator,
		sessionsAt: sessionsAt,
		commits:    commits,
		loader:     loader,
		tree:       commands.NewBuildTreeCommand(commits, loader),
		catalog:    commands.NewTypeCatalogCommand(sessions),
		storeName:  storeName,
	}
}

// RegisterReadTools adds all read-only inspection tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, insp *Inspector) {
	s.AddTool(commitsTool(), commitsHandler(insp))
	s.AddTool(changesTool(), changesHandler(insp))
	s.AddTool(treeTool(), treeHandler(insp))
	s.AddTool(typesTool(), typesHandler(insp))
	s.AddTool(storeTool(), storeHandler(insp))
}

// --- commits ---

func commitsTool() mcp.Tool {
	return mcp.NewTool("commits",
		mcp.WithDescription("List commits of the CRDT store, newest first, with their change counts. Changes are not loaded."),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum number of commits to return (default %d, 0 for all)", defaultLimit)),
		),
	)
}

func commitsHandler(insp *Inspector) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		listing, err := insp.commits.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		commits, err := limitArg(req, listing.Commits)
		if err != nil {
			return toolError(err)
		}
		if len(commits) == 0 {
			return mcp.NewToolResultText("No commits."), nil
		}

		var sb strings.Builder
		for _, c := range commits {
			sb.WriteString(formatCommit(c))
			sb.WriteByte('\n')
		}
		if len(commits) < len(listing.Commits) {
			fmt.Fprintf(&sb, "... %d more\n", len(listing.Commits)-len(commits))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- changes ---

func changesTool() mcp.Tool {
	return mcp.NewTool("changes",
		mcp.WithDescription("Load the changes of one commit in index order."),
		mcp.WithString("commit",
			mcp.Description("Commit hash or id, or an unambiguous prefix of either"),
			mcp.Required(),
		),
	)
}

func changesHandler(insp *Inspector) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		prefix := req.GetString("commit", "")

		listing, err := insp.commits.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		summary, err := commands.FindCommit(listing.Commits, prefix)
		if err != nil {
			return toolError(err)
		}

		changes, err := insp.loader.Load(ctx, summary.Commit)
		if err != nil {
			return toolError(err)
		}
		if len(changes) == 0 {
			return mcp.NewToolResultText("Commit has no changes."), nil
		}

		var sb strings.Builder
		for _, c := range changes {
			sb.WriteString(formatChange(c))
			sb.WriteByte('\n')
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Display commits as a tree. Changes are listed only when expand is set."),
		mcp.WithBoolean("expand",
			mcp.Description("Load and list the changes under every shown commit"),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum number of commits to show (default %d, 0 for all)", defaultLimit)),
		),
	)
}

func treeHandler(insp *Inspector) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tree, err := insp.tree.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		roots, err := limitArg(req, tree.Roots)
		if err != nil {
			return toolError(err)
		}

		expand := req.GetBool("expand", false)
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s\n", insp.storeName(tree.Location))
		if err := renderTree(&sb, roots, expand); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func renderTree(sb *strings.Builder, roots []domain.TreeNode, expand bool) error {
	for _, node := range roots {
		fmt.Fprintf(sb, "  %s  %s  %s\n", node.Identifier(), node.Date(), node.Label())
		if !expand || !node.HasChildren() {
			continue
		}
		children, err := node.Children()
		if err != nil {
			return err
		}
		for _, child := range children {
			fmt.Fprintf(sb, "    %s  %s\n", child.Label(), child.Identifier())
		}
	}
	return nil
}

// --- types ---

func typesTool() mcp.Tool {
	return mcp.NewTool("types",
		mcp.WithDescription("List the change types and object types present in the store."),
	)
}

func typesHandler(insp *Inspector) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		catalog, err := insp.catalog.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		sb.WriteString("Change types:\n")
		for _, t := range catalog.ChangeTypes {
			fmt.Fprintf(&sb, "  %s\n", t)
		}
		sb.WriteString("Object types:\n")
		for _, t := range catalog.ObjectTypes {
			fmt.Fprintf(&sb, "  %s\n", t)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- store ---

func storeTool() mcp.Tool {
	return mcp.NewTool("store",
		mcp.WithDescription("Show which store the tools currently read from."),
	)
}

func storeHandler(insp *Inspector) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		location := insp.locator.Location()
		return mcp.NewToolResultText(fmt.Sprintf("%s (%s)", insp.storeName(location), location)), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

// limitArg applies the request's "limit" argument; 0 keeps everything
func limitArg[T any](req mcp.CallToolRequest, items []T) ([]T, error) {
	n := req.GetInt("limit", defaultLimit)
	if err := application.ValidateAtLeast("limit", n, 0); err != nil {
		return nil, err
	}
	if n == 0 || n >= len(items) {
		return items, nil
	}
	return items[:n], nil
}

func formatCommit(c domain.CommitSummary) string {
	return fmt.Sprintf("%s  %s  counter=%d  %d changes  id=%s",
		c.Commit.Hash,
		c.Commit.Timestamp.DateTime.Format(domain.DateLayout),
		c.Commit.Timestamp.Counter,
		c.ChangeCount,
		c.Commit.ID)
}

func formatChange(c domain.ChangeEntity) string {
	return fmt.Sprintf("%d  %-6s  %s  entity=%s", c.Index, c.Change.Kind, c.Change.DisplayName(), c.EntityID)
}
