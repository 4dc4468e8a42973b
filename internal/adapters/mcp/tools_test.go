package mcp

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harmonyscope/internal/adapters/sqlite"
	"harmonyscope/internal/application"
	"harmonyscope/internal/logging"
	"harmonyscope/internal/ports"
)

func demoStore(t *testing.T, name string, commits int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	w, err := sqlite.CreateStore(path)
	require.NoError(t, err)
	_, err = sqlite.WriteDemoHistory(w, sqlite.DemoOptions{
		Commits:    commits,
		MaxChanges: 3,
		Start:      time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		Seed:       42,
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return path
}

func newInspector(t *testing.T, path string) (*Inspector, *application.Locator) {
	t.Helper()
	locator, err := application.NewLocator(path)
	require.NoError(t, err)
	return NewInspector(locator, sqliteSessions, sqlite.DatabaseName), locator
}

func call(t *testing.T, handler server.ToolHandlerFunc, args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestCommitsTool(t *testing.T) {
	insp, _ := newInspector(t, demoStore(t, "demo.sqlite", 8))

	out, isErr := call(t, commitsHandler(insp), map[string]any{"limit": 3})
	assert.False(t, isErr)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "... 5 more", lines[3])

	out, _ = call(t, commitsHandler(insp), map[string]any{"limit": 0})
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 8)

	out, isErr = call(t, commitsHandler(insp), map[string]any{"limit": -2})
	assert.True(t, isErr)
	assert.Contains(t, out, "limit must be at least 0")
}

func TestChangesTool(t *testing.T) {
	insp, _ := newInspector(t, demoStore(t, "demo.sqlite", 10))

	listing, err := insp.commits.Execute(context.Background())
	require.NoError(t, err)
	var hash string
	var count int
	for _, c := range listing.Commits {
		if c.ChangeCount > 0 {
			hash, count = c.Commit.Hash, c.ChangeCount
			break
		}
	}
	require.NotEmpty(t, hash, "demo history should contain a commit with changes")

	out, isErr := call(t, changesHandler(insp), map[string]any{"commit": hash[:10]})
	assert.False(t, isErr)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, count)
	assert.True(t, strings.HasPrefix(lines[0], "0 "))

	out, isErr = call(t, changesHandler(insp), map[string]any{"commit": "zzzz"})
	assert.True(t, isErr)
	assert.Contains(t, out, "not found")

	_, isErr = call(t, changesHandler(insp), map[string]any{})
	assert.True(t, isErr)
}

func TestTreeTool(t *testing.T) {
	insp, _ := newInspector(t, demoStore(t, "history.sqlite", 4))

	collapsed, isErr := call(t, treeHandler(insp), nil)
	assert.False(t, isErr)
	assert.True(t, strings.HasPrefix(collapsed, "history\n"))

	expanded, isErr := call(t, treeHandler(insp), map[string]any{"expand": true})
	assert.False(t, isErr)
	assert.GreaterOrEqual(t, len(expanded), len(collapsed))
}

func TestTypesAndStoreTools(t *testing.T) {
	path := demoStore(t, "demo.sqlite", 20)
	insp, _ := newInspector(t, path)

	out, isErr := call(t, typesHandler(insp), nil)
	assert.False(t, isErr)
	assert.Contains(t, out, "Change types:")
	assert.Contains(t, out, "Object types:")

	out, _ = call(t, storeHandler(insp), nil)
	assert.Equal(t, "demo ("+path+")", out)
}

func TestSwitchStoreTool(t *testing.T) {
	first := demoStore(t, "first.sqlite", 2)
	second := demoStore(t, "second.sqlite", 5)
	insp, locator := newInspector(t, first)

	out, isErr := call(t, switchStoreHandler(insp), map[string]any{"location": second})
	assert.False(t, isErr)
	assert.Contains(t, out, second)
	assert.Equal(t, second, locator.Location())

	_, isErr = call(t, switchStoreHandler(insp), map[string]any{"location": "  "})
	assert.True(t, isErr)
	assert.Equal(t, second, locator.Location())

	out, isErr = call(t, switchStoreHandler(insp), map[string]any{"location": filepath.Join(t.TempDir(), "missing.sqlite")})
	assert.True(t, isErr)
	assert.Contains(t, out, "still using "+second)
	assert.Equal(t, second, locator.Location())
}

func TestUnavailableStoreIsAToolError(t *testing.T) {
	insp, _ := newInspector(t, filepath.Join(t.TempDir(), "missing.sqlite"))

	out, isErr := call(t, commitsHandler(insp), nil)
	assert.True(t, isErr)
	assert.Contains(t, out, "file not found")
}

func sqliteSessions(source ports.LocationSource) ports.SessionFactory {
	return sqlite.NewSessionFactory(source, logging.Discard())
}

// observedSessions reports every session it opens before opening it
type observedSessions struct {
	ports.SessionFactory
	opening func()
}

func (o observedSessions) OpenSession(ctx context.Context) (ports.StoreSession, error) {
	o.opening()
	return o.SessionFactory.OpenSession(ctx)
}

func TestSwitchStoreTool_ChecksCandidateBeforeSwitching(t *testing.T) {
	first := demoStore(t, "first.sqlite", 2)
	second := demoStore(t, "second.sqlite", 3)
	locator, err := application.NewLocator(first)
	require.NoError(t, err)

	var sharedDuringOpen []string
	insp := NewInspector(locator, func(source ports.LocationSource) ports.SessionFactory {
		return observedSessions{
			SessionFactory: sqliteSessions(source),
			opening:        func() { sharedDuringOpen = append(sharedDuringOpen, locator.Location()) },
		}
	}, nil)

	_, isErr := call(t, switchStoreHandler(insp), map[string]any{"location": filepath.Join(t.TempDir(), "missing.sqlite")})
	assert.True(t, isErr)
	assert.Equal(t, []string{first}, sharedDuringOpen, "the shared locator never held the unreadable store")
	assert.Equal(t, first, locator.Location())

	sharedDuringOpen = nil
	out, isErr := call(t, switchStoreHandler(insp), map[string]any{"location": second})
	assert.False(t, isErr)
	assert.Contains(t, out, "Switched from "+first)
	assert.Equal(t, []string{first}, sharedDuringOpen, "the candidate is read before the switch")
	assert.Equal(t, second, locator.Location())
}
