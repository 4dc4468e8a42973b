package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harmonyscope/internal/application"
	"harmonyscope/internal/application/commands"
	"harmonyscope/internal/domain"
)

func createDemoStore(t *testing.T, name string, commits int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	w, err := CreateStore(path)
	require.NoError(t, err)
	_, err = WriteDemoHistory(w, DemoOptions{
		Commits:    commits,
		MaxChanges: 4,
		Start:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Seed:       7,
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return path
}

// rawStore creates a database at path by running stmts directly
func rawStore(t *testing.T, path string, stmts ...string) {
	t.Helper()
	db, err := sql.Open(driverName, path)
	require.NoError(t, err)
	defer db.Close()
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
}

func TestStore_CommitsAndChanges(t *testing.T) {
	path := createDemoStore(t, "demo.sqlite", 25)
	locator, err := application.NewLocator(path)
	require.NoError(t, err)
	factory := NewSessionFactory(locator, discard)
	ctx := context.Background()

	listing, err := commands.NewLoadCommitsCommand(factory).Execute(ctx)
	require.NoError(t, err)
	require.Len(t, listing.Commits, 25)
	assert.Equal(t, path, listing.Location)

	for i := 1; i < len(listing.Commits); i++ {
		prev, cur := listing.Commits[i-1].Commit.Timestamp, listing.Commits[i].Commit.Timestamp
		assert.LessOrEqual(t, cur.Compare(prev), 0, "commit %d is newer than its predecessor", i)
	}

	loader := commands.NewChangeLoader(factory)
	withChanges := 0
	for _, c := range listing.Commits {
		changes, err := loader.Load(ctx, c.Commit)
		require.NoError(t, err)
		assert.Len(t, changes, c.ChangeCount)
		for i, change := range changes {
			assert.Equal(t, i, change.Index)
			assert.Equal(t, c.Commit.ID, change.CommitID)
			assert.NotEmpty(t, change.Change.DisplayName())
		}
		if c.ChangeCount > 0 {
			withChanges++
		}
	}
	assert.Positive(t, withChanges)
}

func TestStore_TypeCatalog(t *testing.T) {
	path := createDemoStore(t, "demo.sqlite", 40)
	locator, err := application.NewLocator(path)
	require.NoError(t, err)

	catalog, err := commands.NewTypeCatalogCommand(NewSessionFactory(locator, discard)).Execute(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, catalog.ChangeTypes)
	assert.Subset(t, demoObjectTypes, catalog.ObjectTypes)
	assert.IsIncreasing(t, catalog.ChangeTypes)
}

func TestStore_SwitchingLocation(t *testing.T) {
	small := createDemoStore(t, "small.sqlite", 3)
	large := createDemoStore(t, "large.sqlite", 12)

	locator, err := application.NewLocator(small)
	require.NoError(t, err)
	load := commands.NewLoadCommitsCommand(NewSessionFactory(locator, discard))

	listing, err := load.Execute(context.Background())
	require.NoError(t, err)
	assert.Len(t, listing.Commits, 3)

	require.NoError(t, locator.SetLocation(large))
	listing, err = load.Execute(context.Background())
	require.NoError(t, err)
	assert.Len(t, listing.Commits, 12)
	assert.Equal(t, large, listing.Location)
}

func TestStore_Unavailable(t *testing.T) {
	dir := t.TempDir()

	foreign := filepath.Join(dir, "foreign.sqlite")
	w, err := CreateStore(foreign)
	require.NoError(t, err)
	_, err = w.db.Exec(`DROP TABLE ChangeEntities`)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	partial := filepath.Join(dir, "partial.sqlite")
	rawStore(t, partial,
		`CREATE TABLE Commits (Id TEXT PRIMARY KEY)`,
		`CREATE TABLE ChangeEntities (Foo TEXT)`,
	)

	garbage := filepath.Join(dir, "garbage.sqlite")
	require.NoError(t, os.WriteFile(garbage, []byte(strings.Repeat("not a database ", 100)), 0644))

	tests := []struct {
		name     string
		location string
		reason   string
	}{
		{name: "missing file", location: filepath.Join(dir, "missing.sqlite"), reason: "file not found"},
		{name: "directory", location: dir, reason: "is a directory"},
		{name: "foreign schema", location: foreign, reason: "incompatible schema"},
		{name: "missing columns", location: partial, reason: "incompatible schema"},
		{name: "not a database", location: garbage, reason: "unreadable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locator, err := application.NewLocator(tt.location)
			require.NoError(t, err)

			_, err = NewSessionFactory(locator, discard).OpenSession(context.Background())
			require.ErrorIs(t, err, application.ErrStorageUnavailable)

			var storageErr *application.StorageError
			require.ErrorAs(t, err, &storageErr)
			assert.Contains(t, storageErr.Reason, tt.reason)
			assert.Equal(t, tt.location, storageErr.Location)
		})
	}
}

func TestStore_MalformedChangeFailsTheLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.sqlite")
	w, err := CreateStore(path)
	require.NoError(t, err)

	commit := &domain.Commit{
		ID:        uuid.New(),
		Hash:      "bad",
		ClientID:  uuid.New(),
		Timestamp: domain.HybridTime{DateTime: time.Now()},
	}
	tx, err := w.BeginTx()
	require.NoError(t, err)
	require.NoError(t, tx.InsertCommit(commit))
	require.NoError(t, tx.InsertChange(commit.ID, 0, uuid.New(), []byte(`{"no":"type"}`)))
	require.NoError(t, tx.Commit())
	require.NoError(t, w.Close())

	locator, err := application.NewLocator(path)
	require.NoError(t, err)
	factory := NewSessionFactory(locator, discard)

	listing, err := commands.NewLoadCommitsCommand(factory).Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, listing.Commits, 1)
	assert.Equal(t, 1, listing.Commits[0].ChangeCount)

	_, err = commands.NewChangeLoader(factory).Load(context.Background(), listing.Commits[0].Commit)
	assert.ErrorIs(t, err, application.ErrQueryFailed)
	assert.Empty(t, listing.Commits[0].Commit.ChangeEntities())
}

func TestStore_SessionIsReadOnly(t *testing.T) {
	path := createDemoStore(t, "demo.sqlite", 1)
	locator, err := application.NewLocator(path)
	require.NoError(t, err)

	s, err := NewSessionFactory(locator, discard).OpenSession(context.Background())
	require.NoError(t, err)
	defer s.Close()

	_, err = s.(*session).db.Exec(`DELETE FROM Commits`)
	assert.Error(t, err)
}

func TestStore_CommitIDCaseDoesNotSplitCountsFromChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.sqlite")
	commitID := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	// another writer stored the commit id upper-case and the change's reference lower-case
	rawStore(t, path,
		schema,
		fmt.Sprintf(`INSERT INTO Commits (Id, Hash, DateTime, Counter, ClientId) VALUES ('%s', 'abc123', '%s', 0, '%s')`,
			strings.ToUpper(commitID.String()), formatTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), uuid.NewString()),
		fmt.Sprintf(`INSERT INTO ChangeEntities (CommitId, "Index", EntityId, Change) VALUES ('%s', 0, '%s', '{"$type":"DeleteChange<Entry>"}')`,
			commitID.String(), uuid.NewString()),
	)

	locator, err := application.NewLocator(path)
	require.NoError(t, err)
	factory := NewSessionFactory(locator, discard)
	ctx := context.Background()

	listing, err := commands.NewLoadCommitsCommand(factory).Execute(ctx)
	require.NoError(t, err)
	require.Len(t, listing.Commits, 1)
	summary := listing.Commits[0]
	assert.Equal(t, commitID, summary.Commit.ID)
	assert.Equal(t, 1, summary.ChangeCount)

	changes, err := commands.NewChangeLoader(factory).Load(ctx, summary.Commit)
	require.NoError(t, err)
	assert.Len(t, changes, summary.ChangeCount)
}
