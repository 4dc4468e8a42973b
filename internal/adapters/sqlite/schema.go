package sqlite

import (
	"fmt"
	"time"
)

// timeLayout is how commit times are written
const timeLayout = "2006-01-02 15:04:05.0000000-07:00"

// accepted when reading; fractional seconds are optional in all of them
var readTimeLayouts = []string{
	"2006-01-02 15:04:05Z07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

const schema = `
	CREATE TABLE IF NOT EXISTS Commits (
		Id TEXT PRIMARY KEY,
		Hash TEXT NOT NULL,
		ParentHash TEXT NOT NULL DEFAULT '',
		DateTime TEXT NOT NULL,
		Counter INTEGER NOT NULL DEFAULT 0,
		ClientId TEXT NOT NULL,
		Metadata TEXT
	);
	CREATE TABLE IF NOT EXISTS ChangeEntities (
		CommitId TEXT NOT NULL REFERENCES Commits(Id) ON DELETE CASCADE,
		"Index" INTEGER NOT NULL,
		EntityId TEXT NOT NULL,
		Change TEXT NOT NULL,
		PRIMARY KEY (CommitId, "Index")
	);
	CREATE INDEX IF NOT EXISTS IX_Commits_DateTime ON Commits(DateTime, Counter);
	CREATE UNIQUE INDEX IF NOT EXISTS IX_Commits_Hash ON Commits(Hash);
`

// requiredColumns lists, per table, every column the session queries read
var requiredColumns = []struct {
	table   string
	columns []string
}{
	{table: "Commits", columns: []string{"Id", "Hash", "ParentHash", "DateTime", "Counter", "ClientId"}},
	{table: "ChangeEntities", columns: []string{"CommitId", "Index", "EntityId", "Change"}},
}

// a missing table has no rows
const tableColumnsQuery = `SELECT name FROM pragma_table_info(?)`

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range readTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized commit time %q", s)
}
