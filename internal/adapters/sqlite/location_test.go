package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name     string
		location string
		want     string
	}{
		{name: "absolute path", location: "/data/sena-3.sqlite", want: "/data/sena-3.sqlite"},
		{name: "relative path", location: "test-data/a.sqlite", want: filepath.Join(cwd, "test-data/a.sqlite")},
		{name: "home path", location: "~/crdt/a.sqlite", want: filepath.Join(home, "crdt/a.sqlite")},
		{name: "file uri", location: "file:/data/a.sqlite", want: "/data/a.sqlite"},
		{name: "data source", location: "Data Source=/data/a.sqlite;Cache=Shared", want: "/data/a.sqlite"},
		{name: "datasource without space", location: "Mode=ReadOnly; DataSource = /data/b.sqlite", want: "/data/b.sqlite"},
		{name: "filename key", location: "Filename=/data/c.db", want: "/data/c.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePath(tt.location)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePath_Invalid(t *testing.T) {
	for _, location := range []string{"", "   ", "Data Source=;Cache=Shared"} {
		_, err := ResolvePath(location)
		assert.Error(t, err, "location %q", location)
	}
}

func TestDatabaseName(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{location: "D:/code/harmony-debugger/test-data/sena-3.sqlite", want: "sena-3"},
		{location: "/data/project.db", want: "project"},
		{location: "Data Source=/data/project.sqlite;Cache=Shared", want: "project"},
		{location: "Initial Catalog=archive", want: "archive"},
		{location: "Cache=Shared;Mode=ReadOnly", want: "(db)"},
		{location: "Data Source=", want: "(db)"},
		{location: "", want: "(no connection)"},
		{location: "plain", want: "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			assert.Equal(t, tt.want, DatabaseName(tt.location))
		})
	}
}
