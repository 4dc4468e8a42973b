package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// connection string keys that name the database file
var dataSourceKeys = []string{"data source", "datasource", "filename", "initial catalog", "database"}

// ResolvePath turns a location into an absolute file path.
// A location is either a path (optionally starting with ~) or a connection
// string such as "Data Source=/data/project.sqlite;Cache=Shared".
func ResolvePath(location string) (string, error) {
	path := strings.TrimSpace(location)
	if source, ok := dataSource(path); ok {
		path = source
	}
	path = strings.TrimPrefix(path, "file:")
	if path == "" {
		return "", fmt.Errorf("no database file in %q", location)
	}

	// Expand ~ in path
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return abs, nil
}

// DatabaseName returns a short display name for a location: the file name without extension
func DatabaseName(location string) string {
	if strings.TrimSpace(location) == "" {
		return "(no connection)"
	}
	raw := strings.TrimSpace(location)
	if source, ok := dataSource(raw); ok {
		raw = source
	} else if strings.Contains(raw, "=") {
		return "(db)"
	}
	if raw == "" {
		return "(db)"
	}

	name := filepath.Base(raw)
	if noExt := strings.TrimSuffix(name, filepath.Ext(name)); noExt != "" {
		return noExt
	}
	return name
}

// dataSource extracts the file from a "key=value;key=value" connection string
func dataSource(cs string) (string, bool) {
	if !strings.Contains(cs, "=") {
		return "", false
	}
	for segment := range strings.SplitSeq(cs, ";") {
		key, value, ok := strings.Cut(segment, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		for _, k := range dataSourceKeys {
			if key == k {
				return strings.TrimSpace(value), true
			}
		}
	}
	return "", false
}
