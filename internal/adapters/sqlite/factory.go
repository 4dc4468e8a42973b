package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"harmonyscope/internal/application"
	"harmonyscope/internal/ports"
)

const driverName = "sqlite3"

// SessionFactory opens read-only sessions on the store the locator points at
type SessionFactory struct {
	locator ports.LocationSource
	logger  *slog.Logger
	open    func(dsn string) (*sql.DB, error)
}

// Ensure SessionFactory implements SessionFactory
var _ ports.SessionFactory = (*SessionFactory)(nil)

// NewSessionFactory creates a session factory reading its location from locator
func NewSessionFactory(locator ports.LocationSource, logger *slog.Logger) *SessionFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionFactory{
		locator: locator,
		logger:  logger,
		open: func(dsn string) (*sql.DB, error) {
			return sql.Open(driverName, dsn)
		},
	}
}

// OpenSession opens a new session on the current location.
// Every failure is reported as an *application.StorageError.
func (f *SessionFactory) OpenSession(ctx context.Context) (ports.StoreSession, error) {
	location := f.locator.Location()

	path, err := ResolvePath(location)
	if err != nil {
		return nil, &application.StorageError{Location: location, Reason: "invalid location", Err: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &application.StorageError{Location: location, Reason: "file not found", Err: err}
	}
	if info.IsDir() {
		return nil, &application.StorageError{Location: location, Reason: "is a directory"}
	}

	db, err := f.open(readOnlyDSN(path))
	if err != nil {
		return nil, &application.StorageError{Location: location, Reason: "failed to open database", Err: err}
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &application.StorageError{Location: location, Reason: "database is unreadable", Err: err}
	}

	missing, err := missingColumns(ctx, db)
	if err != nil {
		db.Close()
		return nil, &application.StorageError{Location: location, Reason: "database is unreadable", Err: err}
	}
	if len(missing) > 0 {
		db.Close()
		return nil, &application.StorageError{
			Location: location,
			Reason:   "incompatible schema",
			Err:      fmt.Errorf("missing %s", strings.Join(missing, ", ")),
		}
	}

	f.logger.Debug("session opened", "path", path)
	return &session{
		db:     db,
		path:   path,
		logger: f.logger,
		opened: time.Now(),
	}, nil
}

// missingColumns returns the required columns the store lacks, as Table.Column
func missingColumns(ctx context.Context, db *sql.DB) ([]string, error) {
	var missing []string
	for _, req := range requiredColumns {
		present, err := tableColumns(ctx, db, req.table)
		if err != nil {
			return nil, err
		}
		for _, col := range req.columns {
			if !present[col] {
				missing = append(missing, req.table+"."+col)
			}
		}
	}
	return missing, nil
}

func tableColumns(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, tableColumnsQuery, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		present[name] = true
	}
	return present, rows.Err()
}

// readOnlyDSN builds a SQLite URI filename that opens path without write access
func readOnlyDSN(path string) string {
	u := url.URL{Scheme: "file", Path: path, RawQuery: "mode=ro"}
	return u.String()
}
