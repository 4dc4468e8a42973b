package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"harmonyscope/internal/domain"
)

// Writer creates and fills a CRDT store. The inspector itself never writes;
// this is for demo stores and tests.
type Writer struct {
	db   *sql.DB
	path string
}

// CreateStore opens (creating if needed) a store at path and ensures the schema exists
func CreateStore(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open(driverName, path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	return &Writer{db: db, path: path}, nil
}

// Path returns the store's file path
func (w *Writer) Path() string {
	return w.path
}

// Close closes the database connection
func (w *Writer) Close() error {
	return w.db.Close()
}

// BeginTx starts a new transaction
func (w *Writer) BeginTx() (*WriteTx, error) {
	tx, err := w.db.Begin()
	if err != nil {
		return nil, err
	}
	return &WriteTx{tx: tx}, nil
}

// WriteTx writes commits and their changes atomically
type WriteTx struct {
	tx *sql.Tx
}

// InsertCommit inserts a commit row
func (t *WriteTx) InsertCommit(commit *domain.Commit) error {
	_, err := t.tx.Exec(`
		INSERT INTO Commits (Id, Hash, ParentHash, DateTime, Counter, ClientId, Metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, commit.ID.String(), commit.Hash, commit.ParentHash,
		formatTime(commit.Timestamp.DateTime), commit.Timestamp.Counter,
		commit.ClientID.String(), "{}")
	return err
}

// InsertChange inserts one change of a commit. body must be a JSON object carrying "$type".
func (t *WriteTx) InsertChange(commitID uuid.UUID, index int, entityID uuid.UUID, body json.RawMessage) error {
	_, err := t.tx.Exec(`
		INSERT INTO ChangeEntities (CommitId, "Index", EntityId, Change)
		VALUES (?, ?, ?, ?)
	`, commitID.String(), index, entityID.String(), string(body))
	return err
}

// Commit commits the transaction
func (t *WriteTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *WriteTx) Rollback() error {
	return t.tx.Rollback()
}
