package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"harmonyscope/internal/application"
	"harmonyscope/internal/domain"
	"harmonyscope/internal/ports"
)

// counted with the same case-insensitive match changesQuery uses
const commitsQuery = `
	SELECT c.Id, c.Hash, c.ParentHash, c.DateTime, c.Counter, c.ClientId,
		(SELECT COUNT(*) FROM ChangeEntities ce WHERE ce.CommitId = c.Id COLLATE NOCASE) AS ChangeCount
	FROM Commits c
	ORDER BY c.DateTime DESC, c.Counter DESC
`

// CommitId casing differs between writers, so the match ignores case
const changesQuery = `
	SELECT "Index", EntityId, Change
	FROM ChangeEntities
	WHERE CommitId = ? COLLATE NOCASE
	ORDER BY "Index" ASC
`

const changeTypesQuery = `
	SELECT DISTINCT json_extract(Change, '$."$type"') AS ChangeType
	FROM ChangeEntities
	WHERE json_extract(Change, '$."$type"') IS NOT NULL
`

// session implements ports.StoreSession over one read-only connection
type session struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	opened time.Time
}

// Ensure session implements StoreSession
var _ ports.StoreSession = (*session)(nil)

// QueryCommits returns all commits with change counts, newest first
func (s *session) QueryCommits(ctx context.Context) ([]domain.CommitSummary, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, commitsQuery)
	if err != nil {
		return nil, &application.QueryError{Op: "query commits", Err: err}
	}
	defer rows.Close()

	var commits []domain.CommitSummary
	for rows.Next() {
		var (
			id, hash, dateTime string
			parentHash, client sql.NullString
			counter            int64
			count              int
		)
		if err := rows.Scan(&id, &hash, &parentHash, &dateTime, &counter, &client, &count); err != nil {
			return nil, &application.QueryError{Op: "query commits", Err: err}
		}

		commit, err := newCommit(id, hash, parentHash.String, dateTime, counter, client.String)
		if err != nil {
			return nil, &application.QueryError{Op: "query commits", Err: err}
		}
		commits = append(commits, domain.CommitSummary{Commit: commit, ChangeCount: count})
	}
	if err := rows.Err(); err != nil {
		return nil, &application.QueryError{Op: "query commits", Err: err}
	}

	s.logger.Debug("commits loaded", "count", len(commits), "duration", time.Since(start))
	return commits, nil
}

// QueryChanges returns the changes of one commit ordered by index
func (s *session) QueryChanges(ctx context.Context, commitID uuid.UUID) ([]domain.ChangeEntity, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, changesQuery, commitID.String())
	if err != nil {
		return nil, &application.QueryError{Op: "query changes", Err: err}
	}
	defer rows.Close()

	var changes []domain.ChangeEntity
	for rows.Next() {
		var (
			index    int
			entityID string
			body     []byte
		)
		if err := rows.Scan(&index, &entityID, &body); err != nil {
			return nil, &application.QueryError{Op: "query changes", Err: err}
		}

		entity, err := uuid.Parse(entityID)
		if err != nil {
			return nil, &application.QueryError{Op: "query changes", Err: fmt.Errorf("entity id %q: %w", entityID, err)}
		}
		change, err := domain.DecodeChange(body)
		if err != nil {
			return nil, &application.QueryError{
				Op:  "query changes",
				Err: fmt.Errorf("change %d of commit %s: %w", index, commitID, err),
			}
		}

		changes = append(changes, domain.ChangeEntity{
			Index:    index,
			CommitID: commitID,
			EntityID: entity,
			Change:   change,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &application.QueryError{Op: "query changes", Err: err}
	}

	s.logger.Debug("changes loaded", "commit", commitID, "count", len(changes), "duration", time.Since(start))
	return changes, nil
}

// QueryChangeTypes returns the distinct change type tags in the store
func (s *session) QueryChangeTypes(ctx context.Context) ([]domain.TypeName, error) {
	rows, err := s.db.QueryContext(ctx, changeTypesQuery)
	if err != nil {
		return nil, &application.QueryError{Op: "query change types", Err: err}
	}
	defer rows.Close()

	var types []domain.TypeName
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, &application.QueryError{Op: "query change types", Err: err}
		}
		t, err := domain.ParseTypeName(tag)
		if err != nil {
			return nil, &application.QueryError{Op: "query change types", Err: err}
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &application.QueryError{Op: "query change types", Err: err}
	}
	return types, nil
}

// Location returns the resolved database file path
func (s *session) Location() string {
	return s.path
}

// Close closes the database connection
func (s *session) Close() error {
	s.logger.Debug("session closed", "path", s.path, "duration", time.Since(s.opened))
	return s.db.Close()
}

func newCommit(id, hash, parentHash, dateTime string, counter int64, client string) (*domain.Commit, error) {
	commitID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("commit id %q: %w", id, err)
	}
	when, err := parseTime(dateTime)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", hash, err)
	}

	var clientID uuid.UUID
	if client != "" {
		if clientID, err = uuid.Parse(client); err != nil {
			return nil, fmt.Errorf("client id %q: %w", client, err)
		}
	}

	return &domain.Commit{
		ID:         commitID,
		Hash:       hash,
		ParentHash: parentHash,
		ClientID:   clientID,
		Timestamp:  domain.HybridTime{DateTime: when, Counter: counter},
	}, nil
}
