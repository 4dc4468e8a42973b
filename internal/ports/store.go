package ports

import (
	"context"

	"github.com/google/uuid"

	"harmonyscope/internal/domain"
)

// LocationSource provides the current store location at the moment it is asked
type LocationSource interface {
	Location() string
}

// StoreSession is a short-lived read handle on a CRDT store.
// Values it returns are detached and stay valid after Close.
type StoreSession interface {
	// QueryCommits returns every commit with its change count, newest first.
	// Change payloads are not read.
	QueryCommits(ctx context.Context) ([]domain.CommitSummary, error)

	// QueryChanges returns a commit's changes ordered by index
	QueryChanges(ctx context.Context, commitID uuid.UUID) ([]domain.ChangeEntity, error)

	// QueryChangeTypes returns the distinct change type tags present in the store
	QueryChangeTypes(ctx context.Context) ([]domain.TypeName, error)

	// Location returns the resolved physical location of the open store
	Location() string

	Close() error
}

// SessionFactory opens sessions against the location current at call time
type SessionFactory interface {
	OpenSession(ctx context.Context) (StoreSession, error)
}
