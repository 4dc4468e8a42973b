package commands

import (
	"context"

	"harmonyscope/internal/domain"
	"harmonyscope/internal/ports"
)

// ChangeLoader loads a commit's changes on demand and caches them on the commit
type ChangeLoader struct {
	sessions ports.SessionFactory
}

// NewChangeLoader creates a new ChangeLoader
func NewChangeLoader(sessions ports.SessionFactory) *ChangeLoader {
	return &ChangeLoader{sessions: sessions}
}

// Load returns the commit's changes ordered by index.
// If the commit already holds changes they are returned without touching storage.
func (l *ChangeLoader) Load(ctx context.Context, commit *domain.Commit) ([]domain.ChangeEntity, error) {
	if loaded := commit.ChangeEntities(); len(loaded) > 0 {
		return loaded, nil
	}

	session, err := l.sessions.OpenSession(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	changes, err := session.QueryChanges(ctx, commit.ID)
	if err != nil {
		return nil, err
	}

	return commit.FillChanges(changes), nil
}

// Func adapts the loader to the tree's loader signature.
// The context is detached from cancellation since expansion happens long after the tree is built.
func (l *ChangeLoader) Func(ctx context.Context) domain.ChangeLoaderFunc {
	ctx = context.WithoutCancel(ctx)
	return func(commit *domain.Commit) ([]domain.ChangeEntity, error) {
		return l.Load(ctx, commit)
	}
}
