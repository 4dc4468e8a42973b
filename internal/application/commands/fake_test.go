package commands

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"harmonyscope/internal/domain"
	"harmonyscope/internal/ports"
)

// fakeStore is an in-memory store that counts sessions and queries
type fakeStore struct {
	mu       sync.Mutex
	location string
	source   ports.LocationSource
	commits  []fakeCommit
	types    []domain.TypeName

	openErr  error
	queryErr error

	opened       int
	closed       int
	commitQuery  int
	changeQuery  int
	typesQuery   int
	openLocation []string
}

type fakeCommit struct {
	id        uuid.UUID
	hash      string
	timestamp time.Time
	changes   []string
}

func (s *fakeStore) add(hash string, unix int64, changes ...string) uuid.UUID {
	id := uuid.New()
	s.commits = append(s.commits, fakeCommit{
		id:        id,
		hash:      hash,
		timestamp: time.Unix(unix, 0).UTC(),
		changes:   changes,
	})
	return id
}

func (s *fakeStore) OpenSession(ctx context.Context) (ports.StoreSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openErr != nil {
		return nil, s.openErr
	}
	s.opened++
	location := s.location
	if s.source != nil {
		location = s.source.Location()
	}
	s.openLocation = append(s.openLocation, location)
	return &fakeSession{store: s, location: location}, nil
}

func (s *fakeStore) counts() (opened, closed, commits, changes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened, s.closed, s.commitQuery, s.changeQuery
}

type fakeSession struct {
	store    *fakeStore
	location string
}

func (f *fakeSession) QueryCommits(ctx context.Context) ([]domain.CommitSummary, error) {
	s := f.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitQuery++
	if s.queryErr != nil {
		return nil, s.queryErr
	}

	// insertion order on purpose: ordering is the repository's job
	out := make([]domain.CommitSummary, 0, len(s.commits))
	for _, c := range s.commits {
		out = append(out, domain.CommitSummary{
			Commit: &domain.Commit{
				ID:        c.id,
				Hash:      c.hash,
				Timestamp: domain.HybridTime{DateTime: c.timestamp},
			},
			ChangeCount: len(c.changes),
		})
	}
	return out, nil
}

func (f *fakeSession) QueryChanges(ctx context.Context, commitID uuid.UUID) ([]domain.ChangeEntity, error) {
	s := f.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changeQuery++
	if s.queryErr != nil {
		return nil, s.queryErr
	}

	for _, c := range s.commits {
		if c.id != commitID {
			continue
		}
		out := make([]domain.ChangeEntity, len(c.changes))
		for i, tag := range c.changes {
			tn, err := domain.ParseTypeName(tag)
			if err != nil {
				return nil, err
			}
			out[i] = domain.ChangeEntity{
				Index:    i,
				CommitID: c.id,
				EntityID: uuid.New(),
				Change:   domain.Change{Type: tn},
			}
		}
		return out, nil
	}
	return nil, nil
}

func (f *fakeSession) QueryChangeTypes(ctx context.Context) ([]domain.TypeName, error) {
	s := f.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.typesQuery++
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.types, nil
}

func (f *fakeSession) Location() string {
	return f.location
}

func (f *fakeSession) Close() error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.closed++
	return nil
}
