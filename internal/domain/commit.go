package domain

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DateLayout is how commit times are shown in the tree
const DateLayout = "2006-01-02 15:04:05"

// HybridTime is a hybrid logical timestamp: wall clock plus a logical counter
type HybridTime struct {
	DateTime time.Time
	Counter  int64
}

// Compare orders by DateTime, then Counter. Returns -1, 0 or 1.
func (h HybridTime) Compare(other HybridTime) int {
	if c := h.DateTime.Compare(other.DateTime); c != 0 {
		return c
	}
	switch {
	case h.Counter < other.Counter:
		return -1
	case h.Counter > other.Counter:
		return 1
	}
	return 0
}

// Commit is an immutable, timestamped bundle of changes.
// Its change sequence is a lazily filled cache, empty until FillChanges runs.
type Commit struct {
	ID         uuid.UUID
	Hash       string
	ParentHash string
	ClientID   uuid.UUID
	Timestamp  HybridTime

	mu             sync.Mutex
	changeEntities []ChangeEntity
}

// ChangeEntities returns a copy of the loaded changes (empty if not loaded yet)
func (c *Commit) ChangeEntities() []ChangeEntity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.changeEntities)
}

// FillChanges stores changes into an empty sequence and returns the sequence.
// If the sequence was already filled it is left untouched.
func (c *Commit) FillChanges(changes []ChangeEntity) []ChangeEntity {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.changeEntities) == 0 {
		c.changeEntities = append(c.changeEntities, changes...)
	}
	return slices.Clone(c.changeEntities)
}

// CommitSummary pairs a commit with its change count, computed without loading payloads
type CommitSummary struct {
	Commit      *Commit
	ChangeCount int
}

// SortNewestFirst sorts commits by timestamp descending, keeping the order of ties
func SortNewestFirst(commits []CommitSummary) {
	slices.SortStableFunc(commits, func(a, b CommitSummary) int {
		return b.Commit.Timestamp.Compare(a.Commit.Timestamp)
	})
}
