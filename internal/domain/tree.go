package domain

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// TreeNode is a node of the commit/change hierarchy as seen by a presentation layer
type TreeNode interface {
	HasChildren() bool
	// Children returns nil for leaves. Calling it may load data from storage.
	Children() ([]TreeNode, error)
	Label() string
	Date() string
	Identifier() string
}

// ChangeLoaderFunc loads the ordered changes of a commit
type ChangeLoaderFunc func(commit *Commit) ([]ChangeEntity, error)

// LoadState tracks whether a commit node's children have been materialized
type LoadState int32

const (
	NotLoaded LoadState = iota
	Loading
	Loaded
)

// String returns the string representation of the LoadState
func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "not loaded"
	}
}

// CommitNode wraps a commit. Its children are loaded on first access and cached.
type CommitNode struct {
	commit *Commit
	count  int
	load   ChangeLoaderFunc

	mu       sync.Mutex
	state    atomic.Int32
	children []TreeNode
}

// NewCommitNode creates a commit node that expands through load
func NewCommitNode(summary CommitSummary, load ChangeLoaderFunc) *CommitNode {
	return &CommitNode{
		commit: summary.Commit,
		count:  summary.ChangeCount,
		load:   load,
	}
}

// Commit returns the wrapped commit
func (n *CommitNode) Commit() *Commit {
	return n.commit
}

// ChangeCount returns the precomputed number of changes
func (n *CommitNode) ChangeCount() int {
	return n.count
}

// LoadState reports the current load state without blocking
func (n *CommitNode) LoadState() LoadState {
	return LoadState(n.state.Load())
}

// HasChildren is derived from the precomputed count, never from loaded data
func (n *CommitNode) HasChildren() bool {
	return n.count > 0
}

// Children loads the commit's changes exactly once. A failed load is not cached.
func (n *CommitNode) Children() ([]TreeNode, error) {
	if !n.HasChildren() {
		return nil, nil
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.LoadState() == Loaded {
		return n.children, nil
	}

	n.state.Store(int32(Loading))
	changes, err := n.load(n.commit)
	if err != nil {
		n.state.Store(int32(NotLoaded))
		return nil, err
	}

	children := make([]TreeNode, len(changes))
	for i, c := range changes {
		children[i] = NewChangeNode(c)
	}
	n.children = children
	n.state.Store(int32(Loaded))
	return n.children, nil
}

// Label is the change count, e.g. "3 changes"
func (n *CommitNode) Label() string {
	if n.count == 1 {
		return "1 change"
	}
	return fmt.Sprintf("%d changes", n.count)
}

// Date formats the commit's wall-clock time
func (n *CommitNode) Date() string {
	return n.commit.Timestamp.DateTime.Format(DateLayout)
}

// Identifier is the commit hash
func (n *CommitNode) Identifier() string {
	return n.commit.Hash
}

// ChangeNode is a leaf wrapping a single change
type ChangeNode struct {
	entity ChangeEntity
}

// NewChangeNode creates a leaf node for a change
func NewChangeNode(entity ChangeEntity) *ChangeNode {
	return &ChangeNode{entity: entity}
}

// Entity returns the wrapped change
func (n *ChangeNode) Entity() ChangeEntity {
	return n.entity
}

func (n *ChangeNode) HasChildren() bool { return false }

func (n *ChangeNode) Children() ([]TreeNode, error) { return nil, nil }

// Label is the pretty-printed change type
func (n *ChangeNode) Label() string {
	return n.entity.Change.DisplayName()
}

func (n *ChangeNode) Date() string { return "" }

// Identifier is the id of the entity the change targets
func (n *ChangeNode) Identifier() string {
	return n.entity.EntityID.String()
}
