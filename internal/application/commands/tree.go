package commands

import (
	"context"

	"harmonyscope/internal/domain"
)

// BuildHierarchy creates one commit node per commit, in input order.
// It does not touch storage; each node expands through load.
func BuildHierarchy(commits []domain.CommitSummary, load domain.ChangeLoaderFunc) []domain.TreeNode {
	roots := make([]domain.TreeNode, len(commits))
	for i, c := range commits {
		roots[i] = domain.NewCommitNode(c, load)
	}
	return roots
}

// Tree is the commit hierarchy of one store
type Tree struct {
	Location string
	Roots    []domain.TreeNode
}

// BuildTreeCommand loads the commit list and builds the lazy hierarchy
type BuildTreeCommand struct {
	commits *LoadCommitsCommand
	loader  *ChangeLoader
}

// NewBuildTreeCommand creates a new BuildTreeCommand
func NewBuildTreeCommand(commits *LoadCommitsCommand, loader *ChangeLoader) *BuildTreeCommand {
	return &BuildTreeCommand{
		commits: commits,
		loader:  loader,
	}
}

// Execute runs the build tree command
func (c *BuildTreeCommand) Execute(ctx context.Context) (*Tree, error) {
	listing, err := c.commits.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return &Tree{
		Location: listing.Location,
		Roots:    BuildHierarchy(listing.Commits, c.loader.Func(ctx)),
	}, nil
}
