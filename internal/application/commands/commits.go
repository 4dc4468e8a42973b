package commands

import (
	"context"
	"fmt"
	"strings"

	"harmonyscope/internal/application"
	"harmonyscope/internal/domain"
	"harmonyscope/internal/ports"
)

// LoadCommits reads the commit list with change counts from an open session.
// Change payloads are not loaded. The result is ordered newest first.
func LoadCommits(ctx context.Context, session ports.StoreSession) ([]domain.CommitSummary, error) {
	commits, err := session.QueryCommits(ctx)
	if err != nil {
		return nil, err
	}
	domain.SortNewestFirst(commits)
	return commits, nil
}

// CommitListing is the result of loading the commit list
type CommitListing struct {
	Location string
	Commits  []domain.CommitSummary
}

// LoadCommitsCommand opens a session, loads the commit list and closes the session
type LoadCommitsCommand struct {
	sessions ports.SessionFactory
}

// NewLoadCommitsCommand creates a new LoadCommitsCommand
func NewLoadCommitsCommand(sessions ports.SessionFactory) *LoadCommitsCommand {
	return &LoadCommitsCommand{sessions: sessions}
}

// Execute runs the load commits command
func (c *LoadCommitsCommand) Execute(ctx context.Context) (*CommitListing, error) {
	session, err := c.sessions.OpenSession(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	commits, err := LoadCommits(ctx, session)
	if err != nil {
		return nil, err
	}

	return &CommitListing{
		Location: session.Location(),
		Commits:  commits,
	}, nil
}

// FindCommit returns the commit whose hash or ID starts with prefix.
// An ambiguous prefix is a validation error.
func FindCommit(commits []domain.CommitSummary, prefix string) (domain.CommitSummary, error) {
	if err := application.ValidateRequired("commitHash", prefix); err != nil {
		return domain.CommitSummary{}, err
	}
	prefix = strings.ToLower(strings.TrimSpace(prefix))

	var matches []domain.CommitSummary
	for _, c := range commits {
		if strings.HasPrefix(strings.ToLower(c.Commit.Hash), prefix) ||
			strings.HasPrefix(c.Commit.ID.String(), prefix) {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return domain.CommitSummary{}, fmt.Errorf("commit %s: %w", prefix, application.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return domain.CommitSummary{}, &application.ValidationError{
			Field:   "commitHash",
			Message: fmt.Sprintf("prefix %s matches %d commits", prefix, len(matches)),
		}
	}
}
