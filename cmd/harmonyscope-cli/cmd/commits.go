package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"harmonyscope/internal/application"
	"harmonyscope/internal/application/commands"
	"harmonyscope/internal/domain"
)

func newCommitsCmd(app *cli) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "commits",
		Short: "List commits, newest first",
		Long: `List the commits of the store, newest first, with their change counts.
Change payloads are not read.

Examples:
  harmonyscope-cli commits --db ./project.sqlite
  harmonyscope-cli commits --limit 10 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := application.ValidateAtLeast("limit", limit, 0); err != nil {
				return usageError{err}
			}
			listing, err := commands.NewLoadCommitsCommand(app.sessions).Execute(cmd.Context())
			if err != nil {
				return err
			}

			commits := listing.Commits
			if limit > 0 && limit < len(commits) {
				commits = commits[:limit]
			}

			if app.format != formatTable {
				views := make([]commitView, len(commits))
				for i, c := range commits {
					views[i] = newCommitView(c)
				}
				return encode(cmd.OutOrStdout(), app.format, views)
			}

			now := time.Now()
			rows := make([][]string, len(commits))
			for i, c := range commits {
				rows[i] = []string{
					shortHash(c.Commit.Hash),
					c.Commit.Timestamp.DateTime.Format(domain.DateLayout),
					strconv.FormatInt(c.Commit.Timestamp.Counter, 10),
					strconv.Itoa(c.ChangeCount),
					relative(c.Commit.Timestamp.DateTime, now),
				}
			}
			renderTable(cmd.OutOrStdout(), []string{"Hash", "Date", "Counter", "Changes", "Age"}, rows)
			if len(commits) < len(listing.Commits) {
				fmt.Fprintf(cmd.OutOrStdout(), "showing %d of %s commits\n", len(commits), humanize.Comma(int64(len(listing.Commits))))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many commits (0 for all)")
	return cmd
}
