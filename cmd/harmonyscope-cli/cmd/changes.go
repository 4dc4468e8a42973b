package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"harmonyscope/internal/application/commands"
)

func newChangesCmd(app *cli) *cobra.Command {
	var withBody bool

	cmd := &cobra.Command{
		Use:   "changes <commit>",
		Short: "Show the changes of one commit",
		Long: `Load the changes of a commit in index order. The commit is given by its
hash or id, or by an unambiguous prefix of either.

Examples:
  harmonyscope-cli changes 3f2a9c
  harmonyscope-cli changes 3f2a9c --body --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			listing, err := commands.NewLoadCommitsCommand(app.sessions).Execute(ctx)
			if err != nil {
				return err
			}
			summary, err := commands.FindCommit(listing.Commits, args[0])
			if err != nil {
				return err
			}

			changes, err := commands.NewChangeLoader(app.sessions).Load(ctx, summary.Commit)
			if err != nil {
				return err
			}

			if app.format != formatTable {
				views := make([]changeView, len(changes))
				for i, c := range changes {
					views[i] = newChangeView(c, withBody)
				}
				return encode(cmd.OutOrStdout(), app.format, views)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "commit %s (%d changes)\n", summary.Commit.Hash, summary.ChangeCount)
			rows := make([][]string, len(changes))
			for i, c := range changes {
				rows[i] = []string{
					strconv.Itoa(c.Index),
					c.Change.Kind.String(),
					c.Change.DisplayName(),
					c.EntityID.String(),
				}
			}
			renderTable(cmd.OutOrStdout(), []string{"Index", "Kind", "Type", "Entity"}, rows)

			if withBody {
				for _, c := range changes {
					fmt.Fprintf(cmd.OutOrStdout(), "\n#%d %s\n%s\n", c.Index, c.Change.DisplayName(), c.Change.Body)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withBody, "body", false, "include the stored change documents")
	return cmd
}
