package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"harmonyscope/internal/adapters/sqlite"
	"harmonyscope/internal/application"
)

func newSeedCmd() *cobra.Command {
	var (
		commits    int
		maxChanges int
		seed       uint64
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "seed <path>",
		Short: "Write a demo store with a generated commit history",
		Long: `Create a new SQLite store with the Harmony schema and fill it with a
plausible commit history. Useful for trying the inspector out.

Example:
  harmonyscope-cli seed /tmp/demo.sqlite --commits 200`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"store": "none"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := application.ValidateAtLeast("commits", commits, 1); err != nil {
				return usageError{err}
			}
			if err := application.ValidateAtLeast("maxChanges", maxChanges, 1); err != nil {
				return usageError{err}
			}
			path := args[0]
			if _, err := os.Stat(path); err == nil {
				if !force {
					return usageError{fmt.Errorf("%s already exists (use --force to replace it)", path)}
				}
				if err := os.Remove(path); err != nil {
					return err
				}
			}

			w, err := sqlite.CreateStore(path)
			if err != nil {
				return err
			}
			defer w.Close()

			written, err := sqlite.WriteDemoHistory(w, sqlite.DemoOptions{
				Commits:    commits,
				MaxChanges: maxChanges,
				Start:      time.Now().Truncate(time.Second).Add(-time.Duration(commits) * time.Minute),
				Seed:       seed,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d commits with %d changes to %s\n", commits, written, w.Path())
			return nil
		},
	}

	cmd.Flags().IntVar(&commits, "commits", 50, "number of commits to generate")
	cmd.Flags().IntVar(&maxChanges, "max-changes", 5, "maximum changes per commit")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing file")
	return cmd
}
