package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"harmonyscope/internal/application"
	"harmonyscope/internal/application/commands"
	"harmonyscope/internal/domain"
)

func newTreeCmd(app *cli) *cobra.Command {
	var (
		expand bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Display commits and their changes as a tree",
		Long: `Display the commit hierarchy. Changes are only loaded with --expand.

Example:
  harmonyscope-cli tree --expand --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := application.ValidateAtLeast("limit", limit, 0); err != nil {
				return usageError{err}
			}
			ctx := cmd.Context()
			tree, err := commands.NewBuildTreeCommand(
				commands.NewLoadCommitsCommand(app.sessions),
				commands.NewChangeLoader(app.sessions),
			).Execute(ctx)
			if err != nil {
				return err
			}

			roots := tree.Roots
			if limit > 0 && limit < len(roots) {
				roots = roots[:limit]
			}

			if app.format != formatTable {
				views, err := treeViews(roots, expand)
				if err != nil {
					return err
				}
				return encode(cmd.OutOrStdout(), app.format, views)
			}

			fmt.Fprintln(cmd.OutOrStdout(), tree.Location)
			return printTree(cmd.OutOrStdout(), roots, expand)
		},
	}

	cmd.Flags().BoolVarP(&expand, "expand", "e", false, "load and show the changes of every commit")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many commits (0 for all)")
	return cmd
}

func printTree(w io.Writer, roots []domain.TreeNode, expand bool) error {
	for i, node := range roots {
		branch, indent := "├── ", "│   "
		if i == len(roots)-1 {
			branch, indent = "└── ", "    "
		}
		fmt.Fprintf(w, "%s%s  %s  %s\n", branch, shortHash(node.Identifier()), node.Date(), node.Label())

		if !expand || !node.HasChildren() {
			continue
		}
		children, err := node.Children()
		if err != nil {
			return err
		}
		for j, child := range children {
			leaf := "├── "
			if j == len(children)-1 {
				leaf = "└── "
			}
			fmt.Fprintf(w, "%s%s%s  %s\n", indent, leaf, child.Label(), child.Identifier())
		}
	}
	return nil
}

func treeViews(roots []domain.TreeNode, expand bool) ([]commitView, error) {
	views := make([]commitView, 0, len(roots))
	for _, root := range roots {
		node, ok := root.(*domain.CommitNode)
		if !ok {
			continue
		}
		v := newCommitView(domain.CommitSummary{Commit: node.Commit(), ChangeCount: node.ChangeCount()})
		if expand && node.HasChildren() {
			children, err := node.Children()
			if err != nil {
				return nil, err
			}
			for _, child := range children {
				if change, ok := child.(*domain.ChangeNode); ok {
					v.Loaded = append(v.Loaded, newChangeView(change.Entity(), false))
				}
			}
		}
		views = append(views, v)
	}
	return views, nil
}
