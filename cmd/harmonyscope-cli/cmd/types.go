package cmd

import (
	"github.com/spf13/cobra"

	"harmonyscope/internal/application/commands"
)

func newTypesCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the change and object types in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := commands.NewTypeCatalogCommand(app.sessions).Execute(cmd.Context())
			if err != nil {
				return err
			}

			if app.format != formatTable {
				return encode(cmd.OutOrStdout(), app.format, map[string][]string{
					"changeTypes": catalog.ChangeTypes,
					"objectTypes": catalog.ObjectTypes,
				})
			}

			rows := make([][]string, 0, len(catalog.ChangeTypes)+len(catalog.ObjectTypes))
			for _, t := range catalog.ChangeTypes {
				rows = append(rows, []string{"change", t})
			}
			for _, t := range catalog.ObjectTypes {
				rows = append(rows, []string{"object", t})
			}
			renderTable(cmd.OutOrStdout(), []string{"Kind", "Type"}, rows)
			return nil
		},
	}
}
