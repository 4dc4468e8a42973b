package cmd

import (
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"harmonyscope/internal/adapters/sqlite"
	"harmonyscope/internal/application/commands"
	"harmonyscope/internal/domain"
)

// storeInfo summarizes one store
type storeInfo struct {
	Name     string `json:"name" yaml:"name"`
	Location string `json:"location" yaml:"location"`
	Path     string `json:"path" yaml:"path"`
	Size     uint64 `json:"sizeBytes" yaml:"sizeBytes"`
	Commits  int    `json:"commits" yaml:"commits"`
	Changes  int    `json:"changes" yaml:"changes"`
	Newest   string `json:"newest,omitempty" yaml:"newest,omitempty"`
	Oldest   string `json:"oldest,omitempty" yaml:"oldest,omitempty"`
}

func newInfoCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Summarize the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listing, err := commands.NewLoadCommitsCommand(app.sessions).Execute(cmd.Context())
			if err != nil {
				return err
			}

			info := storeInfo{
				Name:     sqlite.DatabaseName(listing.Location),
				Location: app.locator.Location(),
				Path:     listing.Location,
				Commits:  len(listing.Commits),
			}
			if fi, err := os.Stat(listing.Location); err == nil {
				info.Size = uint64(fi.Size())
			}
			for _, c := range listing.Commits {
				info.Changes += c.ChangeCount
			}
			if n := len(listing.Commits); n > 0 {
				info.Newest = listing.Commits[0].Commit.Timestamp.DateTime.Format(time.RFC3339)
				info.Oldest = listing.Commits[n-1].Commit.Timestamp.DateTime.Format(time.RFC3339)
			}

			if app.format != formatTable {
				return encode(cmd.OutOrStdout(), app.format, info)
			}

			rows := [][]string{
				{"Name", info.Name},
				{"Path", info.Path},
				{"Size", humanize.Bytes(info.Size)},
				{"Commits", humanize.Comma(int64(info.Commits))},
				{"Changes", humanize.Comma(int64(info.Changes))},
			}
			if n := len(listing.Commits); n > 0 {
				now := time.Now()
				newest := listing.Commits[0].Commit.Timestamp.DateTime
				oldest := listing.Commits[n-1].Commit.Timestamp.DateTime
				rows = append(rows,
					[]string{"Newest", newest.Format(domain.DateLayout) + " (" + relative(newest, now) + ")"},
					[]string{"Oldest", oldest.Format(domain.DateLayout) + " (" + relative(oldest, now) + ")"},
					[]string{"Avg changes", strconv.FormatFloat(float64(info.Changes)/float64(n), 'f', 1, 64)},
				)
			}
			renderTable(cmd.OutOrStdout(), []string{"Field", "Value"}, rows)
			return nil
		},
	}
}
