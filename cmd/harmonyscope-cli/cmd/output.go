package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"harmonyscope/internal/domain"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
}

// commitView is the serialized form of a commit
type commitView struct {
	Hash       string       `json:"hash" yaml:"hash"`
	ID         string       `json:"id" yaml:"id"`
	ParentHash string       `json:"parentHash,omitempty" yaml:"parentHash,omitempty"`
	ClientID   string       `json:"clientId" yaml:"clientId"`
	Date       string       `json:"date" yaml:"date"`
	Counter    int64        `json:"counter" yaml:"counter"`
	Changes    int          `json:"changeCount" yaml:"changeCount"`
	Loaded     []changeView `json:"changes,omitempty" yaml:"changes,omitempty"`
}

// changeView is the serialized form of a change
type changeView struct {
	Index      int    `json:"index" yaml:"index"`
	Kind       string `json:"kind" yaml:"kind"`
	Type       string `json:"type" yaml:"type"`
	ObjectType string `json:"objectType,omitempty" yaml:"objectType,omitempty"`
	EntityID   string `json:"entityId" yaml:"entityId"`
	Body       any    `json:"body,omitempty" yaml:"body,omitempty"`
}

func newCommitView(c domain.CommitSummary) commitView {
	return commitView{
		Hash:       c.Commit.Hash,
		ID:         c.Commit.ID.String(),
		ParentHash: c.Commit.ParentHash,
		ClientID:   c.Commit.ClientID.String(),
		Date:       c.Commit.Timestamp.DateTime.Format(time.RFC3339Nano),
		Counter:    c.Commit.Timestamp.Counter,
		Changes:    c.ChangeCount,
	}
}

func newChangeView(c domain.ChangeEntity, withBody bool) changeView {
	v := changeView{
		Index:      c.Index,
		Kind:       c.Change.Kind.String(),
		Type:       c.Change.DisplayName(),
		ObjectType: c.Change.ObjectType(),
		EntityID:   c.EntityID.String(),
	}
	if withBody && len(c.Change.Body) > 0 {
		// decoded so yaml shows the document rather than raw bytes
		var body any
		if err := json.Unmarshal(c.Change.Body, &body); err == nil {
			v.Body = body
		}
	}
	return v
}

// encode writes v as json or yaml
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return checkFormat(format)
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(rows)
	table.Render()
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

func relative(t time.Time, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}
