package styles

import (
	"github.com/charmbracelet/lipgloss"

	"harmonyscope/internal/domain"
)

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")

	// Change kind colors
	KindCreate = lipgloss.Color("#10B981") // Green
	KindPatch  = lipgloss.Color("#60A5FA") // Blue
	KindDelete = lipgloss.Color("#EF4444") // Red
	KindOrder  = lipgloss.Color("#F59E0B") // Amber

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Tree node styles
	NodeCommit = lipgloss.NewStyle().
			Bold(true)

	NodeEmptyCommit = lipgloss.NewStyle().
			Foreground(Muted)

	NodeChange = lipgloss.NewStyle()

	NodeSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	// Tree indicators
	TreeBranch    = lipgloss.NewStyle().Foreground(Muted)
	TreeExpanded  = "▼ "
	TreeCollapsed = "▶ "
	TreeLeaf      = "  "

	// Footer: store name on the left, counts after it
	StatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(White).
			Padding(0, 1)

	StatusKey = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Padding(0, 1).
			MarginRight(1)

	StatusText = lipgloss.NewStyle().
			Foreground(Muted)

	// Input styles
	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	InputFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Secondary).
			Padding(0, 1)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted)

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// Muted text style (for using Muted color as a style)
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// KindColor returns the color for a change kind
func KindColor(kind domain.ChangeKind) lipgloss.Color {
	switch kind {
	case domain.KindCreate:
		return KindCreate
	case domain.KindJSONPatch:
		return KindPatch
	case domain.KindDelete:
		return KindDelete
	case domain.KindSetOrder:
		return KindOrder
	default:
		return Primary
	}
}

// NodeStyle picks the style for a tree row
func NodeStyle(node domain.TreeNode) lipgloss.Style {
	switch n := node.(type) {
	case *domain.CommitNode:
		if !n.HasChildren() {
			return NodeEmptyCommit
		}
		return NodeCommit
	case *domain.ChangeNode:
		return NodeChange.Foreground(KindColor(n.Entity().Change.Kind))
	}
	return NodeChange
}
