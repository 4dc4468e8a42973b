package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"harmonyscope/internal/adapters/tui/styles"
	"harmonyscope/internal/application/commands"
	"harmonyscope/internal/domain"
	"harmonyscope/internal/ports"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Copy     key.Binding
	View     key.Binding
	Reload   key.Binding
	Open     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+f"),
		key.WithHelp("pgdn", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("pgup", "ctrl+b"),
		key.WithHelp("pgup", "prev page"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy id"),
	),
	View: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "view change"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open store"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// BrowserOptions wires the browser to the inspection commands
type BrowserOptions struct {
	Tree     *commands.BuildTreeCommand
	Catalog  *commands.TypeCatalogCommand
	PageSize int
	// StoreName turns a location into the name shown in the header
	StoreName func(location string) string
	// Copy writes to the system clipboard; nil uses atotto/clipboard
	Copy func(text string) error
	// Viewer shows a change document; nil disables viewing
	Viewer ports.DocumentViewer
}

// row is one visible line of the flattened tree
type row struct {
	node  domain.TreeNode
	depth int
}

// BrowserModel shows the commit hierarchy and expands commits on demand
type BrowserModel struct {
	frame

	opts     BrowserOptions
	tree     *commands.Tree
	catalog  *domain.TypeCatalog
	expanded map[string]bool
	loading  map[string]bool
	rows     []row
	cursor   *rowCursor
	spinner  spinner.Model
	help     help.Model
	now      func() time.Time
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(opts BrowserOptions) *BrowserModel {
	if opts.StoreName == nil {
		opts.StoreName = func(location string) string { return location }
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.MutedText

	return &BrowserModel{
		opts:     opts,
		expanded: make(map[string]bool),
		loading:  make(map[string]bool),
		cursor:   newRowCursor(opts.PageSize),
		spinner:  s,
		help:     newHelp(),
		now:      time.Now,
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return m.loadTree
}

func (m *BrowserModel) loadTree() tea.Msg {
	ctx := context.Background()
	tree, err := m.opts.Tree.Execute(ctx)
	if err != nil {
		return errMsg{err}
	}

	msg := treeLoadedMsg{tree: tree}
	if m.opts.Catalog != nil {
		// the header degrades gracefully; the tree is what matters
		if catalog, err := m.opts.Catalog.Execute(ctx); err == nil {
			msg.catalog = catalog
		}
	}
	return msg
}

type treeLoadedMsg struct {
	tree    *commands.Tree
	catalog *domain.TypeCatalog
}

type errMsg struct {
	err error
}

type childrenLoadedMsg struct {
	id  string
	err error
}

type viewerClosedMsg struct {
	err error
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case treeLoadedMsg:
		m.tree = msg.tree
		m.catalog = msg.catalog
		m.refreshRows()
		return m, nil

	case childrenLoadedMsg:
		delete(m.loading, msg.id)
		if msg.err != nil {
			m.expanded[msg.id] = false
			m.SetMessage(msg.err.Error(), true)
		}
		m.refreshRows()
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case viewerClosedMsg:
		if msg.err != nil {
			m.SetMessage(fmt.Sprintf("Viewer failed: %v", msg.err), true)
		}
		return m, nil

	case spinner.TickMsg:
		if len(m.loading) == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		m.clearMessage()

		switch {
		case key.Matches(msg, BrowserKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, BrowserKeys.Up):
			m.cursor.up()
			return m, nil

		case key.Matches(msg, BrowserKeys.Down):
			m.cursor.down()
			return m, nil

		case key.Matches(msg, BrowserKeys.NextPage):
			m.cursor.nextPage()
			return m, nil

		case key.Matches(msg, BrowserKeys.PrevPage):
			m.cursor.prevPage()
			return m, nil

		case key.Matches(msg, BrowserKeys.Left):
			m.collapseOrParent()
			return m, nil

		case key.Matches(msg, BrowserKeys.Right):
			return m, m.expandSelected()

		case key.Matches(msg, BrowserKeys.Enter):
			if r := m.selected(); r != nil && m.expanded[r.node.Identifier()] {
				m.collapseOrParent()
				return m, nil
			}
			return m, m.expandSelected()

		case key.Matches(msg, BrowserKeys.Copy):
			if r := m.selected(); r != nil {
				id := r.node.Identifier()
				if err := m.opts.Copy(id); err != nil {
					m.SetMessage(fmt.Sprintf("Copy failed: %v", err), true)
				} else {
					m.SetMessage(fmt.Sprintf("Copied %s", id), false)
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.View):
			return m, m.viewSelected()

		case key.Matches(msg, BrowserKeys.Reload):
			return m, m.Reload()

		case key.Matches(msg, BrowserKeys.Open):
			return m, func() tea.Msg {
				return SwitchToOpenMsg{}
			}

		case key.Matches(msg, BrowserKeys.Help):
			return m, func() tea.Msg {
				return SwitchToHelpMsg{}
			}
		}
	}

	return m, nil
}

// expandSelected expands the selected commit, loading its changes in the background
// the first time. Change nodes and empty commits do not expand.
func (m *BrowserModel) expandSelected() tea.Cmd {
	r := m.selected()
	if r == nil || !r.node.HasChildren() {
		return nil
	}
	id := r.node.Identifier()
	if m.expanded[id] || m.loading[id] {
		return nil
	}
	m.expanded[id] = true

	if node, ok := r.node.(*domain.CommitNode); ok && node.LoadState() == domain.Loaded {
		m.refreshRows()
		return nil
	}

	m.loading[id] = true
	node := r.node
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		_, err := node.Children()
		return childrenLoadedMsg{id: id, err: err}
	})
}

// viewSelected opens the selected change document in the external viewer
func (m *BrowserModel) viewSelected() tea.Cmd {
	r := m.selected()
	if r == nil || m.opts.Viewer == nil {
		return nil
	}
	node, ok := r.node.(*domain.ChangeNode)
	if !ok {
		m.SetMessage("Select a change to view it", true)
		return nil
	}

	change := node.Entity().Change
	cmd, cleanup, err := m.opts.Viewer.Command(change.DisplayName(), change.Body)
	if err != nil {
		m.SetMessage(err.Error(), true)
		return nil
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		cleanup()
		return viewerClosedMsg{err: err}
	})
}

func (m *BrowserModel) collapseOrParent() {
	r := m.selected()
	if r == nil {
		return
	}
	id := r.node.Identifier()
	if m.expanded[id] {
		m.expanded[id] = false
		m.refreshRows()
		return
	}
	if r.depth == 0 {
		return
	}
	for i := m.cursor.index - 1; i >= 0; i-- {
		if m.rows[i].depth < r.depth {
			m.cursor.moveTo(i)
			return
		}
	}
}

func (m *BrowserModel) selected() *row {
	i := m.cursor.index
	if i >= 0 && i < len(m.rows) {
		return &m.rows[i]
	}
	return nil
}

// refreshRows flattens the expanded part of the tree. Children are only read
// from nodes that finished loading, so this never touches storage.
func (m *BrowserModel) refreshRows() {
	m.rows = m.rows[:0]
	if m.tree == nil {
		m.cursor.setTotal(0)
		return
	}
	for _, root := range m.tree.Roots {
		m.rows = append(m.rows, row{node: root})
		if !m.expanded[root.Identifier()] || m.loading[root.Identifier()] {
			continue
		}
		if node, ok := root.(*domain.CommitNode); ok && node.LoadState() != domain.Loaded {
			continue
		}
		children, err := root.Children()
		if err != nil {
			continue
		}
		for _, child := range children {
			m.rows = append(m.rows, row{node: child, depth: 1})
		}
	}
	m.cursor.setTotal(len(m.rows))
}

// View renders the browser
func (m *BrowserModel) View() string {
	sc := &screen{}
	if m.tree == nil {
		if m.status == "" {
			return "Loading..."
		}
		return sc.title("harmonyscope").
			status(&m.frame).
			keys(m.help, BrowserKeys.Reload, BrowserKeys.Open, BrowserKeys.Quit).
			String()
	}

	sc.title("harmonyscope " + m.opts.StoreName(m.tree.Location)).
		subtitle(m.tree.Location)

	if len(m.rows) == 0 {
		sc.muted("No commits")
	}
	start, end := m.cursor.visible()
	for i := start; i < end; i++ {
		sc.add(m.renderRow(m.rows[i], i == m.cursor.index))
	}

	sc.gap().add(m.footer())
	return sc.status(&m.frame).
		keys(m.help, BrowserKeys.ShortHelp()...).
		String()
}

// footer is the status bar: store name, commit count, object types and page
func (m *BrowserModel) footer() string {
	parts := []string{humanize.Comma(int64(len(m.tree.Roots))) + " commits"}
	if m.catalog != nil && len(m.catalog.ObjectTypes) > 0 {
		parts = append(parts, "types: "+strings.Join(m.catalog.ObjectTypes, ", "))
	}
	if m.cursor.multiPage() {
		parts = append(parts, m.cursor.pageLabel())
	}
	return styles.StatusKey.Render(m.opts.StoreName(m.tree.Location)) +
		styles.StatusBar.Render(styles.StatusText.Render(strings.Join(parts, " • ")))
}

func (m *BrowserModel) renderRow(r row, selected bool) string {
	id := r.node.Identifier()
	indent := strings.Repeat("  ", r.depth)

	var prefix string
	switch {
	case m.loading[id]:
		prefix = m.spinner.View() + " "
	case !r.node.HasChildren():
		prefix = styles.TreeLeaf
	case m.expanded[id]:
		prefix = styles.TreeExpanded
	default:
		prefix = styles.TreeCollapsed
	}

	var text string
	switch node := r.node.(type) {
	case *domain.CommitNode:
		text = fmt.Sprintf("%s  %s  %s (%s)",
			shortID(id), r.node.Date(), r.node.Label(),
			humanize.RelTime(node.Commit().Timestamp.DateTime, m.now(), "ago", "from now"))
	case *domain.ChangeNode:
		text = fmt.Sprintf("%-7s %s  %s", node.Entity().Change.Kind, r.node.Label(), shortID(id))
	default:
		text = r.node.Label()
	}

	styled := styles.NodeStyle(r.node).Render(text)
	if selected {
		styled = styles.NodeSelected.Render(text)
	}
	return indent + styles.TreeBranch.Render(prefix) + styled
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// Reload rebuilds the tree from the store, dropping every loaded change
func (m *BrowserModel) Reload() tea.Cmd {
	m.tree = nil
	m.rows = nil
	m.expanded = make(map[string]bool)
	m.loading = make(map[string]bool)
	m.cursor.reset()
	return m.loadTree
}

// Messages for view switching
type SwitchToOpenMsg struct{}

type SwitchToHelpMsg struct{}

type SwitchToBrowserMsg struct{}

// ShortHelp is the key summary under the tree
func (k BrowserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Right, k.Left, k.Copy, k.View, k.Reload, k.Open, k.Help, k.Quit}
}

// FullHelp groups every binding for the help view
func (k BrowserKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPage, k.PrevPage},
		{k.Right, k.Left, k.Enter},
		{k.Copy, k.View, k.Reload, k.Open},
		{k.Help, k.Quit},
	}
}
