package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"harmonyscope/internal/adapters/tui/styles"
	"harmonyscope/internal/domain"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// changeKinds is the legend shown under the key reference
var changeKinds = []struct {
	kind    domain.ChangeKind
	example string
}{
	{domain.KindCreate, "Create<Type>Change"},
	{domain.KindJSONPatch, "JsonPatchChange<Type>"},
	{domain.KindDelete, "DeleteChange<Type>"},
	{domain.KindSetOrder, "SetOrderChange<Type>"},
}

// HelpModel lists every browser key and the change kind colors
type HelpModel struct {
	frame
	help help.Model
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	h := newHelp()
	h.ShowAll = true
	return &HelpModel{help: h}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	sc := (&screen{}).
		title("harmonyscope help").
		subtitle("Read-only browser for CRDT commit logs").
		add(m.help.View(BrowserKeys)).
		gap().
		add(styles.InputLabel.Render("Change kinds"))

	for _, ck := range changeKinds {
		kind := styles.NodeChange.Foreground(styles.KindColor(ck.kind)).Render(fmt.Sprintf("%-7s", ck.kind))
		sc.add("  " + kind + " " + styles.MutedText.Render(ck.example))
	}

	return sc.keys(m.help, HelpKeys.Close).String()
}
