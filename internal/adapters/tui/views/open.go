package views

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"harmonyscope/internal/adapters/tui/styles"
	"harmonyscope/internal/application"
	"harmonyscope/internal/application/commands"
)

// OpenKeyMap defines key bindings for the open store prompt
type OpenKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

var OpenKeys = OpenKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// StoreSwitchedMsg is sent after the locator points at a new store
type StoreSwitchedMsg struct {
	Previous string
	Location string
}

// OpenModel prompts for another store location
type OpenModel struct {
	frame

	locator *application.Locator
	input   textinput.Model
	help    help.Model
}

// NewOpenModel creates a new open store prompt
func NewOpenModel(locator *application.Locator) *OpenModel {
	input := textinput.New()
	input.Placeholder = "/path/to/store.sqlite"
	input.CharLimit = 4096
	input.Width = 60

	return &OpenModel{
		locator: locator,
		input:   input,
		help:    newHelp(),
	}
}

// Init initializes the prompt with the current location
func (m *OpenModel) Init() tea.Cmd {
	m.clearMessage()
	m.input.SetValue(m.locator.Location())
	m.input.CursorEnd()
	m.input.Focus()
	return textinput.Blink
}

// Update handles messages for the open prompt
func (m *OpenModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, OpenKeys.Cancel):
			m.input.Blur()
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}

		case key.Matches(msg, OpenKeys.Submit):
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit switches the store. A rejected location keeps the prompt open and
// leaves the previous store in force.
func (m *OpenModel) submit() tea.Cmd {
	location := m.input.Value()
	previous, err := commands.NewSwitchStoreCommand(m.locator, location).Execute(context.Background())
	if err != nil {
		var valErr *application.ValidationError
		if errors.As(err, &valErr) {
			m.SetMessage(valErr.Message, true)
		} else {
			m.SetMessage(fmt.Sprintf("Cannot open store: %v", err), true)
		}
		return nil
	}

	m.input.Blur()
	current := m.locator.Location()
	return func() tea.Msg {
		return StoreSwitchedMsg{Previous: previous, Location: current}
	}
}

// View renders the open prompt
func (m *OpenModel) View() string {
	return (&screen{}).
		title("Open store").
		subtitle("Path or connection string of a CRDT store").
		add(styles.InputFocused.Render(m.input.View())).
		status(&m.frame).
		keys(m.help, OpenKeys.Submit, OpenKeys.Cancel).
		String()
}
