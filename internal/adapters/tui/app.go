package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"harmonyscope/internal/adapters/tui/views"
	"harmonyscope/internal/application"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewOpen
	ViewHelp
)

// App is the main TUI application model
type App struct {
	state   ViewState
	browser *views.BrowserModel
	open    *views.OpenModel
	help    *views.HelpModel

	// storeChanged fires when the watched store was written; nil disables watching
	storeChanged <-chan struct{}

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(locator *application.Locator, opts views.BrowserOptions, storeChanged <-chan struct{}) *App {
	return &App{
		state:        ViewBrowser,
		browser:      views.NewBrowserModel(opts),
		open:         views.NewOpenModel(locator),
		help:         views.NewHelpModel(),
		storeChanged: storeChanged,
	}
}

type storeChangedMsg struct{}

func (a *App) waitForStoreChange() tea.Cmd {
	if a.storeChanged == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-a.storeChanged; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.browser.Init(), a.waitForStoreChange())
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.open.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToOpenMsg:
		a.state = ViewOpen
		return a, a.open.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, nil

	case views.StoreSwitchedMsg:
		a.state = ViewBrowser
		cmd := a.browser.Reload()
		a.browser.SetMessage("Opened "+msg.Location, false)
		return a, cmd

	case storeChangedMsg:
		// only the commit list is reloaded; an open prompt keeps its input
		return a, tea.Batch(a.browser.Reload(), a.waitForStoreChange())
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewOpen:
		_, cmd = a.open.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	// loads finishing behind the prompt or help still reach the browser
	if _, isKey := msg.(tea.KeyMsg); !isKey && a.state != ViewBrowser {
		_, browserCmd := a.browser.Update(msg)
		cmd = tea.Batch(cmd, browserCmd)
	}

	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewOpen:
		return a.open.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}
