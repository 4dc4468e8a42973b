package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"harmonyscope/internal/adapters/tui/styles"
)

// frame is what every view keeps besides its own data: the terminal size and
// a status line that lasts until the next key press.
type frame struct {
	width  int
	height int

	status    string
	statusErr bool
}

// SetSize records the terminal size
func (f *frame) SetSize(width, height int) {
	f.width = width
	f.height = height
}

// SetMessage replaces the status line
func (f *frame) SetMessage(text string, isErr bool) {
	f.status = text
	f.statusErr = isErr
}

func (f *frame) clearMessage() {
	f.status = ""
	f.statusErr = false
}

// newHelp returns a bubbles help model in the theme's colors
func newHelp() help.Model {
	h := help.New()
	h.Styles.ShortKey = styles.HelpKey
	h.Styles.ShortDesc = styles.HelpDesc
	h.Styles.ShortSeparator = styles.HelpSeparator
	h.Styles.FullKey = styles.HelpKey
	h.Styles.FullDesc = styles.HelpDesc
	h.Styles.FullSeparator = styles.HelpSeparator
	return h
}

// screen assembles a view top to bottom, one line at a time
type screen struct {
	lines []string
}

func (s *screen) add(lines ...string) *screen {
	s.lines = append(s.lines, lines...)
	return s
}

func (s *screen) title(text string) *screen {
	return s.add(styles.Title.Render(text))
}

func (s *screen) subtitle(text string) *screen {
	return s.add(styles.Subtitle.Render(text), "")
}

func (s *screen) muted(text string) *screen {
	return s.add(styles.MutedText.Render(text))
}

func (s *screen) gap() *screen {
	return s.add("")
}

// status adds the frame's status line, if any, after a blank line
func (s *screen) status(f *frame) *screen {
	if f.status == "" {
		return s
	}
	style := styles.Success
	if f.statusErr {
		style = styles.ErrorMsg
	}
	return s.add("", style.Render(f.status))
}

// keys ends the screen with a one-line key summary
func (s *screen) keys(h help.Model, bindings ...key.Binding) *screen {
	return s.add("", h.ShortHelpView(bindings))
}

func (s *screen) String() string {
	return styles.App.Render(strings.Join(s.lines, "\n"))
}
