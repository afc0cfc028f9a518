// Package app is the root Bubble Tea model of the terminal player.
package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/slovo/internal/router"
	"github.com/abhisek/slovo/internal/screen"
	"github.com/abhisek/slovo/internal/screens/chat"
	"github.com/abhisek/slovo/internal/screens/results"
	"github.com/abhisek/slovo/internal/screens/welcome"
	"github.com/abhisek/slovo/internal/ui/layout"
)

// Options wires the player to the dialogue engine and the result store.
type Options struct {
	Engine chat.Stepper
	// Results is optional; without it the statistics screen is disabled.
	Results results.Summarizer
	// Version is shown in the header.
	Version string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	version string
	width   int
	height  int
}

func newAppModel(opts Options) AppModel {
	var resultsScreen func() screen.Screen
	if opts.Results != nil {
		resultsScreen = func() screen.Screen {
			return results.New(opts.Results, chat.ConversationID)
		}
	}
	chatScreen := func() screen.Screen {
		return chat.New(opts.Engine, resultsScreen)
	}
	return AppModel{
		router:  router.New(welcome.New(chatScreen)),
		version: opts.Version,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.frame())
	v.AltScreen = true
	return v
}

func (m AppModel) frame() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), m.version, m.width)

	hints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Вийти"}}
	if p, ok := active.(screen.KeyHintProvider); ok {
		if h := p.KeyHints(); len(h) > 0 {
			hints = h
		}
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until the player quits.
func Run(opts Options) error {
	_, err := tea.NewProgram(newAppModel(opts)).Run()
	return err
}
