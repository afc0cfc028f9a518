package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/slovo/internal/router"
	"github.com/abhisek/slovo/internal/screen"
	"github.com/abhisek/slovo/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	bannerAt     = 500 * time.Millisecond
	totalDur     = 1500 * time.Millisecond
)

// flag stripes fill in from the top, one per phase.
var stripes = []lipgloss.Style{
	lipgloss.NewStyle().Background(theme.Primary),
	lipgloss.NewStyle().Background(theme.Accent),
}

type tickMsg time.Time

// WelcomeScreen shows a short splash and then replaces itself with the
// screen built by next.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that hands over to next on any key.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed >= totalDur {
			return w, nil
		}
		w.elapsed += tickInterval
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	chat := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: chat}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	bar := 44
	if width < 46 {
		bar = 9
	}

	var sections []string
	filled := min(int(w.elapsed/bannerAt), len(stripes))
	for _, s := range stripes[:filled] {
		sections = append(sections, s.Render(strings.Repeat(" ", bar)))
	}

	if w.elapsed >= totalDur {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
				Render("Наголоси, частини мови, відмінки"),
			"",
			theme.Hint.Render("натисни будь-яку клавішу"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n"))
}
