package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette after the national flag, with muted neutrals for text.
var (
	Primary   = lipgloss.Color("#3B82F6") // Blue
	Accent    = lipgloss.Color("#FACC15") // Yellow
	Secondary = lipgloss.Color("#38BDF8") // Sky
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F1F5F9")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent).
		Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Chat bubbles
var (
	BotName = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	UserName = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	// Emphasis renders <b> and <i> spans of question text.
	Emphasis = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Primary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)
