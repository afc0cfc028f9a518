// Package results shows finished quizzes per game.
package results

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/slovo/internal/quiz"
	"github.com/abhisek/slovo/internal/router"
	"github.com/abhisek/slovo/internal/screen"
	"github.com/abhisek/slovo/internal/store"
	"github.com/abhisek/slovo/internal/ui/components"
	"github.com/abhisek/slovo/internal/ui/layout"
	"github.com/abhisek/slovo/internal/ui/theme"
)

// Summarizer aggregates results; store.ResultRepo satisfies it.
type Summarizer interface {
	Summary(ctx context.Context, conversationID string) ([]store.KindSummary, error)
}

type loadedMsg struct {
	Summaries []store.KindSummary
	Err       error
}

// ResultsScreen lists games played and accuracy for one conversation.
type ResultsScreen struct {
	repo           Summarizer
	conversationID string
	summaries      []store.KindSummary
	loaded         bool
	errMsg         string
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen for conversationID.
func New(repo Summarizer, conversationID string) *ResultsScreen {
	return &ResultsScreen{repo: repo, conversationID: conversationID}
}

func (s *ResultsScreen) Init() tea.Cmd {
	return func() tea.Msg {
		sums, err := s.repo.Summary(context.Background(), s.conversationID)
		return loadedMsg{Summaries: sums, Err: err}
	}
}

func (s *ResultsScreen) Title() string {
	return "Результати"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Назад"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.summaries = msg.Summaries
		}
		s.loaded = true

	case tea.KeyMsg:
		if msg.String() == "esc" || msg.String() == "q" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	centered := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.errMsg != "":
		return centered.Foreground(theme.Error).Render("\n\nПомилка: " + s.errMsg)
	case !s.loaded:
		return centered.Foreground(theme.TextDim).Render("\n\nЗавантаження...")
	case len(s.summaries) == 0:
		return centered.Foreground(theme.TextDim).Italic(true).
			Render("\n\nЩе немає завершених квізів. Час грати!")
	}

	labelWidth := 0
	for _, k := range s.summaries {
		labelWidth = max(labelWidth, lipgloss.Width(title(k.Kind)))
	}
	barWidth := min(width-8, 70)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render("Твої результати"))
	b.WriteString("\n\n")

	var games, score, total int
	for _, k := range s.summaries {
		bar := components.ScoreBar{
			Label:      title(k.Kind),
			LabelWidth: labelWidth,
			Score:      k.Score,
			Total:      k.Total,
			Width:      barWidth,
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render(fmt.Sprintf("ігор: %d", k.Games))))
		b.WriteString("\n\n")
		games += k.Games
		score += k.Score
		total += k.Total
	}

	b.WriteString(centered.Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("Разом: %d ігор, %d з %d правильно", games, score, total)))
	return b.String()
}

func title(kind string) string {
	return quiz.Kind(kind).Title()
}
