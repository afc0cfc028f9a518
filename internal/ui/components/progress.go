package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/slovo/internal/ui/theme"
)

// ScoreBar draws correct answers out of a total as a labelled bar.
type ScoreBar struct {
	Label string
	// LabelWidth pads Label so bars of several rows line up.
	LabelWidth int
	Score      int
	Total      int
	Width      int
}

// Fraction returns Score/Total, or 0 for an empty total.
func (s ScoreBar) Fraction() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Score) / float64(s.Total)
}

// View renders the bar followed by "score/total (pct%)".
func (s ScoreBar) View() string {
	label := s.Label
	if pad := s.LabelWidth - lipgloss.Width(label); pad > 0 {
		label += strings.Repeat(" ", pad)
	}
	label = theme.Body.Render(label) + "  "

	suffix := fmt.Sprintf("  %d/%d (%d%%)", s.Score, s.Total, int(s.Fraction()*100))

	barWidth := max(s.Width-lipgloss.Width(label)-lipgloss.Width(suffix), 4)
	filled := min(max(int(float64(barWidth)*s.Fraction()), 0), barWidth)

	return label +
		theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)
}
