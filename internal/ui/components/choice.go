package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/slovo/internal/ui/theme"
)

// ChoiceMadeMsg carries the option the learner picked.
type ChoiceMadeMsg struct {
	Text string
}

// Choice is a numbered option selector, the terminal stand-in for a
// chat reply keyboard.
type Choice struct {
	Options  []string
	Selected int
}

// NewChoice creates a selector over the flattened keyboard rows.
func NewChoice(rows [][]string) Choice {
	var opts []string
	for _, row := range rows {
		opts = append(opts, row...)
	}
	return Choice{Options: opts}
}

// Empty reports whether there is nothing to choose from.
func (c Choice) Empty() bool {
	return len(c.Options) == 0
}

// Update handles arrow navigation, Enter and the digit shortcuts 1-9.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || c.Empty() {
		return c, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	case "enter":
		return c, c.pick(c.Selected)
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(c.Options) {
				c.Selected = i
				return c, c.pick(i)
			}
		}
	}
	return c, nil
}

func (c Choice) pick(i int) tea.Cmd {
	text := c.Options[i]
	return func() tea.Msg { return ChoiceMadeMsg{Text: text} }
}

// View renders the options one per line.
func (c Choice) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		style := theme.Unselected
		if i == c.Selected {
			prefix = "▸ "
			style = theme.Selected
		}
		num := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%d)", i+1))
		b.WriteString(prefix + num + " " + style.Render(opt) + "\n")
	}
	return b.String()
}
