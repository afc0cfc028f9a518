// Package chat is the terminal version of the bot conversation.
package chat

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/slovo/internal/dialogue"
	"github.com/abhisek/slovo/internal/router"
	"github.com/abhisek/slovo/internal/screen"
	"github.com/abhisek/slovo/internal/ui/components"
	"github.com/abhisek/slovo/internal/ui/layout"
	"github.com/abhisek/slovo/internal/ui/theme"
)

// ConversationID is the dialogue id used by the terminal player.
const ConversationID = "local"

const spinnerInterval = 120 * time.Millisecond

var spinnerFrames = []string{"·  ", "·· ", "···", " ··", "  ·", "   "}

// Stepper advances the conversation; *dialogue.Engine satisfies it.
type Stepper interface {
	Step(ctx context.Context, conversationID, text string) (dialogue.Reply, error)
}

// ChatScreen shows the transcript and either the current reply keyboard
// as a numbered choice or a free-text input.
type ChatScreen struct {
	engine     Stepper
	results    func() screen.Screen
	transcript components.Transcript
	choice     components.Choice
	input      components.TextInput
	freeText   bool
	waiting    bool
	spin       int
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

// New creates a ChatScreen. results builds the statistics screen; nil
// disables it.
func New(engine Stepper, results func() screen.Screen) *ChatScreen {
	return &ChatScreen{
		engine:  engine,
		results: results,
		input:   components.NewTextInput("Напиши відповідь...", 64),
	}
}

// Init starts the conversation from the greeting.
func (s *ChatScreen) Init() tea.Cmd {
	return tea.Batch(s.input.Init(), s.send("/start", false))
}

func (s *ChatScreen) Title() string {
	return "Розмова"
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Надіслати"}}
	if !s.choice.Empty() {
		if s.freeText {
			hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Варіанти"})
		} else {
			hints = append(hints,
				layout.KeyHint{Key: "↑↓/1-9", Description: "Вибір"},
				layout.KeyHint{Key: "Tab", Description: "Свій текст"})
		}
	}
	hints = append(hints, layout.KeyHint{Key: "Ctrl+S", Description: "Стоп"})
	if s.results != nil {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+R", Description: "Результати"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Вийти"})
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case stepDoneMsg:
		return s, s.handleReply(msg)

	case spinnerTickMsg:
		if !s.waiting {
			return s, nil
		}
		s.spin++
		return s, spinnerTick()

	case components.ChoiceMadeMsg:
		return s, s.send(msg.Text, true)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.freeText || s.choice.Empty() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ChatScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "pgup":
		s.transcript.Scroll(5)
		return s, nil
	case "pgdown":
		s.transcript.Scroll(-5)
		return s, nil
	case "ctrl+r":
		if s.results == nil {
			return s, nil
		}
		next := s.results()
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}

	if s.waiting {
		return s, nil
	}

	switch msg.String() {
	case "ctrl+s":
		return s, s.send("/stop", true)
	case "tab":
		if !s.choice.Empty() {
			s.freeText = !s.freeText
		}
		return s, nil
	}

	if !s.freeText && !s.choice.Empty() {
		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		return s, cmd
	}

	if msg.String() == "enter" {
		text := strings.TrimSpace(s.input.Value())
		if text == "" {
			return s, nil
		}
		s.input.Reset()
		return s, s.send(text, true)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// send shows text as the learner's line (when echo is set) and runs one
// dialogue step in the background.
func (s *ChatScreen) send(text string, echo bool) tea.Cmd {
	if echo {
		s.transcript.Add(components.Entry{Speaker: components.SpeakerUser, Text: text})
	}
	s.waiting = true
	engine := s.engine
	step := func() tea.Msg {
		reply, err := engine.Step(context.Background(), ConversationID, text)
		return stepDoneMsg{Reply: reply, Err: err}
	}
	return tea.Batch(step, spinnerTick())
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func (s *ChatScreen) handleReply(msg stepDoneMsg) tea.Cmd {
	s.waiting = false
	if msg.Err != nil {
		s.transcript.Add(components.Entry{Speaker: components.SpeakerError, Text: msg.Err.Error()})
		return nil
	}

	var keyboard [][]string
	for _, m := range msg.Reply.Messages {
		s.transcript.Add(components.Entry{Speaker: components.SpeakerBot, Text: m.Text, HTML: m.HTML})
		if m.Keyboard != nil {
			keyboard = m.Keyboard
		}
	}
	// A reply without a keyboard expects typed text.
	s.choice = components.NewChoice(keyboard)
	s.freeText = false
	return nil
}

func (s *ChatScreen) View(width, height int) string {
	controls := s.controlsView()
	if s.waiting {
		controls = theme.Hint.Render("Слово друкує "+spinnerFrames[s.spin%len(spinnerFrames)]) + "\n" + controls
	}
	controls = lipgloss.NewStyle().PaddingLeft(2).Render(controls)

	transcriptHeight := max(height-lipgloss.Height(controls)-1, 0)
	log := lipgloss.NewStyle().PaddingLeft(1).Render(s.transcript.View(width-2, transcriptHeight))
	return log + "\n\n" + controls
}

func (s *ChatScreen) controlsView() string {
	if !s.freeText && !s.choice.Empty() {
		return strings.TrimRight(s.choice.View(), "\n")
	}
	return s.input.View()
}
