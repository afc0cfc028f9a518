package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/slovo/internal/dialogue"
	"github.com/abhisek/slovo/internal/router"
	"github.com/abhisek/slovo/internal/screen"
	"github.com/abhisek/slovo/internal/ui/components"
)

type scriptedEngine struct {
	mu      sync.Mutex
	got     []string
	replies map[string]dialogue.Reply
	err     error
}

func (e *scriptedEngine) Step(_ context.Context, conv, text string) (dialogue.Reply, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if conv != ConversationID {
		return dialogue.Reply{}, errors.New("unexpected conversation " + conv)
	}
	e.got = append(e.got, text)
	if e.err != nil {
		return dialogue.Reply{}, e.err
	}
	return e.replies[text], nil
}

func say(text string, keyboard [][]string) dialogue.Reply {
	return dialogue.Reply{Messages: []dialogue.Message{{Text: text, Keyboard: keyboard}}}
}

// stepMsgs runs cmd, expanding batches, and returns only the step results.
func stepMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, stepMsgs(c)...)
		}
		return out
	case stepDoneMsg, components.ChoiceMadeMsg, router.PushScreenMsg:
		return []tea.Msg{msg}
	}
	return nil
}

// deliver feeds every step result of cmd back into the screen.
func deliver(t *testing.T, s *ChatScreen, cmd tea.Cmd) {
	t.Helper()
	for _, msg := range stepMsgs(cmd) {
		_, next := s.Update(msg)
		deliver(t, s, next)
	}
}

func typeText(s *ChatScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func newEngine() *scriptedEngine {
	return &scriptedEngine{replies: map[string]dialogue.Reply{
		"/start": say("Як тебе звати?", nil),
		"Оля": {Messages: []dialogue.Message{
			{Text: "Приємно познайомитися, Оля!"},
			{Text: "Що б ти хотів зробити?", Keyboard: [][]string{{"Почати тест на наголос"}, {"Почати тест на відмінки"}}},
		}},
		"Почати тест на відмінки": say("Обери кількість питань", [][]string{{"5"}, {"10"}}),
		"12":                      say("Можна не більше 10 питань", nil),
		"/stop":                   say("Зараз немає активного квізу.", nil),
	}}
}

func TestConversationFlow(t *testing.T) {
	eng := newEngine()
	s := New(eng, nil)

	deliver(t, s, s.Init())
	assert.Contains(t, s.View(80, 20), "Як тебе звати?")
	assert.True(t, s.choice.Empty(), "greeting expects typed text")

	typeText(s, "Оля")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	deliver(t, s, cmd)
	assert.Empty(t, s.input.Value())
	require.Equal(t, []string{"Почати тест на наголос", "Почати тест на відмінки"}, s.choice.Options)

	_, cmd = s.Update(tea.KeyPressMsg{Code: '2', Text: "2"})
	deliver(t, s, cmd)
	assert.Equal(t, []string{"5", "10"}, s.choice.Options)

	// Tab switches to free text even when a keyboard is shown.
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	require.True(t, s.freeText)
	typeText(s, "12")
	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	deliver(t, s, cmd)

	assert.Equal(t, []string{"/start", "Оля", "Почати тест на відмінки", "12"}, eng.got)
	view := s.View(80, 30)
	assert.Contains(t, view, "Можна не більше 10 питань")
	assert.Contains(t, view, "Ти", "learner lines are echoed")
}

func TestEmptyInputIsNotSent(t *testing.T) {
	eng := newEngine()
	s := New(eng, nil)
	deliver(t, s, s.Init())

	typeText(s, "   ")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, []string{"/start"}, eng.got)
}

func TestStopShortcut(t *testing.T) {
	eng := newEngine()
	s := New(eng, nil)
	deliver(t, s, s.Init())

	_, cmd := s.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	deliver(t, s, cmd)
	assert.Equal(t, []string{"/start", "/stop"}, eng.got)
}

func TestKeysIgnoredWhileWaiting(t *testing.T) {
	eng := newEngine()
	s := New(eng, nil)
	s.Init()
	require.True(t, s.waiting)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, s.View(80, 20), "друкує")

	_, cmd = s.Update(spinnerTickMsg{})
	assert.NotNil(t, cmd, "spinner keeps ticking while waiting")
}

func TestStepErrorIsShown(t *testing.T) {
	eng := newEngine()
	eng.err = errors.New("database is locked")
	s := New(eng, nil)
	deliver(t, s, s.Init())

	assert.False(t, s.waiting)
	assert.Contains(t, s.View(80, 20), "database is locked")
}

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "" }
func (s *stubScreen) Title() string                           { return "Результати" }

func TestResultsShortcut(t *testing.T) {
	s := New(newEngine(), func() screen.Screen { return &stubScreen{} })

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	msgs := stepMsgs(cmd)
	require.Len(t, msgs, 1)
	push, ok := msgs[0].(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Результати", push.Screen.Title())

	hints := s.KeyHints()
	var keys []string
	for _, h := range hints {
		keys = append(keys, h.Key)
	}
	assert.True(t, strings.Contains(strings.Join(keys, " "), "Ctrl+R"))
}
