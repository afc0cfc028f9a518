package app

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/slovo/internal/dialogue"
	"github.com/abhisek/slovo/internal/router"
	"github.com/abhisek/slovo/internal/store"
)

type echoEngine struct{}

func (echoEngine) Step(_ context.Context, _, text string) (dialogue.Reply, error) {
	return dialogue.Reply{Messages: []dialogue.Message{{Text: "echo " + text}}}, nil
}

type noResults struct{}

func (noResults) Summary(context.Context, string) ([]store.KindSummary, error) { return nil, nil }

func update(m tea.Model, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestWelcomeHandsOverToChat(t *testing.T) {
	m := newAppModel(Options{Engine: echoEngine{}, Results: noResults{}, Version: "v1.0.0"})
	m, _ = update(m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m, cmd := update(m, tea.KeyPressMsg{Code: ' '})
	require.NotNil(t, cmd)
	replace, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)

	m, _ = update(m, replace)
	assert.Equal(t, "Розмова", m.router.Active().Title())
	assert.Equal(t, 1, m.router.Depth())

	view := m.frame()
	assert.True(t, strings.Contains(view, "Слово"))
	assert.Contains(t, view, "v1.0.0")
}

func TestEscPopsOnlyAboveRoot(t *testing.T) {
	m := newAppModel(Options{Engine: echoEngine{}})

	_, cmd := update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		_, isPop := cmd().(router.PopScreenMsg)
		assert.False(t, isPop, "root screen is never popped")
	}

	m.router.Push(newAppModel(Options{Engine: echoEngine{}}).router.Active())
	_, cmd = update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
}

func TestTooSmall(t *testing.T) {
	m := newAppModel(Options{Engine: echoEngine{}})
	m, _ = update(m, tea.WindowSizeMsg{Width: 30, Height: 10})
	assert.Contains(t, m.frame(), "замале")
}

func TestCtrlCQuits(t *testing.T) {
	m := newAppModel(Options{Engine: echoEngine{}})
	_, cmd := update(m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
