package telegram

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/slovo/internal/dialogue"
)

type fakeAPI struct {
	mu       sync.Mutex
	batches  [][]tgbotapi.Update
	offsets  []int
	sent     []tgbotapi.MessageConfig
	actions  int
	pollErr  error
	sendErrs []error
}

func (f *fakeAPI) GetUpdates(cfg tgbotapi.UpdateConfig) ([]tgbotapi.Update, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offsets = append(f.offsets, cfg.Offset)
	if f.pollErr != nil {
		err := f.pollErr
		f.pollErr = nil
		return nil, err
	}
	if len(f.batches) == 0 {
		return nil, nil
	}
	b := f.batches[0]
	f.batches = f.batches[1:]
	return b, nil
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sendErrs) > 0 {
		err := f.sendErrs[0]
		f.sendErrs = f.sendErrs[1:]
		if err != nil {
			return tgbotapi.Message{}, err
		}
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := c.(tgbotapi.ChatActionConfig); ok {
		f.actions++
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) sentMessages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.MessageConfig(nil), f.sent...)
}

// echoEngine replies with the text it got and tracks overlapping steps
// per conversation.
type echoEngine struct {
	mu      sync.Mutex
	active  map[string]int
	overlap atomic.Bool
	delay   time.Duration
	err     error
}

func (e *echoEngine) Step(_ context.Context, conv, text string) (dialogue.Reply, error) {
	e.mu.Lock()
	if e.active == nil {
		e.active = make(map[string]int)
	}
	e.active[conv]++
	if e.active[conv] > 1 {
		e.overlap.Store(true)
	}
	e.mu.Unlock()

	time.Sleep(e.delay)

	e.mu.Lock()
	e.active[conv]--
	e.mu.Unlock()

	if e.err != nil {
		return dialogue.Reply{}, e.err
	}
	return dialogue.Reply{Messages: []dialogue.Message{
		{Text: conv + ":" + text, HTML: text == "html", Keyboard: [][]string{{"a", "b"}, {"c"}}},
	}}, nil
}

func textUpdate(id int, chat int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: id,
		Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: chat},
			Text: text,
		},
	}
}

func testConfig() Config {
	return Config{IdleDelay: time.Millisecond, TypingEvery: 5 * time.Millisecond, QueueSize: 8}
}

func runBot(t *testing.T, b *Bot) (cancel func()) {
	t.Helper()
	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()
	return func() {
		stop()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("bot did not stop")
		}
	}
}

func TestBotRepliesInOrder(t *testing.T) {
	api := &fakeAPI{batches: [][]tgbotapi.Update{
		{textUpdate(10, 1, "перший"), textUpdate(11, 2, "html")},
		{textUpdate(12, 1, "другий"), {UpdateID: 13}, textUpdate(14, 1, "")},
	}}
	eng := &echoEngine{delay: 10 * time.Millisecond}
	stop := runBot(t, New(api, eng, testConfig(), nil))

	require.Eventually(t, func() bool { return len(api.sentMessages()) == 3 }, 2*time.Second, 5*time.Millisecond)
	stop()

	var chat1 []string
	for _, m := range api.sentMessages() {
		if m.ChatID == 1 {
			chat1 = append(chat1, m.Text)
		} else {
			assert.Equal(t, "2:html", m.Text)
			assert.Equal(t, tgbotapi.ModeHTML, m.ParseMode)
		}
	}
	assert.Equal(t, []string{"1:перший", "1:другий"}, chat1)
	assert.False(t, eng.overlap.Load(), "steps of one chat must not overlap")

	api.mu.Lock()
	defer api.mu.Unlock()
	require.GreaterOrEqual(t, len(api.offsets), 3)
	assert.Equal(t, 0, api.offsets[0])
	assert.Equal(t, 12, api.offsets[1])
	assert.Equal(t, 15, api.offsets[2], "offset skips past the last update")
	assert.Positive(t, api.actions, "typing action is sent while stepping")
}

func TestBotReportsStepFailure(t *testing.T) {
	api := &fakeAPI{batches: [][]tgbotapi.Update{{textUpdate(1, 7, "привіт")}}}
	stop := runBot(t, New(api, &echoEngine{err: errors.New("db down")}, testConfig(), nil))

	require.Eventually(t, func() bool { return len(api.sentMessages()) == 1 }, 2*time.Second, 5*time.Millisecond)
	stop()
	assert.Equal(t, textFailure, api.sentMessages()[0].Text)
}

func TestBotRetriesRateLimitedSend(t *testing.T) {
	api := &fakeAPI{
		batches:  [][]tgbotapi.Update{{textUpdate(1, 3, "x")}},
		sendErrs: []error{&tgbotapi.Error{Code: 429, Message: "Too Many Requests", ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 1}}},
	}
	stop := runBot(t, New(api, &echoEngine{}, testConfig(), nil))

	require.Eventually(t, func() bool { return len(api.sentMessages()) == 1 }, 3*time.Second, 10*time.Millisecond)
	stop()
	assert.Equal(t, "3:x", api.sentMessages()[0].Text)
}

func TestBotWorkerIdleExit(t *testing.T) {
	api := &fakeAPI{batches: [][]tgbotapi.Update{{textUpdate(1, 5, "a")}}}
	cfg := testConfig()
	cfg.WorkerIdle = 20 * time.Millisecond
	b := New(api, &echoEngine{}, cfg, nil)
	stop := runBot(t, b)
	defer stop()

	require.Eventually(t, func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return len(api.sentMessages()) == 1 && len(b.workers) == 0
	}, 2*time.Second, 5*time.Millisecond)
}

func TestNewMessageKeyboard(t *testing.T) {
	m := newMessage(9, dialogue.Message{Text: "hi", Keyboard: [][]string{{"5"}, {"10"}, {"15"}}})
	kb, ok := m.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.True(t, kb.ResizeKeyboard)
	require.Len(t, kb.Keyboard, 3)
	assert.Equal(t, "10", kb.Keyboard[1][0].Text)
	assert.Empty(t, m.ParseMode)

	m = newMessage(9, dialogue.Message{Text: "plain"})
	assert.Nil(t, m.ReplyMarkup)
}

func TestRetryDelay(t *testing.T) {
	tests := []struct {
		err  error
		want time.Duration
	}{
		{&tgbotapi.Error{ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 7}}, 7 * time.Second},
		{errors.New("Too Many Requests: retry after 4"), 4 * time.Second},
		{errors.New("too many requests"), 3 * time.Second},
		{&net.OpError{Op: "read", Err: timeoutErr{}}, 2 * time.Second},
		{errors.New("boom"), time.Second},
	}
	for i, tt := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			assert.Equal(t, tt.want, retryDelay(tt.err))
		})
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }
