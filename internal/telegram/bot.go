// Package telegram serves the dialogue engine over the Telegram Bot API
// using long polling.
package telegram

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abhisek/slovo/internal/dialogue"
)

// API is the part of *tgbotapi.BotAPI the bot uses.
type API interface {
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Stepper advances one conversation; *dialogue.Engine satisfies it.
type Stepper interface {
	Step(ctx context.Context, conversationID, text string) (dialogue.Reply, error)
}

// Config tunes polling and the per-chat workers.
type Config struct {
	// PollTimeout is the long-polling timeout in seconds.
	PollTimeout int
	// IdleDelay is the pause after an empty batch of updates.
	IdleDelay time.Duration
	// TypingEvery is how often the typing action is repeated while a
	// step is running. Telegram shows it for about five seconds.
	TypingEvery time.Duration
	// QueueSize bounds pending messages per chat; extra ones are dropped.
	QueueSize int
	// WorkerIdle stops a chat's worker after this long without messages.
	WorkerIdle time.Duration
}

// DefaultConfig returns the polling defaults.
func DefaultConfig() Config {
	return Config{
		PollTimeout: 30,
		IdleDelay:   200 * time.Millisecond,
		TypingEvery: 4 * time.Second,
		QueueSize:   16,
		WorkerIdle:  10 * time.Minute,
	}
}

const textFailure = "Вибач, щось пішло не так. Спробуй ще раз."

const (
	baseRetryDelay = 1 * time.Second
	maxRetryDelay  = 15 * time.Second
)

// Bot routes updates to per-chat workers. Messages of one chat are
// handled in arrival order; different chats are handled concurrently.
type Bot struct {
	api    API
	engine Stepper
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	workers map[int64]chan string
	wg      sync.WaitGroup
}

// New creates a Bot. Zero Config fields take their defaults.
func New(api API, engine Stepper, cfg Config, logger *slog.Logger) *Bot {
	def := DefaultConfig()
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = def.PollTimeout
	}
	if cfg.IdleDelay <= 0 {
		cfg.IdleDelay = def.IdleDelay
	}
	if cfg.TypingEvery <= 0 {
		cfg.TypingEvery = def.TypingEvery
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.WorkerIdle <= 0 {
		cfg.WorkerIdle = def.WorkerIdle
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		api:     api,
		engine:  engine,
		cfg:     cfg,
		logger:  logger,
		workers: make(map[int64]chan string),
	}
}

// Run polls for updates until ctx is cancelled, then waits for the chat
// workers to finish.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("telegram polling started", "timeout", b.cfg.PollTimeout)
	defer b.wg.Wait()

	offset := 0
	for {
		if ctx.Err() != nil {
			b.logger.Info("telegram polling stopped")
			return nil
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = b.cfg.PollTimeout
		updates, err := b.api.GetUpdates(u)
		if err != nil {
			d := min(max(retryDelay(err), baseRetryDelay), maxRetryDelay)
			b.logger.Warn("polling failed", "err", err, "retry_in", d)
			sleep(ctx, d)
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			b.dispatch(ctx, upd)
		}
		if len(updates) == 0 {
			sleep(ctx, b.cfg.IdleDelay)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	if msg.Text == "" {
		b.logger.Debug("ignoring non-text message", "chat", msg.Chat.ID)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.workers[msg.Chat.ID]
	if !ok {
		ch = make(chan string, b.cfg.QueueSize)
		b.workers[msg.Chat.ID] = ch
		b.wg.Add(1)
		go b.work(ctx, msg.Chat.ID, ch)
	}
	select {
	case ch <- msg.Text:
	default:
		b.logger.Warn("chat queue full, dropping message", "chat", msg.Chat.ID)
	}
}

func (b *Bot) work(ctx context.Context, chatID int64, ch chan string) {
	defer b.wg.Done()
	idle := time.NewTimer(b.cfg.WorkerIdle)
	defer idle.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case text := <-ch:
			b.handle(ctx, chatID, text)
			idle.Reset(b.cfg.WorkerIdle)
		case <-idle.C:
			b.mu.Lock()
			if len(ch) > 0 {
				b.mu.Unlock()
				idle.Reset(b.cfg.WorkerIdle)
				continue
			}
			delete(b.workers, chatID)
			b.mu.Unlock()
			return
		}
	}
}

func (b *Bot) handle(ctx context.Context, chatID int64, text string) {
	stop := b.typing(ctx, chatID)
	reply, err := b.engine.Step(ctx, strconv.FormatInt(chatID, 10), text)
	stop()

	if err != nil {
		b.logger.Error("dialogue step failed", "chat", chatID, "err", err)
		b.send(ctx, chatID, dialogue.Message{Text: textFailure})
		return
	}
	for _, m := range reply.Messages {
		b.send(ctx, chatID, m)
	}
}

// typing shows the typing indicator until the returned func is called.
func (b *Bot) typing(ctx context.Context, chatID int64) func() {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(b.cfg.TypingEvery)
		defer t.Stop()
		for {
			if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
				b.logger.Debug("typing action failed", "chat", chatID, "err", err)
			}
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-t.C:
			}
		}
	}()
	return func() {
		close(done)
		wg.Wait()
	}
}

func (b *Bot) send(ctx context.Context, chatID int64, m dialogue.Message) {
	out := newMessage(chatID, m)
	for attempt := 0; attempt < 2; attempt++ {
		_, err := b.api.Send(out)
		if err == nil {
			return
		}
		var tgErr *tgbotapi.Error
		if attempt > 0 || !errors.As(err, &tgErr) || tgErr.RetryAfter == 0 {
			b.logger.Error("send failed", "chat", chatID, "err", err)
			return
		}
		d := min(retryDelay(err), maxRetryDelay)
		b.logger.Warn("rate limited, retrying send", "chat", chatID, "retry_in", d)
		if !sleep(ctx, d) {
			return
		}
	}
}

func newMessage(chatID int64, m dialogue.Message) tgbotapi.MessageConfig {
	out := tgbotapi.NewMessage(chatID, m.Text)
	if m.HTML {
		out.ParseMode = tgbotapi.ModeHTML
	}
	if m.Keyboard != nil {
		out.ReplyMarkup = keyboard(m.Keyboard)
	}
	return out
}

func keyboard(rows [][]string) tgbotapi.ReplyKeyboardMarkup {
	buttons := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		r := make([]tgbotapi.KeyboardButton, len(row))
		for i, label := range row {
			r[i] = tgbotapi.NewKeyboardButton(label)
		}
		buttons = append(buttons, tgbotapi.NewKeyboardButtonRow(r...))
	}
	kb := tgbotapi.NewReplyKeyboard(buttons...)
	kb.ResizeKeyboard = true
	return kb
}

var reRetryAfter = regexp.MustCompile(`retry after (\d+)`)

// retryDelay extracts how long Telegram asked us to back off.
func retryDelay(err error) time.Duration {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) && tgErr.RetryAfter > 0 {
		return time.Duration(tgErr.RetryAfter) * time.Second
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") {
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return 2 * time.Second
	}
	return baseRetryDelay
}

// sleep waits for d and reports whether ctx is still live.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
