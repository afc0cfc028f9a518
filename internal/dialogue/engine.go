package dialogue

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/slovo/internal/quiz"
	"github.com/abhisek/slovo/internal/session"
	"github.com/abhisek/slovo/internal/store"
)

// Illustrator writes an example sentence for a question. An empty string
// means there is nothing to add.
type Illustrator interface {
	Example(ctx context.Context, q quiz.Question) (string, error)
}

// ResultRecorder stores finished quizzes; store.ResultRepo satisfies it.
type ResultRecorder interface {
	Record(ctx context.Context, r store.QuizResult) error
}

// Config tunes the Engine.
type Config struct {
	// MaxQuestions caps the question count a learner may ask for.
	MaxQuestions int
	// ExampleTimeout bounds a single Illustrator call.
	ExampleTimeout time.Duration
}

// DefaultConfig returns the default Engine configuration.
func DefaultConfig() Config {
	return Config{
		MaxQuestions:   50,
		ExampleTimeout: 15 * time.Second,
	}
}

// Deps are the Engine's collaborators. Illustrator and Results may be nil.
type Deps struct {
	Machine     *session.Machine
	Generators  map[quiz.Kind]quiz.Generator
	States      StateStore
	Illustrator Illustrator
	Results     ResultRecorder
	Rand        *rand.Rand
	Logger      *slog.Logger
}

// Engine applies inbound messages to stored conversations. Steps for the
// same conversation are serialized; different conversations run in parallel.
type Engine struct {
	deps  Deps
	cfg   Config
	games []quiz.Kind

	rngMu   sync.Mutex
	locksMu sync.Mutex
	locks   map[string]*convLock
}

// convLock serializes steps of one conversation. refs counts the steps
// holding or waiting for mu; the entry is dropped when it reaches zero.
type convLock struct {
	mu   sync.Mutex
	refs int
}

// NewEngine creates an Engine. Only kinds with a generator are offered.
func NewEngine(deps Deps, cfg Config) (*Engine, error) {
	if deps.Machine == nil || deps.States == nil {
		return nil, errors.New("dialogue engine needs a session machine and a state store")
	}
	if deps.Rand == nil {
		deps.Rand = quiz.NewEntropyRand()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = DefaultConfig().MaxQuestions
	}
	if cfg.ExampleTimeout <= 0 {
		cfg.ExampleTimeout = DefaultConfig().ExampleTimeout
	}

	e := &Engine{deps: deps, cfg: cfg, locks: make(map[string]*convLock)}
	for _, k := range quiz.Kinds {
		if _, ok := deps.Generators[k]; ok {
			e.games = append(e.games, k)
		}
	}
	if len(e.games) == 0 {
		return nil, errors.New("dialogue engine needs at least one question generator")
	}
	return e, nil
}

// Step consumes one inbound message for conversationID, persists the new
// state and returns what to send back.
func (e *Engine) Step(ctx context.Context, conversationID, text string) (Reply, error) {
	l := e.acquire(conversationID)
	defer e.release(conversationID, l)

	st, err := e.deps.States.Load(ctx, conversationID)
	if errors.Is(err, ErrUnknownState) {
		e.deps.Logger.Warn("discarding undecodable dialogue state",
			"conversation", conversationID, "err", err)
		st = Start{}
	} else if err != nil {
		return Reply{}, err
	}

	next, reply := e.transition(ctx, conversationID, st, text)

	if err := e.deps.States.Save(ctx, conversationID, next); err != nil {
		return Reply{}, err
	}
	e.deps.Logger.Debug("dialogue step",
		"conversation", conversationID, "from", st.tag(), "to", next.tag(),
		"messages", len(reply.Messages))
	return reply, nil
}

// Games returns the quiz kinds on the menu, in menu order.
func (e *Engine) Games() []quiz.Kind {
	return e.games
}

func (e *Engine) acquire(conversationID string) *convLock {
	e.locksMu.Lock()
	l, ok := e.locks[conversationID]
	if !ok {
		l = &convLock{}
		e.locks[conversationID] = l
	}
	l.refs++
	e.locksMu.Unlock()

	l.mu.Lock()
	return l
}

func (e *Engine) release(conversationID string, l *convLock) {
	l.mu.Unlock()

	e.locksMu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(e.locks, conversationID)
	}
	e.locksMu.Unlock()
}

func (e *Engine) transition(ctx context.Context, convID string, st State, text string) (State, Reply) {
	var r Reply

	switch command(text) {
	case "start":
		r.say(textGreeting)
		return AwaitingName{}, r
	case "stop":
		switch st := st.(type) {
		case InQuiz:
			r.say(textStopped)
			return e.menu(&r, st.Name), r
		case AwaitingQuestionCount:
			return e.menu(&r, st.Name), r
		}
		r.say(textNothingToStop)
		return st, r
	}

	switch st := st.(type) {
	case AwaitingName:
		name := strings.TrimSpace(text)
		if name == "" {
			r.say(textAskName)
			return st, r
		}
		r.say(fmt.Sprintf(textNiceToMeet, name))
		return e.menu(&r, name), r

	case AwaitingGameChoice:
		for _, k := range e.games {
			if text == GameLabel(k) {
				r.ask(textChooseCount, countKeyboard)
				return AwaitingQuestionCount{Name: st.Name, Kind: k}, r
			}
		}
		r.ask(textChooseOption, e.menuKeyboard())
		return st, r

	case AwaitingQuestionCount:
		return e.startQuiz(&r, st, text), r

	case InQuiz:
		return e.advance(ctx, &r, convID, st, text), r

	default:
		r.say(textGreeting)
		return AwaitingName{}, r
	}
}

func (e *Engine) startQuiz(r *Reply, st AwaitingQuestionCount, text string) State {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	switch {
	case err != nil || n < 0:
		r.say(textNotANumber)
		return st
	case n == 0:
		r.say(textZeroCount)
		return st
	case n > e.cfg.MaxQuestions:
		r.say(fmt.Sprintf(textTooMany, e.cfg.MaxQuestions))
		return st
	}

	g, ok := e.deps.Generators[st.Kind]
	if !ok {
		r.say(textNoQuestions)
		return e.menu(r, st.Name)
	}

	e.rngMu.Lock()
	s, err := e.deps.Machine.Start(e.deps.Rand, g, n)
	e.rngMu.Unlock()
	if err != nil {
		e.deps.Logger.Error("could not start quiz", "kind", st.Kind, "count", n, "err", err)
		r.say(textNoQuestions)
		return e.menu(r, st.Name)
	}

	r.ask(textLetsGo, [][]string{{textGo}})
	return InQuiz{Name: st.Name, Session: s}
}

func (e *Engine) advance(ctx context.Context, r *Reply, convID string, st InQuiz, text string) State {
	turn, next, err := e.deps.Machine.Advance(ctx, st.Session, text)
	if err != nil {
		e.deps.Logger.Error("abandoning broken quiz", "conversation", convID, "err", err)
		r.say(textLost)
		return e.menu(r, st.Name)
	}

	if fb := turn.Feedback; fb != nil {
		if fb.Correct {
			r.say(textCorrect)
		} else {
			r.say(fmt.Sprintf(textWrong, fb.Explanation))
		}
	}

	if turn.Summary != nil {
		e.record(ctx, convID, next.Kind, *turn.Summary)
		r.ask(fmt.Sprintf(textSummary, turn.Summary.Score, turn.Summary.Total), e.menuKeyboard())
		return AwaitingGameChoice{Name: st.Name}
	}

	q := turn.Question
	body := fmt.Sprintf(textQuestion, turn.Number, q.Text)
	if ex := e.example(ctx, *q); ex != "" {
		body += fmt.Sprintf(textExample, html.EscapeString(ex))
	}
	r.Messages = append(r.Messages, Message{Text: body, HTML: true, Keyboard: answerKeyboard(q)})
	return InQuiz{Name: st.Name, Session: next}
}

func (e *Engine) example(ctx context.Context, q quiz.Question) string {
	if e.deps.Illustrator == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, e.cfg.ExampleTimeout)
	defer cancel()

	ex, err := e.deps.Illustrator.Example(ctx, q)
	if err != nil {
		e.deps.Logger.Warn("example unavailable", "kind", q.Kind, "err", err)
		return ""
	}
	return strings.TrimSpace(ex)
}

func (e *Engine) record(ctx context.Context, convID string, kind quiz.Kind, sum session.Summary) {
	if e.deps.Results == nil {
		return
	}
	err := e.deps.Results.Record(ctx, store.QuizResult{
		ConversationID: convID,
		Kind:           string(kind),
		Score:          sum.Score,
		Total:          sum.Total,
	})
	if err != nil {
		e.deps.Logger.Warn("failed to record quiz result", "conversation", convID, "err", err)
	}
}

func (e *Engine) menu(r *Reply, name string) State {
	r.ask(textMenu, e.menuKeyboard())
	return AwaitingGameChoice{Name: name}
}

func (e *Engine) menuKeyboard() [][]string {
	rows := make([][]string, len(e.games))
	for i, k := range e.games {
		rows[i] = []string{GameLabel(k)}
	}
	return rows
}

// command returns the bot command in text without the slash or any
// @botname suffix, or "" when text is not a command.
func command(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd, _, _ := strings.Cut(text[1:], " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return cmd
}
