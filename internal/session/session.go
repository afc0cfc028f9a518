// Package session runs a quiz one inbound message at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/abhisek/slovo/internal/quiz"
)

// Explainer produces a short explanation of why an answer was wrong.
type Explainer interface {
	// Explain returns feedback for a wrong answer to q. Failures are
	// reported with quiz.ErrExplanationTimeout or quiz.ErrUpstream.
	Explain(ctx context.Context, q quiz.Question, wrong, correct string) (string, error)
}

// Config tunes the Machine.
type Config struct {
	// ExplainTimeout bounds a single Explain call. Default: 15s.
	ExplainTimeout time.Duration
	// MaxAttempts bounds source resampling per question. Default: quiz.DefaultMaxAttempts.
	MaxAttempts int
}

// DefaultConfig returns the default Machine configuration.
func DefaultConfig() Config {
	return Config{
		ExplainTimeout: 15 * time.Second,
		MaxAttempts:    quiz.DefaultMaxAttempts,
	}
}

// Machine starts and advances sessions. It holds no per-session state and
// is safe for concurrent use.
type Machine struct {
	explainer Explainer
	cfg       Config
	logger    *slog.Logger
}

// NewMachine creates a Machine. A nil explainer always yields the
// fallback explanation.
func NewMachine(explainer Explainer, cfg Config, logger *slog.Logger) *Machine {
	if cfg.ExplainTimeout <= 0 {
		cfg.ExplainTimeout = DefaultConfig().ExplainTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{explainer: explainer, cfg: cfg, logger: logger}
}

// Start generates count questions up front.
func (m *Machine) Start(rng *rand.Rand, g quiz.Generator, count int) (Session, error) {
	if count <= 0 {
		return Session{}, fmt.Errorf("question count %d: %w", count, quiz.ErrInvalidUserInput)
	}
	qs, err := quiz.GenerateN(g, rng, count, m.cfg.MaxAttempts)
	if err != nil {
		return Session{}, err
	}
	return Session{Kind: g.Kind(), Questions: qs}, nil
}

// Advance consumes one inbound message. When a question is pending, text
// is judged against its correct answer first. The returned Session
// replaces s; s itself is not modified.
func (m *Machine) Advance(ctx context.Context, s Session, text string) (Turn, Session, error) {
	if s.Done {
		return Turn{}, s, ErrFinished
	}
	if err := s.Validate(); err != nil {
		return Turn{}, s, err
	}

	next := s
	var turn Turn

	if s.Index > 0 {
		prev := s.Questions[s.Index-1]
		correct, _ := prev.Correct()
		fb := &Feedback{
			Given:         text,
			CorrectAnswer: correct.Text,
			Correct:       text == correct.Text,
		}
		if fb.Correct {
			next.Score++
		} else {
			fb.Explanation, fb.Fallback = m.explain(ctx, prev, text, correct.Text)
		}
		turn.Feedback = fb
	}

	if s.Index == len(s.Questions) {
		next.Done = true
		turn.Summary = &Summary{Score: next.Score, Total: len(s.Questions)}
		return turn, next, nil
	}

	q := s.Questions[s.Index]
	turn.Question = &q
	next.Index++
	turn.Number = next.Index
	return turn, next, nil
}

func (m *Machine) explain(ctx context.Context, q quiz.Question, wrong, correct string) (string, bool) {
	if m.explainer == nil {
		return FallbackExplanation(correct), true
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.ExplainTimeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := m.explainer.Explain(ctx, q, wrong, correct)
		done <- result{text, err}
	}()

	var (
		text string
		err  error
	)
	select {
	case r := <-done:
		text, err = r.text, r.err
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err == nil && text != "" {
		return text, false
	}
	if err == nil {
		err = fmt.Errorf("empty explanation: %w", quiz.ErrUpstream)
	} else if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, quiz.ErrExplanationTimeout) {
		err = fmt.Errorf("%w: %w", quiz.ErrExplanationTimeout, err)
	}
	m.logger.Warn("explanation unavailable, using fallback",
		"kind", q.Kind,
		"timeout", errors.Is(err, quiz.ErrExplanationTimeout),
		"err", err)
	return FallbackExplanation(correct), true
}
