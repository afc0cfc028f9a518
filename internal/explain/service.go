package explain

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/abhisek/slovo/internal/llm"
	"github.com/abhisek/slovo/internal/quiz"
	"github.com/abhisek/slovo/internal/stress"
)

// Config holds configuration for the explanation service.
type Config struct {
	Persona     Persona
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Persona:     Shevchenko,
		MaxTokens:   400,
		Temperature: 0.7,
	}
}

// Service writes wrong-answer explanations and example sentences with an LLM.
type Service struct {
	provider llm.Provider
	cfg      Config

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService creates an explanation service. rng drives the Random persona
// and may be nil.
func NewService(provider llm.Provider, cfg Config, rng *rand.Rand) *Service {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	if cfg.Persona == "" {
		cfg.Persona = Shevchenko
	}
	return &Service{provider: provider, cfg: cfg, rng: rng}
}

// Explain tells the learner why correct is right and wrong is not.
func (s *Service) Explain(ctx context.Context, q quiz.Question, wrong, correct string) (string, error) {
	t, ok := explainTemplates[q.Kind]
	if !ok {
		return "", fmt.Errorf("no explanation prompt for %q: %w", q.Kind, quiz.ErrUpstream)
	}
	prompt, err := render(t, promptInput{
		Question: quiz.PlainText(q.Text),
		Word:     stress.StripMarks(correct),
		Wrong:    wrong,
		Correct:  correct,
		Persona:  s.persona().Name(),
	})
	if err != nil {
		return "", fmt.Errorf("build explanation prompt: %w", err)
	}
	return s.generate(ctx, llm.PurposeExplanation, prompt)
}

// Example writes a sentence using the word a stress question asks about.
// Other kinds have no example.
func (s *Service) Example(ctx context.Context, q quiz.Question) (string, error) {
	if q.Kind != quiz.KindStress {
		return "", nil
	}
	correct, ok := q.Correct()
	if !ok {
		return "", fmt.Errorf("question without a correct answer: %w", quiz.ErrUpstream)
	}
	prompt, err := render(exampleTemplate, promptInput{
		Word:    stress.StripMarks(correct.Text),
		Persona: s.persona().Name(),
	})
	if err != nil {
		return "", fmt.Errorf("build example prompt: %w", err)
	}
	return s.generate(ctx, llm.PurposeExample, prompt)
}

func (s *Service) generate(ctx context.Context, purpose llm.Purpose, prompt string) (string, error) {
	if s.provider == nil {
		return "", fmt.Errorf("no LLM provider configured: %w", quiz.ErrUpstream)
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		Purpose:     purpose,
		System:      systemPrompt,
		Prompt:      prompt,
		Schema:      TextSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", classify(ctx, err)
	}

	text, err := resp.Field(textField)
	if err != nil {
		return "", fmt.Errorf("parse tutor response: %w: %w", quiz.ErrUpstream, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty tutor response: %w", quiz.ErrUpstream)
	}
	return text, nil
}

func (s *Service) persona() Persona {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Persona.resolve(s.rng)
}

// classify maps provider failures onto the quiz error kinds.
func classify(ctx context.Context, err error) error {
	if llm.FailureOf(err) == llm.FailureTimeout || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", quiz.ErrExplanationTimeout, err)
	}
	return fmt.Errorf("%w: %w", quiz.ErrUpstream, err)
}
