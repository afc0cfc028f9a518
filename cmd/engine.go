package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/slovo/internal/config"
	"github.com/abhisek/slovo/internal/corpus"
	"github.com/abhisek/slovo/internal/declension"
	"github.com/abhisek/slovo/internal/dialogue"
	"github.com/abhisek/slovo/internal/explain"
	"github.com/abhisek/slovo/internal/llm"
	"github.com/abhisek/slovo/internal/quiz"
	"github.com/abhisek/slovo/internal/session"
	"github.com/abhisek/slovo/internal/store"
)

// buildEngine loads the corpora and wires the dialogue engine to st.
// Without a configured LLM provider explanations fall back to the canned
// text and examples are skipped.
func buildEngine(ctx context.Context, st *store.Store, logger *slog.Logger) (*dialogue.Engine, error) {
	corpora, err := corpus.Load(cfg.Corpus, logger)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	generators := corpora.Generators(declension.Config{NumberFallback: cfg.Quiz.NumberFallback})

	provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), logger)
	if err != nil {
		return nil, fmt.Errorf("LLM provider: %w", err)
	}

	var (
		explainer   session.Explainer
		illustrator dialogue.Illustrator
	)
	if provider != nil {
		svc, err := newExplainService(provider, cfg.Quiz)
		if err != nil {
			return nil, err
		}
		explainer = svc
		if cfg.Quiz.Examples {
			illustrator = svc
		}
		logger.Info("explanations enabled", "provider", provider.Name(), "persona", cfg.Quiz.Persona)
	} else {
		logger.Info("no LLM provider configured, using canned explanations")
	}

	machine := session.NewMachine(explainer, session.Config{
		ExplainTimeout: cfg.Quiz.ExplainTimeout,
		MaxAttempts:    quiz.DefaultMaxAttempts,
	}, logger)

	return dialogue.NewEngine(dialogue.Deps{
		Machine:     machine,
		Generators:  generators,
		States:      dialogue.NewRepoStore(st.DialogueRepo()),
		Illustrator: illustrator,
		Results:     st.ResultRepo(),
		Rand:        quiz.NewEntropyRand(),
		Logger:      logger,
	}, dialogue.Config{
		MaxQuestions:   cfg.Quiz.MaxQuestions,
		ExampleTimeout: cfg.Quiz.ExplainTimeout,
	})
}

func newExplainService(provider llm.Provider, q config.QuizConfig) (*explain.Service, error) {
	persona, err := explain.ParsePersona(q.Persona)
	if err != nil {
		return nil, fmt.Errorf("quiz persona: %w", err)
	}
	ecfg := explain.DefaultConfig()
	ecfg.Persona = persona
	return explain.NewService(provider, ecfg, quiz.NewEntropyRand()), nil
}
