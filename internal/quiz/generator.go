package quiz

import (
	"fmt"
	"math/rand/v2"
)

// DefaultMaxAttempts bounds how many source items are sampled before
// generation gives up with ErrCorpusExhausted.
const DefaultMaxAttempts = 64

// Generator produces one question per call from an immutable corpus.
// Implementations must be safe for concurrent use as long as each caller
// supplies its own rng.
type Generator interface {
	// Kind returns the kind of questions this generator produces.
	Kind() Kind

	// Generate samples a source item and builds a question from it.
	// Item-level failures are reported with ErrNoMatchingForm or
	// ErrNoDistractorPosition; an unusable corpus with ErrCorpusExhausted.
	Generate(rng *rand.Rand) (*Question, error)
}

// Generate calls g until it yields a valid question, resampling on
// item-level errors up to maxAttempts times. A non-positive maxAttempts
// uses DefaultMaxAttempts.
func Generate(g Generator, rng *rand.Rand, maxAttempts int) (*Question, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	var lastErr error
	for range maxAttempts {
		q, err := g.Generate(rng)
		if err != nil {
			if IsItemError(err) {
				lastErr = err
				continue
			}
			return nil, err
		}
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("%s generator produced invalid question: %w", g.Kind(), err)
		}
		return q, nil
	}
	return nil, fmt.Errorf("%s: %d attempts failed, last: %v: %w", g.Kind(), maxAttempts, lastErr, ErrCorpusExhausted)
}

// GenerateN materializes n questions with Generate.
func GenerateN(g Generator, rng *rand.Rand, n, maxAttempts int) ([]Question, error) {
	out := make([]Question, 0, n)
	for i := range n {
		q, err := Generate(g, rng, maxAttempts)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		out = append(out, *q)
	}
	return out, nil
}

// Shuffle permutes answers in place.
func Shuffle(rng *rand.Rand, answers []Answer) {
	rng.Shuffle(len(answers), func(i, j int) {
		answers[i], answers[j] = answers[j], answers[i]
	})
}

// NewRand returns a PCG-backed rng seeded from the given values.
func NewRand(seed1, seed2 uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed1, seed2))
}

// NewEntropyRand returns an rng seeded from the runtime's global source.
func NewEntropyRand() *rand.Rand {
	return NewRand(rand.Uint64(), rand.Uint64())
}
