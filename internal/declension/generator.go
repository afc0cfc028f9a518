package declension

import (
	"fmt"
	"html"
	"math/rand/v2"

	"github.com/abhisek/slovo/internal/quiz"
)

// Config tunes question generation.
type Config struct {
	// NumberFallback allows answering with the opposite number when the
	// noun has no form for the drawn one. The case is never substituted.
	NumberFallback bool
}

// DefaultConfig returns the default generation policy.
func DefaultConfig() Config {
	return Config{NumberFallback: true}
}

// Generator asks the learner to inflect a noun into a given case.
type Generator struct {
	nouns []Noun
	cfg   Config
}

// NewGenerator returns a Generator over nouns. The slice is shared, not copied.
func NewGenerator(nouns []Noun, cfg Config) *Generator {
	return &Generator{nouns: nouns, cfg: cfg}
}

func (g *Generator) Kind() quiz.Kind { return quiz.KindDeclension }

// PickNoun draws a noun uniformly at random.
func (g *Generator) PickNoun(rng *rand.Rand) (Noun, error) {
	if len(g.nouns) == 0 {
		return Noun{}, quiz.ErrCorpusExhausted
	}
	return pickNoun(rng, g.nouns), nil
}

// Generate picks a noun and builds a question from it.
func (g *Generator) Generate(rng *rand.Rand) (*quiz.Question, error) {
	n, err := g.PickNoun(rng)
	if err != nil {
		return nil, err
	}
	return g.GenerateQuestion(rng, n)
}

// GenerateQuestion draws a target case and number for n and builds the question.
func (g *Generator) GenerateQuestion(rng *rand.Rand, n Noun) (*quiz.Question, error) {
	c := Askable[rng.IntN(len(Askable))]
	plural := rng.IntN(2) == 1
	return g.GenerateFor(rng, n, c, plural)
}

// GenerateFor builds a question asking for n in case c and the given number.
// The rng only shuffles the answers.
func (g *Generator) GenerateFor(rng *rand.Rand, n Noun, c Case, plural bool) (*quiz.Question, error) {
	correct, ok := n.Lookup(c, plural)
	if !ok && g.cfg.NumberFallback {
		correct, ok = n.Lookup(c, !plural)
	}
	if !ok {
		return nil, fmt.Errorf("noun %q has no %s form: %w", n.Lemma, c, quiz.ErrNoMatchingForm)
	}

	answers := []quiz.Answer{{Text: correct.Word, IsCorrect: true}}
	seen := map[string]bool{correct.Word: true}
	for _, f := range n.Forms {
		if f.Case == Nominative || f.Case == correct.Case || f.Plural != correct.Plural {
			continue
		}
		if seen[f.Word] {
			continue
		}
		seen[f.Word] = true
		answers = append(answers, quiz.Answer{Text: f.Word})
	}
	quiz.Shuffle(rng, answers)

	return &quiz.Question{
		Kind:    quiz.KindDeclension,
		Text:    questionText(n.Lemma, correct.Case, correct.Plural),
		Answers: answers,
	}, nil
}

func questionText(lemma string, c Case, plural bool) string {
	number := "однини"
	if plural {
		number = "множини"
	}
	return fmt.Sprintf("Поставте іменник \"%s\" у %s відмінок (%s) %s",
		html.EscapeString(lemma), c.Label(), c.Hint(), number)
}
