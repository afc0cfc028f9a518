package stress

import (
	"fmt"
	"html"
	"math/rand/v2"

	"github.com/abhisek/slovo/internal/quiz"
)

// Generator asks the learner to pick the correctly stressed spelling.
type Generator struct {
	dict *Dictionary
}

// NewGenerator returns a Generator drawing from dict.
func NewGenerator(dict *Dictionary) *Generator {
	return &Generator{dict: dict}
}

func (g *Generator) Kind() quiz.Kind { return quiz.KindStress }

// Generate picks a word and builds a question from it.
func (g *Generator) Generate(rng *rand.Rand) (*quiz.Question, error) {
	w, err := g.dict.PickWord(rng)
	if err != nil {
		return nil, err
	}
	return GenerateQuestion(rng, w)
}

// GenerateQuestion builds a two-option question for w: the correct
// spelling and one with the mark moved to another vowel.
func GenerateQuestion(rng *rand.Rand, w Word) (*quiz.Question, error) {
	stressed := w.stressedIndex()
	if stressed < 0 {
		return nil, fmt.Errorf("word %q: %w", w.Marked, quiz.ErrNoDistractorPosition)
	}

	var candidates []int
	for i, r := range []rune(w.Bare) {
		if i != stressed && IsVowel(r) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("word %q: %w", w.Marked, quiz.ErrNoDistractorPosition)
	}

	wrong := w.markAt(candidates[rng.IntN(len(candidates))])
	answers := []quiz.Answer{
		{Text: w.markAt(stressed), IsCorrect: true},
		{Text: wrong},
	}
	quiz.Shuffle(rng, answers)

	return &quiz.Question{
		Kind: quiz.KindStress,
		Text: fmt.Sprintf("<b><i>%s</i></b> чи <b><i>%s</i></b> ?",
			html.EscapeString(answers[0].Text), html.EscapeString(answers[1].Text)),
		Answers: answers,
	}, nil
}
