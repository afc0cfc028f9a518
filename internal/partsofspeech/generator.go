package partsofspeech

import (
	"fmt"
	"html"
	"math/rand/v2"
	"strings"

	"github.com/abhisek/slovo/internal/quiz"
)

// Generator asks which part of speech a highlighted word is.
type Generator struct {
	sentences []Sentence
}

// NewGenerator returns a Generator over sentences. The slice is shared.
func NewGenerator(sentences []Sentence) *Generator {
	return &Generator{sentences: sentences}
}

func (g *Generator) Kind() quiz.Kind { return quiz.KindPartsOfSpeech }

// PickSentence draws a sentence uniformly at random.
func (g *Generator) PickSentence(rng *rand.Rand) (Sentence, error) {
	if len(g.sentences) == 0 {
		return Sentence{}, quiz.ErrCorpusExhausted
	}
	return g.sentences[rng.IntN(len(g.sentences))], nil
}

// Generate picks a sentence and builds a question from it.
func (g *Generator) Generate(rng *rand.Rand) (*quiz.Question, error) {
	s, err := g.PickSentence(rng)
	if err != nil {
		return nil, err
	}
	return GenerateQuestion(rng, s)
}

// GenerateQuestion picks a target word in s and offers its label against
// one wrong label.
func GenerateQuestion(rng *rand.Rand, s Sentence) (*quiz.Question, error) {
	targets := s.Targets()
	if len(targets) == 0 {
		return nil, fmt.Errorf("sentence %q has no askable token: %w", s.Text, quiz.ErrNoMatchingForm)
	}
	target := targets[rng.IntN(len(targets))]
	correct := target.Tag.Label()

	wrongPool := make([]string, 0, len(AnswerLabels))
	for _, l := range AnswerLabels {
		if l != correct {
			wrongPool = append(wrongPool, l)
		}
	}

	answers := []quiz.Answer{
		{Text: correct, IsCorrect: true},
		{Text: wrongPool[rng.IntN(len(wrongPool))]},
	}
	quiz.Shuffle(rng, answers)

	text := fmt.Sprintf("У реченні:\n\"%s\"\n\nЯкою частиною мови є підкреслене слово \"%s\"?",
		Highlight(s.Text, target.Form), html.EscapeString(target.Form))

	return &quiz.Question{
		Kind:    quiz.KindPartsOfSpeech,
		Text:    text,
		Answers: answers,
	}, nil
}

// Highlight splits text on whitespace and wraps every word whose letters
// and digits equal form in <b><u>…</u></b>. Only the sentence word is
// stripped, so a form with an apostrophe or hyphen matches nothing. Words
// are HTML-escaped. If nothing matches the text comes back escaped but
// unmarked.
func Highlight(text, form string) string {
	words := strings.Fields(text)
	for i, w := range words {
		escaped := html.EscapeString(w)
		if form != "" && normalize(w) == form {
			words[i] = "<b><u>" + escaped + "</u></b>"
		} else {
			words[i] = escaped
		}
	}
	return strings.Join(words, " ")
}
