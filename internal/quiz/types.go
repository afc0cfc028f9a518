package quiz

import "fmt"

// Kind identifies which generator produced a question.
type Kind string

const (
	KindStress        Kind = "stress"
	KindDeclension    Kind = "declension"
	KindPartsOfSpeech Kind = "parts-of-speech"
)

// Kinds lists every quiz kind in menu order.
var Kinds = []Kind{KindStress, KindPartsOfSpeech, KindDeclension}

var kindTitles = map[Kind]string{
	KindStress:        "наголос",
	KindPartsOfSpeech: "частини мови",
	KindDeclension:    "відмінки",
}

// Title is the Ukrainian name of the game.
func (k Kind) Title() string {
	if t, ok := kindTitles[k]; ok {
		return t
	}
	return string(k)
}

// ParseKind converts a stored kind name back into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown quiz kind %q", s)
}

// Answer is one option of a multiple-choice question.
type Answer struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Question is a single multiple-choice question ready to be shown.
//
// Text may contain the inline HTML tags <b>, <i> and <u>; every other
// character of corpus origin is escaped.
type Question struct {
	Kind    Kind     `json:"kind"`
	Text    string   `json:"text"`
	Answers []Answer `json:"answers"`
}

// Correct returns the first correct answer, or false if none is marked.
func (q *Question) Correct() (Answer, bool) {
	for _, a := range q.Answers {
		if a.IsCorrect {
			return a, true
		}
	}
	return Answer{}, false
}

// Options returns the answer texts in display order.
func (q *Question) Options() []string {
	out := make([]string, len(q.Answers))
	for i, a := range q.Answers {
		out[i] = a.Text
	}
	return out
}

// Validate checks that exactly one answer is correct and that the
// question has something to ask.
func (q *Question) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("question has empty text")
	}
	if len(q.Answers) == 0 {
		return fmt.Errorf("question has no answers")
	}
	correct := 0
	for _, a := range q.Answers {
		if a.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("question has %d correct answers, want 1", correct)
	}
	return nil
}
