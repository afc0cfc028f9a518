package partsofspeech

import (
	"strings"
	"unicode"
)

// Token is one word of a tagged sentence.
type Token struct {
	Form string
	Tag  Tag
}

// Sentence is a tagged sentence with its original surface text.
type Sentence struct {
	Text   string
	Tokens []Token
}

// Targets returns the tokens that may be asked about.
func (s Sentence) Targets() []Token {
	var out []Token
	for _, t := range s.Tokens {
		if t.Tag.Askable() {
			out = append(out, t)
		}
	}
	return out
}

// normalize keeps only letters and digits.
func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
