package stress

import (
	"strings"
	"unicode"
)

// Mark is the combining acute accent placed right after the stressed vowel.
const Mark = '\u0301'

// Word is a dictionary entry with its stress marked.
type Word struct {
	// Marked is the word with Mark after the stressed vowel, e.g. "годи́нник".
	Marked string
	// Bare is Marked with every Mark removed.
	Bare string
}

// NewWord builds a Word from its marked spelling.
func NewWord(marked string) Word {
	return Word{Marked: marked, Bare: StripMarks(marked)}
}

// StripMarks removes every stress mark from s.
func StripMarks(s string) string {
	return strings.Map(func(r rune) rune {
		if r == Mark {
			return -1
		}
		return r
	}, s)
}

// IsVowel reports whether r is a Ukrainian vowel letter, in either case.
func IsVowel(r rune) bool {
	switch unicode.ToUpper(r) {
	case 'А', 'Е', 'Є', 'И', 'І', 'Ї', 'О', 'У', 'Ю', 'Я':
		return true
	}
	return false
}

// VowelCount returns the number of vowels in the bare form.
func (w Word) VowelCount() int {
	n := 0
	for _, r := range w.Bare {
		if IsVowel(r) {
			n++
		}
	}
	return n
}

// stressedIndex returns the rune index in Bare of the stressed vowel, or
// -1 when the word does not carry exactly one mark directly after a vowel.
func (w Word) stressedIndex() int {
	idx := -1
	marks := 0
	pos := 0
	var prev rune
	for _, r := range w.Marked {
		if r == Mark {
			marks++
			if pos == 0 || !IsVowel(prev) {
				return -1
			}
			idx = pos - 1
			continue
		}
		prev = r
		pos++
	}
	if marks != 1 {
		return -1
	}
	return idx
}

// Ineligibility explains why a word cannot be asked about. The empty
// string means the word is usable.
func (w Word) Ineligibility() string {
	switch {
	case strings.ContainsRune(w.Bare, ' '):
		return "contains a space"
	case w.VowelCount() < 2:
		return "fewer than two vowels"
	case w.stressedIndex() < 0:
		return "stress mark is missing, repeated or not after a vowel"
	}
	return ""
}

// Eligible reports whether a question can be generated from w.
func (w Word) Eligible() bool {
	return w.Ineligibility() == ""
}

// markAt returns Bare with Mark inserted after the rune at index i.
func (w Word) markAt(i int) string {
	runes := []rune(w.Bare)
	var b strings.Builder
	b.Grow(len(w.Bare) + 2)
	for j, r := range runes {
		b.WriteRune(r)
		if j == i {
			b.WriteRune(Mark)
		}
	}
	return b.String()
}
