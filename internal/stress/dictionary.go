package stress

import (
	"math/rand/v2"

	"github.com/abhisek/slovo/internal/quiz"
)

// Dictionary is an immutable list of stress-marked words. Ineligible
// entries are kept for reporting but never picked.
type Dictionary struct {
	words    []Word
	eligible []int
}

// NewDictionary indexes words. The slice is not copied and must not be
// modified afterwards.
func NewDictionary(words []Word) *Dictionary {
	d := &Dictionary{words: words}
	for i, w := range words {
		if w.Eligible() {
			d.eligible = append(d.eligible, i)
		}
	}
	return d
}

// Len returns the total number of entries.
func (d *Dictionary) Len() int { return len(d.words) }

// EligibleLen returns how many entries can be picked.
func (d *Dictionary) EligibleLen() int { return len(d.eligible) }

// PickWord draws an eligible word uniformly at random.
func (d *Dictionary) PickWord(rng *rand.Rand) (Word, error) {
	if len(d.eligible) == 0 {
		return Word{}, quiz.ErrCorpusExhausted
	}
	return d.words[d.eligible[rng.IntN(len(d.eligible))]], nil
}
