package declension

import "math/rand/v2"

// Form is one inflected surface form of a noun.
type Form struct {
	Word   string
	Case   Case
	Plural bool
}

// Noun is a lemma together with its inflected forms.
type Noun struct {
	Lemma string
	Forms []Form
}

// Lookup returns the first form with the given case and number.
func (n Noun) Lookup(c Case, plural bool) (Form, bool) {
	for _, f := range n.Forms {
		if f.Case == c && f.Plural == plural {
			return f, true
		}
	}
	return Form{}, false
}

// HasAskableForm reports whether any non-nominative form exists.
func (n Noun) HasAskableForm() bool {
	for _, f := range n.Forms {
		if f.Case != Nominative {
			return true
		}
	}
	return false
}

func pickNoun(rng *rand.Rand, nouns []Noun) Noun {
	return nouns[rng.IntN(len(nouns))]
}
