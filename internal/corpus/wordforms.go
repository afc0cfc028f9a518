package corpus

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/abhisek/slovo/internal/declension"
)

// wordEntry is one record of the word-forms dictionary.
type wordEntry struct {
	Word  string          `json:"word"`
	POS   string          `json:"pos"`
	Forms json.RawMessage `json:"forms"`
}

// LoadNouns reads a JSON array of dictionary entries and keeps the nouns.
// Form keys look like "gen ns" or "dat np"; only the first listed spelling
// of each key is used. Keys with an unknown case or number are ignored.
func LoadNouns(r io.Reader) ([]declension.Noun, Report, error) {
	rep := Report{Name: "word-forms"}

	var entries []wordEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, rep, fmt.Errorf("decode word forms: %w", err)
	}

	var nouns []declension.Noun
	for _, e := range entries {
		if e.POS != "noun" {
			continue
		}
		lemma := norm.NFC.String(strings.TrimSpace(e.Word))

		var raw map[string][]string
		if err := json.Unmarshal(e.Forms, &raw); err != nil {
			rep.reject(lemma, "malformed forms")
			continue
		}

		n := declension.Noun{Lemma: lemma}
		for key, spellings := range raw {
			f, ok := parseFormKey(key)
			if !ok || len(spellings) == 0 {
				continue
			}
			f.Word = norm.NFC.String(strings.TrimSpace(spellings[0]))
			if f.Word == "" {
				continue
			}
			n.Forms = append(n.Forms, f)
		}
		sortForms(n.Forms)

		if !n.HasAskableForm() {
			rep.reject(lemma, "no non-nominative forms")
			continue
		}
		rep.Loaded++
		nouns = append(nouns, n)
	}
	return nouns, rep, nil
}

func parseFormKey(key string) (declension.Form, bool) {
	code, number, ok := strings.Cut(key, " ")
	if !ok {
		return declension.Form{}, false
	}
	c, ok := declension.ParseCase(code)
	if !ok {
		return declension.Form{}, false
	}
	switch number {
	case "ns":
		return declension.Form{Case: c}, true
	case "np":
		return declension.Form{Case: c, Plural: true}, true
	}
	return declension.Form{}, false
}

// sortForms orders forms by number, then case, so loads are reproducible.
func sortForms(forms []declension.Form) {
	sort.Slice(forms, func(i, j int) bool {
		if forms[i].Plural != forms[j].Plural {
			return !forms[i].Plural
		}
		return forms[i].Case < forms[j].Case
	})
}
