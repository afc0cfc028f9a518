// Package corpus loads the dictionaries and treebank the quiz generators
// draw from.
package corpus

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/abhisek/slovo/internal/declension"
	"github.com/abhisek/slovo/internal/partsofspeech"
	"github.com/abhisek/slovo/internal/quiz"
	"github.com/abhisek/slovo/internal/stress"
)

// Paths locates the corpus files on disk.
type Paths struct {
	Stress    string `yaml:"stress"`
	WordForms string `yaml:"word_forms"`
	Treebank  string `yaml:"treebank"`
}

// Corpora holds every loaded corpus. It is immutable once built and can be
// shared across goroutines.
type Corpora struct {
	Stress    *stress.Dictionary
	Nouns     []declension.Noun
	Sentences []partsofspeech.Sentence
	Reports   []Report
}

// Load reads all three corpora from paths.
func Load(paths Paths, logger *slog.Logger) (*Corpora, error) {
	c := &Corpora{}

	words, rep, err := loadFile(paths.Stress, LoadStressWords)
	if err != nil {
		return nil, err
	}
	c.Stress = stress.NewDictionary(words)
	c.Reports = append(c.Reports, rep)

	nouns, rep, err := loadFile(paths.WordForms, LoadNouns)
	if err != nil {
		return nil, err
	}
	c.Nouns = nouns
	c.Reports = append(c.Reports, rep)

	sentences, rep, err := loadFile(paths.Treebank, LoadSentences)
	if err != nil {
		return nil, err
	}
	c.Sentences = sentences
	c.Reports = append(c.Reports, rep)

	for _, r := range c.Reports {
		logger.Info("corpus loaded", "corpus", r.Name, "loaded", r.Loaded, "rejected", r.Rejected)
		if r.Rejected > 0 {
			logger.Warn("corpus entries rejected", "corpus", r.Name, "samples", r.Samples)
		}
	}
	return c, nil
}

func loadFile[T any](path string, parse func(io.Reader) (T, Report, error)) (T, Report, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, Report{}, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	v, rep, err := parse(f)
	if err != nil {
		return zero, rep, fmt.Errorf("%s: %w", path, err)
	}
	return v, rep, nil
}

// Generators builds one question generator per quiz kind.
func (c *Corpora) Generators(cfg declension.Config) map[quiz.Kind]quiz.Generator {
	return map[quiz.Kind]quiz.Generator{
		quiz.KindStress:        stress.NewGenerator(c.Stress),
		quiz.KindDeclension:    declension.NewGenerator(c.Nouns, cfg),
		quiz.KindPartsOfSpeech: partsofspeech.NewGenerator(c.Sentences),
	}
}
