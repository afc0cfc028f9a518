package corpus

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"github.com/abhisek/slovo/internal/declension"
	"github.com/abhisek/slovo/internal/partsofspeech"
	"github.com/abhisek/slovo/internal/quiz"
)

const stressFixture = "годи́нник\n\nви́падок\nдо́м\nна́віть так\n"

const wordFormsFixture = `[
  {"word": "книга", "pos": "noun", "forms": {
    "nom ns": ["книга"], "gen ns": ["книги", "книжки"], "dat ns": ["книзі"],
    "nom np": ["книги"], "gen np": ["книг"], "abl ns": ["ignored"], "gen": ["ignored"]
  }},
  {"word": "читати", "pos": "verb", "forms": {"inf": ["читати"]}},
  {"word": "ніщо", "pos": "noun", "forms": {"nom ns": ["ніщо"]}},
  {"word": "зламане", "pos": "noun", "forms": [1, 2]}
]`

const treebankFixture = `# sent_id = 1
# text = Кіт спить.
1	Кіт	кіт	NOUN	_	_	2	nsubj	_	_
2	спить	спати	VERB	_	_	0	root	_	SpaceAfter=No
3	.	.	PUNCT	_	_	2	punct	_	_

# sent_id = 2
# text = Ось воно й є.
1-2	Ось-воно	_	_	_	_	_	_	_	_
1	Ось	ось	PART	_	_	0	root	_	_
2	воно	воно	PRON	_	_	1	nsubj	_	_
2.1	є	_	_	_	_	_	_	_	_
3	й	й	_	_	_	2	cc	_	_

# sent_id = 3
1	Без	без	ADP	_	_	0	root	_	_

# sent_id = 4
# text = !
1	!	!	PUNCT	_	_	0	root	_	_
`

func TestLoadStressWords(t *testing.T) {
	words, rep, err := LoadStressWords(strings.NewReader(stressFixture))
	require.NoError(t, err)

	require.Len(t, words, 4)
	assert.Equal(t, "годинник", words[0].Bare)
	assert.Equal(t, 2, rep.Loaded)
	assert.Equal(t, 2, rep.Rejected)
	assert.Len(t, rep.Samples, 2)
}

func TestLoadStressWords_NormalizesToNFC(t *testing.T) {
	// "Україна" with ї spelled as і + combining diaeresis.
	decomposed := norm.NFD.String("Украї́на")
	words, rep, err := LoadStressWords(strings.NewReader(decomposed + "\n"))
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, 1, rep.Loaded)
	assert.True(t, words[0].Eligible())
	assert.Equal(t, "Україна", words[0].Bare)
}

func TestLoadNouns(t *testing.T) {
	nouns, rep, err := LoadNouns(strings.NewReader(wordFormsFixture))
	require.NoError(t, err)

	require.Len(t, nouns, 1)
	n := nouns[0]
	assert.Equal(t, "книга", n.Lemma)
	assert.Equal(t, []declension.Form{
		{Word: "книга", Case: declension.Nominative},
		{Word: "книги", Case: declension.Genitive},
		{Word: "книзі", Case: declension.Dative},
		{Word: "книги", Case: declension.Nominative, Plural: true},
		{Word: "книг", Case: declension.Genitive, Plural: true},
	}, n.Forms)

	assert.Equal(t, 1, rep.Loaded)
	assert.Equal(t, 2, rep.Rejected)
}

func TestLoadNouns_MalformedJSON(t *testing.T) {
	_, _, err := LoadNouns(strings.NewReader(`{"word":`))
	assert.Error(t, err)
}

func TestLoadSentences(t *testing.T) {
	sentences, rep, err := LoadSentences(strings.NewReader(treebankFixture))
	require.NoError(t, err)

	require.Len(t, sentences, 2)
	assert.Equal(t, partsofspeech.Sentence{
		Text: "Кіт спить.",
		Tokens: []partsofspeech.Token{
			{Form: "Кіт", Tag: partsofspeech.NOUN},
			{Form: "спить", Tag: partsofspeech.VERB},
			{Form: ".", Tag: partsofspeech.PUNCT},
		},
	}, sentences[0])

	second := sentences[1]
	assert.Equal(t, "Ось воно й є.", second.Text)
	require.Len(t, second.Tokens, 3)
	assert.Equal(t, partsofspeech.TagNone, second.Tokens[2].Tag)

	assert.Equal(t, 2, rep.Loaded)
	assert.Equal(t, 2, rep.Rejected)
}

func TestLoadSentences_BadColumns(t *testing.T) {
	_, _, err := LoadSentences(strings.NewReader("# text = x\n1\tx\tx\n"))
	assert.ErrorContains(t, err, "line 2")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{
		Stress:    writeFile(t, dir, "stress.txt", stressFixture),
		WordForms: writeFile(t, dir, "forms.json", wordFormsFixture),
		Treebank:  writeFile(t, dir, "uk.conllu", treebankFixture),
	}

	c, err := Load(paths, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Stress.EligibleLen())
	assert.Len(t, c.Nouns, 1)
	assert.Len(t, c.Sentences, 2)
	assert.Len(t, c.Reports, 3)

	gens := c.Generators(declension.DefaultConfig())
	for _, kind := range quiz.Kinds {
		g, ok := gens[kind]
		require.True(t, ok, kind)
		assert.Equal(t, kind, g.Kind())

		qs, err := quiz.GenerateN(g, quiz.NewRand(1, 2), 3, 0)
		require.NoError(t, err, kind)
		assert.Len(t, qs, 3)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(Paths{Stress: filepath.Join(t.TempDir(), "nope.txt")}, slog.Default())
	assert.Error(t, err)
}
