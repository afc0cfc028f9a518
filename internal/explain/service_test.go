package explain

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/slovo/internal/llm"
	"github.com/abhisek/slovo/internal/quiz"
)

func stressQuestion() quiz.Question {
	return quiz.Question{
		Kind: quiz.KindStress,
		Text: "<b><i>докуме́нт</i></b> чи <b><i>доку́мент</i></b> ?",
		Answers: []quiz.Answer{
			{Text: "доку́мент"},
			{Text: "докуме́нт", IsCorrect: true},
		},
	}
}

func posQuestion() quiz.Question {
	return quiz.Question{
		Kind: quiz.KindPartsOfSpeech,
		Text: "У реченні:\n\"Кіт <b><u>спить</u></b>.\"\n\nЯкою частиною мови є підкреслене слово \"спить\"?",
		Answers: []quiz.Answer{
			{Text: "дієслово", IsCorrect: true},
			{Text: "іменник"},
		},
	}
}

func TestExplain_Stress(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse("  Кажуть докумЕнт, бо так велить норма.  "))
	svc := NewService(mock, DefaultConfig(), nil)

	got, err := svc.Explain(context.Background(), stressQuestion(), "доку́мент", "докуме́нт")
	require.NoError(t, err)
	assert.Equal(t, "Кажуть докумЕнт, бо так велить норма.", got)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, TextSchema, req.Schema)
	assert.Equal(t, systemPrompt, req.System)
	assert.Equal(t, llm.PurposeExplanation, req.Purpose)
	prompt := req.Prompt
	assert.Contains(t, prompt, "«документ»", "word is shown without the stress mark")
	assert.Contains(t, prompt, "Учень відповів доку́мент")
	assert.Contains(t, prompt, "Тарас Шевченко")
}

func TestExplain_PartsOfSpeechUsesPlainQuestion(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse("Слово «спить» відповідає на питання «що робить?»."))
	svc := NewService(mock, Config{Persona: Franko}, nil)

	_, err := svc.Explain(context.Background(), posQuestion(), "іменник", "дієслово")
	require.NoError(t, err)

	prompt := mock.Calls[0].Prompt
	assert.Contains(t, prompt, "\"Кіт спить.\"")
	assert.NotContains(t, prompt, "<b>")
	assert.Contains(t, prompt, "Іван Франко")
	assert.Equal(t, DefaultConfig().MaxTokens, mock.Calls[0].MaxTokens)
}

func TestExplain_Declension(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse("Орудний відмінок: ким? чим? -- книгою."))
	svc := NewService(mock, Config{Persona: Lesya}, nil)

	q := quiz.Question{
		Kind: quiz.KindDeclension,
		Text: "Поставте іменник \"книга\" у орудний відмінок (ким? чим?) однини",
		Answers: []quiz.Answer{
			{Text: "книгою", IsCorrect: true},
			{Text: "книги"},
		},
	}
	got, err := svc.Explain(context.Background(), q, "книги", "книгою")
	require.NoError(t, err)
	assert.Equal(t, "Орудний відмінок: ким? чим? -- книгою.", got)
	assert.Contains(t, mock.Calls[0].Prompt, "Леся Українка")
}

func TestExplain_Failures(t *testing.T) {
	tests := []struct {
		name    string
		resp    llm.MockResponse
		timeout time.Duration
		want    error
	}{
		{
			name: "provider unavailable",
			resp: llm.MockResponse{Err: &llm.Error{Failure: llm.FailureUnavailable, Provider: "mock", Err: errors.New("503")}},
			want: quiz.ErrUpstream,
		},
		{
			name: "breaker open",
			resp: llm.MockResponse{Err: &llm.Error{Failure: llm.FailureShortCircuit, Provider: "mock"}},
			want: quiz.ErrUpstream,
		},
		{
			name: "empty text",
			resp: llm.TextResponse("   "),
			want: quiz.ErrUpstream,
		},
		{
			name: "not json",
			resp: llm.MockResponse{Content: json.RawMessage(`"просто текст"`)},
			want: quiz.ErrUpstream,
		},
		{
			name:    "deadline",
			resp:    llm.MockResponse{Delay: time.Second, Content: json.RawMessage(`{"text":"пізно"}`)},
			timeout: 10 * time.Millisecond,
			want:    quiz.ErrExplanationTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(llm.NewMockProvider(tt.resp), DefaultConfig(), nil)

			ctx := context.Background()
			if tt.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, tt.timeout)
				defer cancel()
			}

			_, err := svc.Explain(ctx, stressQuestion(), "доку́мент", "докуме́нт")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExplain_NoProvider(t *testing.T) {
	svc := NewService(nil, DefaultConfig(), nil)
	_, err := svc.Explain(context.Background(), stressQuestion(), "a", "b")
	assert.ErrorIs(t, err, quiz.ErrUpstream)
}

func TestExplain_UnknownKind(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := NewService(mock, DefaultConfig(), nil)
	_, err := svc.Explain(context.Background(), quiz.Question{Kind: "spelling"}, "a", "b")
	assert.ErrorIs(t, err, quiz.ErrUpstream)
	assert.Zero(t, mock.CallCount())
}

func TestExample(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse("Я підписав важливий документ."))
	svc := NewService(mock, DefaultConfig(), nil)

	got, err := svc.Example(context.Background(), stressQuestion())
	require.NoError(t, err)
	assert.Equal(t, "Я підписав важливий документ.", got)
	assert.Contains(t, mock.Calls[0].Prompt, "«документ»")
	assert.Equal(t, llm.PurposeExample, mock.Calls[0].Purpose)

	got, err = svc.Example(context.Background(), posQuestion())
	require.NoError(t, err)
	assert.Empty(t, got, "only stress questions get examples")
	assert.Equal(t, 1, mock.CallCount())
}

func TestRandomPersonaIsSeeded(t *testing.T) {
	names := func(seed uint64) []string {
		mock := llm.NewMockProvider()
		fb := llm.TextResponse("ok")
		mock.Fallback = &fb
		svc := NewService(mock, Config{Persona: Random}, quiz.NewRand(seed, seed))
		var out []string
		for range 10 {
			_, err := svc.Example(context.Background(), stressQuestion())
			require.NoError(t, err)
		}
		for _, c := range mock.Calls {
			for _, p := range Personas {
				if strings.Contains(c.Prompt, p.Name()) {
					out = append(out, p.Name())
				}
			}
		}
		return out
	}

	a := names(7)
	assert.Len(t, a, 10)
	assert.Equal(t, a, names(7))
}

func TestParsePersona(t *testing.T) {
	p, err := ParsePersona("")
	require.NoError(t, err)
	assert.Equal(t, Shevchenko, p)

	p, err = ParsePersona("random")
	require.NoError(t, err)
	assert.Equal(t, Random, p)

	_, err = ParsePersona("skovoroda")
	assert.Error(t, err)
}
