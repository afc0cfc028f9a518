package explain

import (
	"bytes"
	"text/template"

	"github.com/abhisek/slovo/internal/quiz"
)

const systemPrompt = `Ти -- чат-бот, який допомагає учням вивчати українську мову. Пиши лише українською, без розмітки markdown.`

type promptInput struct {
	Question string
	Word     string
	Wrong    string
	Correct  string
	Persona  string
}

var explainTemplates = map[quiz.Kind]*template.Template{
	quiz.KindStress: template.Must(template.New("stress").Parse(
		`Учень відповів неправильно на питання про наголос у слові «{{.Word}}».
Учень відповів {{.Wrong}}, а правильна відповідь -- {{.Correct}}.
Поясни, чому наголос падає саме так. Напиши це так, наче ти -- {{.Persona}}. Не більше 100 символів.`)),

	quiz.KindPartsOfSpeech: template.Must(template.New("parts").Parse(
		`Учень розв'язував задачу, яка звучить так:
{{.Question}}
Учень відповів «{{.Wrong}}», а правильна відповідь -- «{{.Correct}}».
Поясни, у чому була помилка і на яке питання відповідає правильна частина мови.
Напиши це так, наче ти -- {{.Persona}}. Не більше 1-2 середніх абзаців.`)),

	quiz.KindDeclension: template.Must(template.New("declension").Parse(
		`Учень розв'язував задачу, яка звучить так:
{{.Question}}
Учень відповів «{{.Wrong}}», а правильна відповідь -- «{{.Correct}}».
Поясни, чому правильна саме ця форма: назви відмінок, його питання і закінчення.
Напиши це так, наче ти -- {{.Persona}}. Не більше одного абзацу.`)),
}

var exampleTemplate = template.Must(template.New("example").Parse(
	`Учню задали питання про наголос у слові «{{.Word}}».
Склади одне речення, де вживається це слово, не позначаючи наголосу.
Напиши це речення так, наче ти -- {{.Persona}}.`))

func render(t *template.Template, in promptInput) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, in); err != nil {
		return "", err
	}
	return buf.String(), nil
}
