package dialogue

import "github.com/abhisek/slovo/internal/quiz"

// Message is one outbound chat message.
type Message struct {
	Text string
	// HTML marks Text as Telegram HTML; otherwise it is plain text.
	HTML bool
	// Keyboard replaces the reply keyboard when non-nil; one slice per row.
	Keyboard [][]string
}

// Reply is everything one Step sends back, in order.
type Reply struct {
	Messages []Message
}

func (r *Reply) say(text string) {
	r.Messages = append(r.Messages, Message{Text: text})
}

func (r *Reply) ask(text string, keyboard [][]string) {
	r.Messages = append(r.Messages, Message{Text: text, Keyboard: keyboard})
}

const (
	textGreeting      = "Привіт! Я -- морфологічний бот. Я допоможу тобі вивчити українську мову! Давай познайомимося! Як тебе звати?"
	textAskName       = "Будь ласка, введіть своє ім'я (текстом)"
	textNiceToMeet    = "Приємно познайомитися, %s!"
	textMenu          = "Що б ти хотів зробити?"
	textChooseOption  = "Будь ласка, виберіть один з варіантів"
	textChooseCount   = "Обери кількість питань"
	textNotANumber    = "Будь ласка, введіть число"
	textZeroCount     = "Кількість питань не може бути 0"
	textTooMany       = "Можна не більше %d питань"
	textLetsGo        = "Чудово! Почнемо тест!"
	textGo            = "Вйо!"
	textNoQuestions   = "Вибач, не вдалося скласти питання для цієї гри. Спробуй іншу!"
	textCorrect       = "Правильно!"
	textWrong         = "Неправильно!\n\n%s"
	textQuestion      = "Питання №%d:\n%s"
	textExample       = "\n\nПриклад:\n%s"
	textSummary       = "Квіз закінчився! Ти відповів правильно на %d з %d питань\nЩо б ти хотів зробити далі?"
	textStopped       = "Квіз зупинено."
	textNothingToStop = "Зараз немає активного квізу."
	textLost          = "Вибач, я загубив твій квіз. Почнімо спочатку."
)

// GameLabel returns the menu button text for kind.
func GameLabel(kind quiz.Kind) string {
	return "Почати тест на " + kind.Title()
}

var countKeyboard = [][]string{{"5"}, {"10"}, {"15"}}

func answerKeyboard(q *quiz.Question) [][]string {
	opts := q.Options()
	// Stress pairs are short enough to sit side by side.
	if q.Kind == quiz.KindStress {
		return [][]string{opts}
	}
	rows := make([][]string, len(opts))
	for i, o := range opts {
		rows[i] = []string{o}
	}
	return rows
}
