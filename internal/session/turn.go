package session

import (
	"fmt"

	"github.com/abhisek/slovo/internal/quiz"
)

// Feedback is the verdict on the previous answer.
type Feedback struct {
	Correct       bool
	Given         string
	CorrectAnswer string
	// Explanation is set for wrong answers: the explainer's text, or the
	// canned fallback when it was unavailable.
	Explanation string
	// Fallback reports that Explanation is the canned text.
	Fallback bool
}

// Summary closes a finished session.
type Summary struct {
	Score int
	Total int
}

// Turn is what one Advance call produces. Exactly one of Question and
// Summary is set; Feedback is set on every turn but the first.
type Turn struct {
	Feedback *Feedback
	Question *quiz.Question
	// Number is the 1-based position of Question.
	Number  int
	Summary *Summary
}

// FallbackExplanation is shown when no explanation could be fetched.
func FallbackExplanation(correct string) string {
	return fmt.Sprintf("Правильна відповідь -- %s Будь уважнішим!", correct)
}
