package session

import (
	"errors"
	"fmt"

	"github.com/abhisek/slovo/internal/quiz"
)

// ErrInvalidState means a session snapshot violates its own invariants,
// e.g. after a corrupted save or a caller bug.
var ErrInvalidState = errors.New("invalid session state")

// ErrFinished means Advance was called on a session whose summary was
// already emitted.
var ErrFinished = errors.New("session already finished")

// Phase is derived from a session's position.
type Phase int

const (
	PhaseAwaitingFirstQuestion Phase = iota // index = 0
	PhaseInProgress                         // 0 < index < N, or index = N before the summary
	PhaseCompleted                          // summary emitted
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingFirstQuestion:
		return "awaiting-first-question"
	case PhaseInProgress:
		return "in-progress"
	case PhaseCompleted:
		return "completed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Session is one quiz run. It is a plain value: advancing returns a new
// Session and the JSON form is the persisted snapshot.
type Session struct {
	Kind      quiz.Kind       `json:"kind"`
	Questions []quiz.Question `json:"questions"`
	// Index is the number of questions already shown.
	Index int `json:"index"`
	Score int `json:"score"`
	// Done is set once the summary has been emitted.
	Done bool `json:"done,omitempty"`
}

// Total returns the number of questions in the session.
func (s Session) Total() int { return len(s.Questions) }

// Phase reports where the session stands.
func (s Session) Phase() Phase {
	switch {
	case s.Done:
		return PhaseCompleted
	case s.Index == 0:
		return PhaseAwaitingFirstQuestion
	default:
		return PhaseInProgress
	}
}

// Validate checks the position and score bounds and that every question
// has exactly one correct answer.
func (s Session) Validate() error {
	n := len(s.Questions)
	if n == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalidState)
	}
	if s.Index < 0 || s.Index > n {
		return fmt.Errorf("%w: index %d outside [0, %d]", ErrInvalidState, s.Index, n)
	}
	if s.Score < 0 || s.Score > s.Index {
		return fmt.Errorf("%w: score %d outside [0, %d]", ErrInvalidState, s.Score, s.Index)
	}
	if s.Done && s.Index != n {
		return fmt.Errorf("%w: done at index %d of %d", ErrInvalidState, s.Index, n)
	}
	for i := range s.Questions {
		if err := s.Questions[i].Validate(); err != nil {
			return fmt.Errorf("%w: question %d: %v", ErrInvalidState, i+1, err)
		}
	}
	return nil
}
