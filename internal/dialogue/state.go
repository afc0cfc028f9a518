// Package dialogue drives a chat conversation from greeting to quiz results.
package dialogue

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/slovo/internal/quiz"
	"github.com/abhisek/slovo/internal/session"
)

// ErrUnknownState means a stored state could not be decoded.
var ErrUnknownState = errors.New("unknown dialogue state")

// State is where a conversation stands. It is one of Start, AwaitingName,
// AwaitingGameChoice, AwaitingQuestionCount or InQuiz.
type State interface {
	tag() string
}

// Start is the state of a conversation nobody has spoken in yet.
type Start struct{}

// AwaitingName waits for the learner to introduce themselves.
type AwaitingName struct{}

// AwaitingGameChoice shows the game menu.
type AwaitingGameChoice struct {
	Name string `json:"name"`
}

// AwaitingQuestionCount waits for how many questions of Kind to ask.
type AwaitingQuestionCount struct {
	Name string    `json:"name"`
	Kind quiz.Kind `json:"kind"`
}

// InQuiz runs a quiz session.
type InQuiz struct {
	Name    string          `json:"name"`
	Session session.Session `json:"session"`
}

func (Start) tag() string                 { return "start" }
func (AwaitingName) tag() string          { return "awaiting_name" }
func (AwaitingGameChoice) tag() string    { return "awaiting_game_choice" }
func (AwaitingQuestionCount) tag() string { return "awaiting_question_count" }
func (InQuiz) tag() string                { return "in_quiz" }

type envelope struct {
	State string          `json:"state"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// MarshalState encodes st as {"state": tag, "data": fields}.
func MarshalState(st State) ([]byte, error) {
	if st == nil {
		st = Start{}
	}
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encode %s state: %w", st.tag(), err)
	}
	if string(data) == "{}" {
		data = nil
	}
	return json.Marshal(envelope{State: st.tag(), Data: data})
}

// UnmarshalState decodes what MarshalState produced. Empty input is Start.
func UnmarshalState(b []byte) (State, error) {
	if len(b) == 0 {
		return Start{}, nil
	}
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownState, err)
	}

	var (
		st  State
		err error
	)
	switch env.State {
	case Start{}.tag():
		st = Start{}
	case AwaitingName{}.tag():
		st = AwaitingName{}
	case AwaitingGameChoice{}.tag():
		st, err = decode[AwaitingGameChoice](env.Data)
	case AwaitingQuestionCount{}.tag():
		st, err = decode[AwaitingQuestionCount](env.Data)
	case InQuiz{}.tag():
		st, err = decode[InQuiz](env.Data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownState, env.State)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnknownState, env.State, err)
	}
	return st, nil
}

func decode[T State](data json.RawMessage) (State, error) {
	var v T
	if len(data) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
