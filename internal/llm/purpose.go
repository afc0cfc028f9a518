package llm

import "fmt"

// Purpose says why the tutor asked the model something. It is stored with
// every request event and drives the per-purpose usage report.
type Purpose string

const (
	// PurposeExplanation is the reply to a wrong answer.
	PurposeExplanation Purpose = "explanation"
	// PurposeExample is the usage sentence shown with a stress question.
	PurposeExample Purpose = "example"
)

// Purposes lists every purpose in report order.
var Purposes = []Purpose{PurposeExplanation, PurposeExample}

var purposeTitles = map[Purpose]string{
	PurposeExplanation: "wrong-answer explanations",
	PurposeExample:     "example sentences",
}

// Title is the report label; unknown purposes show their raw value.
func (p Purpose) Title() string {
	if t, ok := purposeTitles[p]; ok {
		return t
	}
	return string(p)
}

// ParsePurpose accepts a purpose name as stored in events.
func ParsePurpose(s string) (Purpose, error) {
	for _, p := range Purposes {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown purpose %q (want explanation or example)", s)
}
