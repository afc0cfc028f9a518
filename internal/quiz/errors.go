package quiz

import "errors"

var (
	// ErrCorpusExhausted means no source item could produce a question
	// within the attempt budget.
	ErrCorpusExhausted = errors.New("corpus exhausted")

	// ErrNoMatchingForm means the chosen noun lacks the requested form, or
	// the chosen sentence has no token that can be asked about.
	ErrNoMatchingForm = errors.New("no matching form")

	// ErrNoDistractorPosition means a stress word has no vowel other than
	// the stressed one.
	ErrNoDistractorPosition = errors.New("no distractor position")

	// ErrInvalidUserInput means the user sent something the current step
	// cannot accept.
	ErrInvalidUserInput = errors.New("invalid user input")

	// ErrExplanationTimeout means the explanation service did not answer in time.
	ErrExplanationTimeout = errors.New("explanation timed out")

	// ErrUpstream means the explanation service failed.
	ErrUpstream = errors.New("explanation service failed")
)

// IsItemError reports whether err concerns only the sampled source item,
// so drawing another item may succeed.
func IsItemError(err error) bool {
	return errors.Is(err, ErrNoMatchingForm) || errors.Is(err, ErrNoDistractorPosition)
}
