package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Failure classifies why a tutor prompt got no usable reply.
type Failure string

const (
	FailureRateLimited  Failure = "rate_limited"
	FailureUnavailable  Failure = "unavailable"
	FailureTruncated    Failure = "truncated"
	FailureMalformed    Failure = "malformed"
	FailureShortCircuit Failure = "short_circuit"
	FailureTimeout      Failure = "timeout"
	FailureCanceled     Failure = "canceled"
)

var failureText = map[Failure]string{
	FailureRateLimited:  "rate limited",
	FailureUnavailable:  "unavailable",
	FailureTruncated:    "reply cut off at the token limit",
	FailureMalformed:    "reply does not match the schema",
	FailureShortCircuit: "skipped, circuit open",
	FailureTimeout:      "timed out",
	FailureCanceled:     "canceled",
}

// Error is returned by every provider adapter.
type Error struct {
	Failure  Failure
	Provider string
	// RetryAfter is the vendor's back-off hint for rate limits.
	RetryAfter time.Duration
	// Content is the rejected reply for truncated and malformed failures.
	Content json.RawMessage
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, failureText[e.Failure])
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// FailureOf classifies err. Context errors are timeouts or cancellations,
// and anything that is not an *Error counts as the vendor being unavailable.
func FailureOf(err error) Failure {
	var e *Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &e):
		return e.Failure
	case errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	case errors.Is(err, context.Canceled):
		return FailureCanceled
	}
	return FailureUnavailable
}

// httpFailure maps a vendor HTTP status onto a Failure.
func httpFailure(provider string, status int, err error) *Error {
	f := FailureUnavailable
	if status == http.StatusTooManyRequests {
		f = FailureRateLimited
	}
	return &Error{Failure: f, Provider: provider, Err: err}
}
