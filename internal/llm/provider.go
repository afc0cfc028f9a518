package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Provider answers tutor prompts with a JSON object shaped by the
// request's Schema.
type Provider interface {
	// Generate returns a reply whose Content has been checked against
	// req.Schema. Failures are *Error values or context errors.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name is the vendor name recorded with events, e.g. "openai".
	Name() string

	// ModelID is the configured vendor model.
	ModelID() string
}

// Request is one single-turn tutor prompt.
type Request struct {
	Purpose Purpose
	System  string
	Prompt  string
	Schema  *Schema

	MaxTokens   int
	Temperature float64
}

var errNoSchema = errors.New("request has no reply schema")

// Response is a validated reply.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	// Model is the model that served the request, which may differ from
	// the configured alias.
	Model string
}

// Usage counts the tokens of one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Field returns one string field of the reply object.
func (r *Response) Field(name string) (string, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(r.Content, &obj); err != nil {
		return "", fmt.Errorf("decode reply: %w", err)
	}
	raw, ok := obj[name]
	if !ok {
		return "", fmt.Errorf("reply has no %q field", name)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("reply field %q: %w", name, err)
	}
	return s, nil
}

// reply is what an adapter pulls out of a vendor response.
type reply struct {
	text      string
	truncated bool
	usage     Usage
	model     string
}

// finish checks a vendor reply against the request schema. A reply cut off
// at the token limit is reported as truncated even if it happens to parse.
func finish(provider string, req Request, r reply) (*Response, error) {
	content := extractJSON(r.text)
	if r.truncated {
		return nil, &Error{Failure: FailureTruncated, Provider: provider, Content: content}
	}
	if err := req.Schema.check(content); err != nil {
		return nil, &Error{Failure: FailureMalformed, Provider: provider, Content: content, Err: err}
	}
	return &Response{Content: content, Usage: r.usage, Model: r.model}, nil
}
