package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// MockResponse is one canned reply or failure.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
	// Delay holds the reply back; a context deadline cuts it short.
	Delay time.Duration
}

// TextResponse is a MockResponse shaped like a tutor reply, {"text": text}.
func TextResponse(text string) MockResponse {
	b, _ := json.Marshal(map[string]string{"text": text})
	return MockResponse{Content: b}
}

// MockProvider replays canned replies in order and records every request,
// for tests and for running the bot without an API key. The Fallback, when
// set, answers once the queue is empty. Replies are not checked against
// the request schema.
type MockProvider struct {
	mu       sync.Mutex
	queue    []MockResponse
	Fallback *MockResponse
	Calls    []Request
}

func NewMockProvider(queue ...MockResponse) *MockProvider {
	return &MockProvider{queue: queue}
}

// Generate fails as unavailable when there is neither a queued reply nor a
// fallback.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	next, ok := m.next(req)
	if !ok {
		return nil, &Error{Failure: FailureUnavailable, Provider: "mock", Err: errors.New("no canned reply")}
	}

	if next.Delay > 0 {
		t := time.NewTimer(next.Delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: "mock"}, nil
}

func (m *MockProvider) next(req Request) (MockResponse, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	switch {
	case len(m.queue) > 0:
		r := m.queue[0]
		m.queue = m.queue[1:]
		return r, true
	case m.Fallback != nil:
		return *m.Fallback, true
	}
	return MockResponse{}, false
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) ModelID() string { return "mock" }

// AddResponse queues another reply.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, resp)
}

// CallCount is the number of requests seen so far.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
