package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(VendorConfig{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func anthropicMessage(text, stopReason string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stopReason,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func anthropicError(status int, typ string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": typ, "message": http.StatusText(status)},
		})
	}
}

func TestAnthropicProvider_TutorReply(t *testing.T) {
	var sent map[string]any
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&sent)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(anthropicMessage("```json\n{\"text\":\"Наголос падає на третій склад.\"}\n```", "end_turn"))
	})

	resp, err := p.Generate(context.Background(), textRequest("Поясни наголос."))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"text":"Наголос падає на третій склад."}` {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if resp.Usage.InputTokens != 50 || resp.Usage.OutputTokens != 30 {
		t.Fatalf("unexpected usage %+v", resp.Usage)
	}
	if sent["model"] != "claude-haiku-4-5-20251001" {
		t.Fatalf("expected the default model resolved, got %v", sent["model"])
	}
	messages, _ := sent["messages"].([]any)
	if len(messages) != 1 {
		t.Fatalf("expected one user message, got %v", sent["messages"])
	}
	if sent["system"] == nil {
		t.Fatal("expected the system prompt to be sent")
	}
}

func TestAnthropicProvider_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    Failure
	}{
		{"truncated", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(anthropicMessage(`{"text":"Наголос`, "max_tokens"))
		}, FailureTruncated},
		{"no text block", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			msg := anthropicMessage("", "end_turn")
			msg["content"] = []map[string]any{}
			json.NewEncoder(w).Encode(msg)
		}, FailureMalformed},
		{"rate limited", anthropicError(http.StatusTooManyRequests, "rate_limit_error"), FailureRateLimited},
		{"server error", anthropicError(http.StatusInternalServerError, "api_error"), FailureUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestAnthropicProvider(t, tt.handler)
			_, err := p.Generate(context.Background(), textRequest("test"))
			if got := FailureOf(err); got != tt.want {
				t.Fatalf("expected %s, got %s (%v)", tt.want, got, err)
			}
		})
	}
}

func TestAnthropicProvider_Identity(t *testing.T) {
	p, err := NewAnthropicProvider(VendorConfig{APIKey: "test-key", Model: "claude-sonnet"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "anthropic" || p.ModelID() != "claude-sonnet-4-5" {
		t.Fatalf("unexpected identity %s/%s", p.Name(), p.ModelID())
	}
	if _, err := NewAnthropicProvider(VendorConfig{}); err == nil {
		t.Fatal("expected error for missing key")
	}
}
