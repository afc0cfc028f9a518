package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/slovo/internal/store"
)

// EventRecorder persists one row per call to the vendor.
type EventRecorder interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// LoggingProvider records every vendor call with its purpose, tokens,
// latency and failure kind.
type LoggingProvider struct {
	inner    Provider
	recorder EventRecorder
	logger   *slog.Logger
}

// WithLogging wraps p. A nil recorder only logs.
func WithLogging(p Provider, recorder EventRecorder, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingProvider{inner: p, recorder: recorder, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start)

	data := store.LLMRequestEventData{
		Provider:    l.inner.Name(),
		Model:       l.inner.ModelID(),
		Purpose:     string(req.Purpose),
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.Failure = string(FailureOf(err))
		data.ErrorMessage = err.Error()
	}
	record(ctx, l.recorder, l.logger, data)
	return resp, err
}

func (l *LoggingProvider) Name() string { return l.inner.Name() }

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

// record logs a call and stores it. A storage error never fails the call.
func record(ctx context.Context, recorder EventRecorder, logger *slog.Logger, data store.LLMRequestEventData) {
	attrs := []any{
		"provider", data.Provider, "model", data.Model, "purpose", data.Purpose,
		"latency_ms", data.LatencyMs,
	}
	if data.Success {
		logger.Debug("llm request", append(attrs,
			"input_tokens", data.InputTokens, "output_tokens", data.OutputTokens)...)
	} else {
		logger.Warn("llm request failed", append(attrs,
			"failure", data.Failure, "err", data.ErrorMessage)...)
	}

	if recorder == nil {
		return
	}
	if err := recorder.AppendLLMRequest(context.WithoutCancel(ctx), data); err != nil {
		logger.Warn("failed to record LLM request event", "err", err)
	}
}

// serializeRequest renders a request for the event log.
func serializeRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	fmt.Fprintf(&b, "[user]\n%s\n\n", req.Prompt)
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition()); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
