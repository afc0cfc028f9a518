package llm

import (
	"context"
	"errors"
	"log/slog"

	"github.com/felixgeelhaar/fortify/bulkhead"
	"github.com/felixgeelhaar/fortify/circuitbreaker"

	"github.com/abhisek/slovo/internal/store"
)

// ResilientProvider fails fast once the vendor has failed repeatedly and
// caps concurrent requests, so a learner gets the canned explanation
// instead of waiting on a vendor known to be down. Every call it turns away
// is recorded as a short_circuit event.
type ResilientProvider struct {
	inner    Provider
	recorder EventRecorder
	logger   *slog.Logger
	breaker  circuitbreaker.CircuitBreaker[*Response]
	bulkhead bulkhead.Bulkhead[*Response]
}

// WithResilience wraps p with a circuit breaker and a bulkhead per cfg.
// Zero thresholds disable the respective pattern.
func WithResilience(p Provider, cfg BreakerConfig, recorder EventRecorder, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	rp := &ResilientProvider{inner: p, recorder: recorder, logger: logger}

	if cfg.ConsecutiveFailures > 0 {
		threshold := cfg.ConsecutiveFailures
		rp.breaker = circuitbreaker.New[*Response](circuitbreaker.Config{
			MaxRequests: 1,
			Timeout:     cfg.OpenFor,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(from, to circuitbreaker.State) {
				logger.Warn("llm circuit breaker state change",
					"provider", p.Name(), "from", from.String(), "to", to.String())
			},
		})
	}
	if cfg.MaxConcurrent > 0 {
		rp.bulkhead = bulkhead.New[*Response](bulkhead.Config{
			MaxConcurrent: cfg.MaxConcurrent,
			MaxQueue:      cfg.MaxConcurrent * 2,
		})
	}
	return rp
}

func (r *ResilientProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	op := func(ctx context.Context) (*Response, error) {
		return r.inner.Generate(ctx, req)
	}
	if r.bulkhead != nil {
		limited := op
		op = func(ctx context.Context) (*Response, error) {
			return r.bulkhead.Execute(ctx, limited)
		}
	}
	if r.breaker == nil && r.bulkhead == nil {
		return op(ctx)
	}

	var (
		resp *Response
		err  error
	)
	if r.breaker != nil {
		resp, err = r.breaker.Execute(ctx, op)
	} else {
		resp, err = op(ctx)
	}
	if err == nil || fromVendor(err) {
		return resp, err
	}

	sc := &Error{Failure: FailureShortCircuit, Provider: r.inner.Name(), Err: err}
	record(ctx, r.recorder, r.logger, store.LLMRequestEventData{
		Provider:     r.inner.Name(),
		Model:        r.inner.ModelID(),
		Purpose:      string(req.Purpose),
		Failure:      string(FailureShortCircuit),
		ErrorMessage: sc.Error(),
		RequestBody:  serializeRequest(req),
	})
	return nil, sc
}

func (r *ResilientProvider) Name() string { return r.inner.Name() }

func (r *ResilientProvider) ModelID() string { return r.inner.ModelID() }

// fromVendor reports whether err came from the wrapped provider rather than
// the breaker or bulkhead turning the call away.
func fromVendor(err error) bool {
	var e *Error
	return errors.As(err, &e) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
