package llm

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
)

// RetryProvider re-sends a prompt after rate limits and outages with
// exponential backoff. A malformed reply is re-asked once. Truncation,
// short circuits and context errors are final.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
}

func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, cfg: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.cfg.MaxAttempts, 1)
	if attempts == 1 {
		return r.inner.Generate(ctx, req)
	}

	var (
		last    error
		tries   int
		reasked bool
	)
	policy := retry.New[*Response](retry.Config{
		MaxAttempts:   attempts,
		InitialDelay:  r.cfg.InitialWait,
		MaxDelay:      r.cfg.MaxWait,
		Multiplier:    r.cfg.Multiplier,
		BackoffPolicy: retry.BackoffExponential,
		Jitter:        true,
		IsRetryable: func(err error) bool {
			switch FailureOf(err) {
			case FailureRateLimited, FailureUnavailable:
				return true
			case FailureMalformed:
				if reasked {
					return false
				}
				reasked = true
				return true
			}
			return false
		},
	})

	resp, err := policy.Do(ctx, func(ctx context.Context) (*Response, error) {
		tries++
		resp, err := r.inner.Generate(ctx, req)
		if err != nil {
			last = err
			if tries < attempts {
				waitRetryAfter(ctx, err)
			}
		}
		return resp, err
	})
	if err == nil {
		return resp, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if last != nil {
		// The policy wraps exhaustion in its own error; callers classify
		// the vendor's.
		return nil, last
	}
	return nil, err
}

// waitRetryAfter honours a vendor's rate-limit hint before the policy's own
// backoff runs.
func waitRetryAfter(ctx context.Context, err error) {
	var e *Error
	if !errors.As(err, &e) || e.Failure != FailureRateLimited || e.RetryAfter <= 0 {
		return
	}
	t := time.NewTimer(e.RetryAfter)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (r *RetryProvider) Name() string { return r.inner.Name() }

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }
