package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/abhisek/bunpou/internal/logger"
)

// RetryProvider re-issues a request after transient backend failures. It
// is only installed when RetryConfig.MaxAttempts > 1; the default stack
// makes a single call and lets the caller decide.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	log    *logger.Logger
}

// WithRetry wraps p with retry logic. A nil logger discards retry events.
func WithRetry(p Provider, cfg RetryConfig, log *logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &RetryProvider{inner: p, config: cfg, log: log}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		err          error
		emptyRetried bool
	)
	for attempt := 1; ; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if attempt >= r.config.MaxAttempts || !retryable(err, &emptyRetried) {
			return nil, err
		}

		wait := r.backoff(attempt, err)
		r.log.Warn("retrying LLM call",
			"purpose", PurposeFrom(ctx),
			"request_id", RequestIDFrom(ctx),
			"attempt", attempt,
			"wait_ms", wait.Milliseconds(),
			"error", err,
		)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// retryable reports whether err is worth another attempt. An empty
// response is retried once; rejected credentials, spent quotas and
// caller cancellation never are.
func retryable(err error, emptyRetried *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var (
		authErr *ErrAuth
		rl      *ErrRateLimit
		empty   *ErrEmptyResponse
	)
	switch {
	case errors.As(err, &authErr):
		return false
	case errors.As(err, &rl):
		return !rl.Exhausted
	case errors.As(err, &empty):
		if *emptyRetried {
			return false
		}
		*emptyRetried = true
		return true
	default:
		// Unavailable backends and network errors.
		return true
	}
}

// backoff returns the wait before the attempt following attempt (1-based).
// A provider-supplied Retry-After wins over the computed delay.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt-1))
	wait = math.Min(wait, float64(r.config.MaxWait))
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(wait, 0))
}
