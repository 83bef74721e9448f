package llm

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit or quota error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	// Exhausted marks a spent quota that waiting will not restore.
	Exhausted bool
	Err       error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrAuth indicates the backend rejected the credential (401/403).
type ErrAuth struct {
	Err error
}

func (e *ErrAuth) Error() string {
	return fmt.Sprintf("LLM authentication failed: %v", e.Err)
}

func (e *ErrAuth) Unwrap() error { return e.Err }

// ErrEmptyResponse indicates the backend answered without any text content.
type ErrEmptyResponse struct {
	Reason string
}

func (e *ErrEmptyResponse) Error() string {
	if e.Reason == "" {
		return "LLM returned no content"
	}
	return fmt.Sprintf("LLM returned no content: %s", e.Reason)
}

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// parseRetryAfter reads a Retry-After header given in seconds. HTTP-date
// values and garbage yield zero, which falls back to computed backoff.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
