package quizgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/bunpou/internal/llm"
)

// ErrInvalidRequest indicates caller input outside the accepted domain.
// It is returned before any backend call is made.
type ErrInvalidRequest struct {
	Field   string
	Message string
}

func (e *ErrInvalidRequest) Error() string {
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Message)
}

// UnavailableKind classifies why the backend could not produce output.
type UnavailableKind string

const (
	UnavailableAuth      UnavailableKind = "auth"
	UnavailableQuota     UnavailableKind = "quota"
	UnavailableEmpty     UnavailableKind = "empty_response"
	UnavailableTimeout   UnavailableKind = "timeout"
	UnavailableCanceled  UnavailableKind = "canceled"
	UnavailableTransport UnavailableKind = "transport"
)

// ErrGenerationUnavailable indicates the backend could not be used:
// bad credential, quota exhausted, transport failure or an empty answer.
// Callers branch on Kind; the provider error is kept in Err for logging.
type ErrGenerationUnavailable struct {
	Kind UnavailableKind
	Err  error
}

func (e *ErrGenerationUnavailable) Error() string {
	return fmt.Sprintf("generation unavailable (%s): %v", e.Kind, e.Err)
}

func (e *ErrGenerationUnavailable) Unwrap() error { return e.Err }

// unavailable classifies a provider error.
func unavailable(err error) *ErrGenerationUnavailable {
	var (
		authErr *llm.ErrAuth
		rl      *llm.ErrRateLimit
		empty   *llm.ErrEmptyResponse
	)
	kind := UnavailableTransport
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = UnavailableTimeout
	case errors.Is(err, context.Canceled):
		kind = UnavailableCanceled
	case errors.As(err, &authErr):
		kind = UnavailableAuth
	case errors.As(err, &rl):
		kind = UnavailableQuota
	case errors.As(err, &empty):
		kind = UnavailableEmpty
	}
	return &ErrGenerationUnavailable{Kind: kind, Err: err}
}

// ErrSchemaViolation indicates the backend answered but its output could not
// be normalized into valid questions. Raw always holds the backend text
// exactly as received.
type ErrSchemaViolation struct {
	Raw string

	// Index is the offending element, or -1 when the payload as a whole
	// could not be used.
	Index int

	// Validator names the check that failed: "parse", "schema", or a
	// Validator's Name.
	Validator string

	Err error
}

func (e *ErrSchemaViolation) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("schema violation: question %d (%s): %v", e.Index, e.Validator, e.Err)
	}
	return fmt.Sprintf("schema violation (%s): %v", e.Validator, e.Err)
}

func (e *ErrSchemaViolation) Unwrap() error { return e.Err }
