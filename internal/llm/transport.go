package llm

import "net/http"

// Normalized values of Response.StopReason.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
	StopSafety    = "safety"
)

// stopReasons maps a backend's finish reasons onto StopMaxTokens or
// StopSafety. Anything unlisted, including an empty reason, is StopEnd.
type stopReasons map[string]string

func (m stopReasons) normalize(reason string) string {
	if r, ok := m[reason]; ok {
		return r
	}
	return StopEnd
}

// turns converts the conversation with one constructor per role.
func turns[T any](msgs []Message, user, assistant func(string) T) []T {
	out := make([]T, len(msgs))
	for i, m := range msgs {
		if m.Role == RoleAssistant {
			out[i] = assistant(m.Content)
		} else {
			out[i] = user(m.Content)
		}
	}
	return out
}

// statusError classifies a vendor SDK error by its HTTP status. Statuses
// with no better mapping, and errors that never reached the API, count as
// an unavailable backend.
func statusError(status int, err error) error {
	switch status {
	case http.StatusTooManyRequests:
		return &ErrRateLimit{Err: err}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ErrAuth{Err: err}
	default:
		return &ErrProviderUnavailable{Err: err}
	}
}

func usage(in, out int64) Usage {
	return Usage{InputTokens: int(in), OutputTokens: int(out), TotalTokens: int(in + out)}
}
