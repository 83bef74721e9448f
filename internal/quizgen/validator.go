package quizgen

import "fmt"

// Validator checks one normalized record for a semantic invariant.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier used in errors and logs,
	// e.g. "structural", "options", "blank".
	Name() string

	// Validate returns nil if q passes.
	Validate(q *Question) *ValidationError
}

// ValidationError describes why a record failed a check.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
