package quizgen

import (
	"fmt"
	"strings"
)

// OptionsValidator checks that there are exactly four non-empty options
// and that no two are equal. Equality is byte-wise; "a" and "a " differ.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(q *Question) *ValidationError {
	if len(q.Options) != OptionCount {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected %d options, got %d", OptionCount, len(q.Options)),
		}
	}
	seen := make(map[string]int, len(q.Options))
	for i, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("option %d is empty", i),
			}
		}
		if j, dup := seen[o]; dup {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("options %d and %d are both %q", j, i, o),
			}
		}
		seen[o] = i
	}
	return nil
}
