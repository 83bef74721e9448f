package quizgen

import (
	"strings"
	"unicode/utf8"
)

const (
	maxQuestionRunes    = 500
	maxExplanationRunes = 2000
)

// StructuralValidator checks that text fields are present and within
// length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question) *ValidationError {
	if strings.TrimSpace(q.Question) == "" {
		return &ValidationError{Validator: v.Name(), Message: "question is empty"}
	}
	if utf8.RuneCountInString(q.Question) > maxQuestionRunes {
		return &ValidationError{Validator: v.Name(), Message: "question exceeds 500 characters"}
	}
	if strings.TrimSpace(q.Explanation) == "" {
		return &ValidationError{Validator: v.Name(), Message: "explanation is empty"}
	}
	if utf8.RuneCountInString(q.Explanation) > maxExplanationRunes {
		return &ValidationError{Validator: v.Name(), Message: "explanation exceeds 2000 characters"}
	}
	return nil
}
