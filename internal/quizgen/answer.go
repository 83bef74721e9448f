package quizgen

import "fmt"

// AnswerValidator checks that the correct answer is one of the options.
type AnswerValidator struct{}

func (v *AnswerValidator) Name() string { return "answer" }

func (v *AnswerValidator) Validate(q *Question) *ValidationError {
	if q.CorrectIndex() < 0 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("correct_answer %q is not among the options", q.CorrectAnswer),
		}
	}
	return nil
}
