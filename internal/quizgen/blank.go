package quizgen

import (
	"fmt"
	"regexp"
	"strings"
)

// blankVariant matches the ways models write the blank when they drift from
// the canonical marker: empty or space-filled brackets of either width, and
// runs of full-width or ASCII underscores.
var blankVariant = regexp.MustCompile(`[（(][ \t　]*[)）]|＿{2,}|_{2,}`)

// repairBlank rewrites blank variants in s to BlankMarker. The canonical
// marker is itself a variant, so the rewrite is idempotent.
func repairBlank(s string) string {
	return blankVariant.ReplaceAllString(s, BlankMarker)
}

// BlankValidator checks that the question marks exactly one blank.
type BlankValidator struct{}

func (v *BlankValidator) Name() string { return "blank" }

func (v *BlankValidator) Validate(q *Question) *ValidationError {
	switch n := strings.Count(q.Question, BlankMarker); n {
	case 1:
		return nil
	case 0:
		return &ValidationError{Validator: v.Name(), Message: "question has no blank marker"}
	default:
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("question has %d blank markers, want 1", n),
		}
	}
}
