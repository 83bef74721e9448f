package quizgen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/bunpou/internal/llm"
	"github.com/abhisek/bunpou/internal/logger"
)

// Normalizer turns untrusted backend output into validated questions.
// It is strict: one bad record rejects the whole batch.
type Normalizer struct {
	validators []Validator
	log        *logger.Logger
}

// NewNormalizer builds a Normalizer running validators after the record
// schema. A nil logger discards truncation warnings.
func NewNormalizer(validators []Validator, log *logger.Logger) *Normalizer {
	if log == nil {
		log = logger.Nop()
	}
	return &Normalizer{validators: validators, log: log}
}

// Normalize parses raw and returns at most limit questions in the order the
// backend produced them. A limit <= 0 disables truncation. Failures are
// *ErrSchemaViolation carrying raw.Text verbatim.
func (n *Normalizer) Normalize(raw RawOutput, limit int) ([]Question, error) {
	violation := func(index int, validator string, err error) error {
		return &ErrSchemaViolation{Raw: raw.Text, Index: index, Validator: validator, Err: err}
	}

	// Extraction runs even for structured output: a backend asked for a
	// schema may still wrap its answer in a fence.
	items, err := decodeItems(extractJSON(raw.Text))
	if err != nil {
		if raw.StopReason == llm.StopMaxTokens {
			err = fmt.Errorf("%w (response cut off at max_tokens)", err)
		}
		return nil, violation(-1, "parse", err)
	}
	if len(items) == 0 {
		return nil, violation(-1, "parse", errors.New("no questions in response"))
	}

	if limit > 0 && len(items) > limit {
		n.log.Warn("discarding extra questions",
			"model", raw.Model,
			"received", len(items),
			"limit", limit,
		)
		items = items[:limit]
	}

	schema, err := compiledSchema(recordSchema)
	if err != nil {
		return nil, fmt.Errorf("record schema: %w", err)
	}

	out := make([]Question, 0, len(items))
	for i, item := range items {
		inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(item))
		if err != nil {
			return nil, violation(i, "parse", err)
		}
		if err := schema.Validate(inst); err != nil {
			return nil, violation(i, "schema", err)
		}

		var q Question
		if err := json.Unmarshal(item, &q); err != nil {
			return nil, violation(i, "parse", err)
		}
		repair(&q)

		for _, v := range n.validators {
			if verr := v.Validate(&q); verr != nil {
				return nil, violation(i, verr.Validator, verr)
			}
		}
		out = append(out, q)
	}
	return out, nil
}

// repair applies the whitespace and blank-marker fixes. Options and the
// correct answer are left untouched so they still compare byte-wise.
func repair(q *Question) {
	q.Question = repairBlank(strings.TrimSpace(q.Question))
	q.Explanation = strings.TrimSpace(q.Explanation)
}

// decodeItems accepts a top-level array of records or {"questions": [...]}.
func decodeItems(payload string) ([]json.RawMessage, error) {
	trimmed := strings.TrimSpace(payload)
	switch {
	case strings.HasPrefix(trimmed, "["):
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		return items, nil
	case strings.HasPrefix(trimmed, "{"):
		var envelope struct {
			Questions *[]json.RawMessage `json:"questions"`
		}
		if err := json.Unmarshal([]byte(trimmed), &envelope); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		if envelope.Questions == nil {
			return nil, errors.New(`object has no "questions" array`)
		}
		return *envelope.Questions, nil
	default:
		return nil, errors.New("response is not a JSON array or object")
	}
}
