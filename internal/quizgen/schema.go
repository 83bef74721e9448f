package quizgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/bunpou/internal/llm"
)

// questionProperties describes one record. The descriptions double as
// guidance for backends that read the schema.
func questionProperties() map[string]any {
	return map[string]any{
		"question": map[string]any{
			"type":        "string",
			"description": "問題文。テストする文法部分を（　　）で一度だけ示す。例: 昨日は熱があった（　　）、会社を休みました。",
		},
		"options": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"minItems":    OptionCount,
			"maxItems":    OptionCount,
			"description": "選択肢。互いに重複しない4つの文字列。例: [\"ので\", \"のに\", \"ても\", \"ながら\"]",
		},
		"correct_answer": map[string]any{
			"type":        "string",
			"description": "正解。optionsの要素をそのまま写したもの。例: ので",
		},
		"explanation": map[string]any{
			"type":        "string",
			"description": "解説。正解の理由と各不正解の選択肢が誤りである理由。",
		},
	}
}

var questionRequired = []any{"question", "options", "correct_answer", "explanation"}

// ResponseSchema is the output shape requested from the backend. The root is
// an object because OpenAI strict mode and Anthropic structured output both
// require one.
var ResponseSchema = &llm.Schema{
	Name:        "jlpt-grammar-quiz",
	Description: "A batch of JLPT multiple-choice grammar questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"properties":           questionProperties(),
					"required":             questionRequired,
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// recordSchema is what every element must satisfy after parsing. It is
// stricter than ResponseSchema on values and looser on extra keys, which
// are ignored.
var recordSchema = &llm.Schema{
	Name: "jlpt-grammar-question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{"type": "string", "minLength": 1},
			"options": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string", "minLength": 1},
				"minItems":    OptionCount,
				"maxItems":    OptionCount,
				"uniqueItems": true,
			},
			"correct_answer": map[string]any{"type": "string", "minLength": 1},
			"explanation":    map[string]any{"type": "string", "minLength": 1},
		},
		"required": questionRequired,
	},
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// compiledSchema returns a cached compiled schema or compiles and caches it.
func compiledSchema(schema *llm.Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants plain decoded JSON values, not Go ints and []string.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	actual, _ := schemaCache.LoadOrStore(schema.Name, compiled)
	return actual.(*jsonschema.Schema), nil
}
