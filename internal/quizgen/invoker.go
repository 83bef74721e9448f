package quizgen

import (
	"context"

	"github.com/abhisek/bunpou/internal/llm"
)

// RawOutput is the untrusted backend answer handed to the Normalizer.
type RawOutput struct {
	Text string

	// Structured is true when the backend was asked for schema-constrained
	// decoding. It is informational; the payload is still untrusted.
	Structured bool

	Model      string
	StopReason string
}

// Invoker sends a Prompt to the backend exactly once.
type Invoker struct {
	provider    llm.Provider
	temperature float64
}

// NewInvoker wraps a provider that was built once at startup.
func NewInvoker(provider llm.Provider, temperature float64) *Invoker {
	return &Invoker{provider: provider, temperature: temperature}
}

// Invoke makes one backend call. Any provider failure comes back as
// *ErrGenerationUnavailable.
func (i *Invoker) Invoke(ctx context.Context, p Prompt, maxTokens int) (*RawOutput, error) {
	req := llm.Request{
		System: p.System,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: p.User},
		},
		Schema:      p.Schema,
		MaxTokens:   maxTokens,
		Temperature: i.temperature,
	}

	resp, err := i.provider.Generate(ctx, req)
	if err != nil {
		return nil, unavailable(err)
	}

	return &RawOutput{
		Text:       resp.Text,
		Structured: resp.Structured,
		Model:      resp.Model,
		StopReason: resp.StopReason,
	}, nil
}
