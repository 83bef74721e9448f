package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicModels maps friendly names to Anthropic model IDs.
var anthropicModels = map[string]string{
	"claude-sonnet": "claude-sonnet-4-20250514",
	"claude-haiku":  "claude-haiku-4-5-20251001",
}

// AnthropicProvider implements Provider using the Anthropic SDK.
type AnthropicProvider struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(cfg AnthropicConfig) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := anthropic.NewClient(opts...)
	model := resolveModel(cfg.Model, anthropicModels)

	return &AnthropicProvider{
		client: &client,
		model:  model,
	}, nil
}

func (p *AnthropicProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(req.MaxTokens),
		Messages: turns(req.Messages,
			func(c string) anthropic.MessageParam { return anthropic.NewUserMessage(anthropic.NewTextBlock(c)) },
			func(c string) anthropic.MessageParam { return anthropic.NewAssistantMessage(anthropic.NewTextBlock(c)) },
		),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if req.Schema != nil {
		params.OutputConfig = anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{Schema: anthropicSchema(req.Schema.Definition)},
		}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, mapAnthropicError(err)
	}

	// Models occasionally split a long JSON document across text blocks.
	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, &ErrEmptyResponse{Reason: "no text content in Anthropic response"}
	}

	return &Response{
		Text:       text.String(),
		Structured: req.Schema != nil,
		Usage:      usage(msg.Usage.InputTokens, msg.Usage.OutputTokens),
		Model:      string(msg.Model),
		StopReason: anthropicStops.normalize(string(msg.StopReason)),
	}, nil
}

func (p *AnthropicProvider) ModelID() string {
	return p.model
}

var anthropicStops = stopReasons{
	"max_tokens": StopMaxTokens,
	"refusal":    StopSafety,
}

// mapAnthropicError classifies SDK errors, carrying a 429's Retry-After.
func mapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return &ErrProviderUnavailable{Err: err}
	}
	mapped := statusError(apiErr.StatusCode, err)
	if rl, ok := mapped.(*ErrRateLimit); ok && apiErr.Response != nil {
		rl.RetryAfter = parseRetryAfter(apiErr.Response.Header.Get("Retry-After"))
	}
	return mapped
}

// anthropicUnsupported lists schema keywords Anthropic structured output
// rejects. The normalizer enforces them after the fact.
var anthropicUnsupported = []string{"minItems", "maxItems", "minLength", "uniqueItems"}

func anthropicSchema(def map[string]any) map[string]any {
	return sealObjects(pruneSchema(def, anthropicUnsupported...))
}

// resolveModel maps a friendly model name to a provider model ID.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	// If not in the map, use as-is (allows direct model IDs).
	return name
}
