package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// openaiModels maps friendly names to OpenAI model IDs.
var openaiModels = map[string]string{
	"gpt-4o":      "gpt-4o",
	"gpt-4o-mini": "gpt-4o-mini",
}

// OpenAIProvider implements Provider using the OpenAI SDK.
// It also supports OpenRouter and other OpenAI-compatible APIs via BaseURL.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	client := openai.NewClientWithConfig(config)
	model := resolveModel(cfg.Model, openaiModels)

	return &OpenAIProvider{
		client: client,
		model:  model,
	}, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chatReq, err := p.buildRequest(req)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, mapOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &ErrEmptyResponse{Reason: "no choices in OpenAI response"}
	}
	choice := resp.Choices[0]
	if choice.Message.Content == "" && choice.Message.Refusal != "" {
		return nil, &ErrEmptyResponse{Reason: "model refused: " + choice.Message.Refusal}
	}

	return &Response{
		Text:       choice.Message.Content,
		Structured: req.Schema != nil,
		Usage:      usage(int64(resp.Usage.PromptTokens), int64(resp.Usage.CompletionTokens)),
		Model:      resp.Model,
		StopReason: openaiStops.normalize(string(choice.FinishReason)),
	}, nil
}

func (p *OpenAIProvider) ModelID() string {
	return p.model
}

// openaiUnsupported lists keywords strict json_schema mode refuses.
var openaiUnsupported = []string{"minLength", "maxLength", "uniqueItems"}

func (p *OpenAIProvider) buildRequest(req Request) (openai.ChatCompletionRequest, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:               p.model,
		Messages:            openaiMessages(req),
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.Schema == nil {
		return chatReq, nil
	}

	schemaBytes, err := json.Marshal(sealObjects(pruneSchema(req.Schema.Definition, openaiUnsupported...)))
	if err != nil {
		return chatReq, fmt.Errorf("marshal schema: %w", err)
	}
	chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:        req.Schema.Name,
			Description: req.Schema.Description,
			Schema:      json.RawMessage(schemaBytes),
			Strict:      true,
		},
	}
	return chatReq, nil
}

func openaiMessages(req Request) []openai.ChatCompletionMessage {
	msg := func(role string) func(string) openai.ChatCompletionMessage {
		return func(c string) openai.ChatCompletionMessage {
			return openai.ChatCompletionMessage{Role: role, Content: c}
		}
	}
	history := turns(req.Messages, msg(openai.ChatMessageRoleUser), msg(openai.ChatMessageRoleAssistant))
	if req.System == "" {
		return history
	}
	return append([]openai.ChatCompletionMessage{msg(openai.ChatMessageRoleSystem)(req.System)}, history...)
}

var openaiStops = stopReasons{
	string(openai.FinishReasonLength):        StopMaxTokens,
	string(openai.FinishReasonContentFilter): StopSafety,
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return &ErrProviderUnavailable{Err: err}
	}
	mapped := statusError(apiErr.HTTPStatusCode, err)
	if rl, ok := mapped.(*ErrRateLimit); ok {
		// insufficient_quota is a billing state, not a burst limit.
		rl.Exhausted = apiErr.Code == "insufficient_quota"
	}
	return mapped
}
