package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"google.golang.org/genai"
)

// geminiModels maps friendly names to Gemini model IDs.
var geminiModels = map[string]string{
	"gemini-flash":      "gemini-2.0-flash",
	"gemini-flash-lite": "gemini-2.0-flash-lite",
	"gemini-pro":        "gemini-2.5-pro",
}

// GeminiProvider implements Provider using the Google Gemini SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	model := resolveModel(cfg.Model, geminiModels)

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(req.MaxTokens),
	}

	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		config.Temperature = &temp
	}

	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}

	if req.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = buildGeminiSchema(req.Schema.Definition)
	}

	contents := turns(req.Messages,
		func(c string) *genai.Content { return genai.NewContentFromText(c, genai.RoleUser) },
		func(c string) *genai.Content { return genai.NewContentFromText(c, genai.RoleModel) },
	)

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	if fb := result.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return nil, &ErrEmptyResponse{Reason: "prompt blocked: " + string(fb.BlockReason)}
	}
	var finish string
	if len(result.Candidates) > 0 {
		finish = string(result.Candidates[0].FinishReason)
	}
	text := result.Text()
	if text == "" {
		return nil, &ErrEmptyResponse{Reason: "finish reason " + finish}
	}

	model := p.model
	if result.ModelVersion != "" {
		model = result.ModelVersion
	}
	resp := &Response{
		Text:       text,
		Structured: req.Schema != nil,
		Model:      model,
		StopReason: geminiStops.normalize(finish),
	}
	if u := result.UsageMetadata; u != nil {
		resp.Usage = usage(int64(u.PromptTokenCount), int64(u.CandidatesTokenCount))
	}

	return resp, nil
}

func (p *GeminiProvider) ModelID() string {
	return p.model
}

// buildGeminiSchema converts a JSON Schema definition map to a genai.Schema.
// Property order follows "required" so records come back in the order the
// prompt describes them.
func buildGeminiSchema(def map[string]any) *genai.Schema {
	schema := &genai.Schema{}

	if t, ok := def["type"].(string); ok {
		schema.Type = mapGeminiType(t)
	}
	schema.Description, _ = def["description"].(string)
	schema.Required = stringList(def["required"])
	schema.Enum = stringList(def["enum"])

	if props, ok := def["properties"].(map[string]any); ok {
		schema.Properties = make(map[string]*genai.Schema, len(props))
		for k, v := range props {
			if propDef, ok := v.(map[string]any); ok {
				schema.Properties[k] = buildGeminiSchema(propDef)
			}
		}
		schema.PropertyOrdering = slices.Clone(schema.Required)
	}

	if items, ok := def["items"].(map[string]any); ok {
		schema.Items = buildGeminiSchema(items)
	}
	for key, dst := range map[string]**int64{
		"minItems":  &schema.MinItems,
		"maxItems":  &schema.MaxItems,
		"minLength": &schema.MinLength,
		"maxLength": &schema.MaxLength,
	} {
		if n, ok := intKeyword(def, key); ok {
			*dst = &n
		}
	}

	return schema
}

func mapGeminiType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

var geminiStops = stopReasons{
	string(genai.FinishReasonMaxTokens):         StopMaxTokens,
	string(genai.FinishReasonSafety):            StopSafety,
	string(genai.FinishReasonProhibitedContent): StopSafety,
	string(genai.FinishReasonBlocklist):         StopSafety,
}

// mapGeminiError classifies SDK errors. Gemini reports a bad key as a 400.
func mapGeminiError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return &ErrProviderUnavailable{Err: err}
	}
	if apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "API key") {
		return &ErrAuth{Err: err}
	}
	return statusError(apiErr.Code, err)
}
