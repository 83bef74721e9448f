package llm

import "context"

// Provider is the core abstraction for LLM interaction.
// Implementations are pure transports: they send a Request and hand back
// whatever text the backend produced without validating it.
type Provider interface {
	// Generate sends a prompt to the LLM and returns its raw output.
	// When the request carries a Schema the provider asks the backend for
	// schema-constrained decoding and sets Response.Structured.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt. Sets the LLM's role and constraints.
	System string

	// Messages is the conversation history. Quiz generation is single-turn,
	// so this normally holds one user message.
	Messages []Message

	// Schema is the JSON Schema the response should conform to.
	// Conformance is requested, never guaranteed.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Zero leaves the backend default.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema (tool/schema name for the backends).
	// Kebab-case, e.g. "jlpt-grammar-quiz".
	Name string

	// Description is sent to the LLM to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Text is the generated output exactly as the backend returned it.
	Text string

	// Structured is true when the backend was asked for native
	// schema-constrained output.
	Structured bool

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// One of StopEnd, StopMaxTokens or StopSafety.
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
