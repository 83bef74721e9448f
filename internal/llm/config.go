package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "openai", "openrouter", "anthropic", "mock"
	Provider string

	Gemini     GeminiConfig
	OpenAI     OpenAIConfig
	OpenRouter OpenRouterConfig
	Anthropic  AnthropicConfig
	Retry      RetryConfig
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string // Default: "gemini-flash"
	BaseURL string // Optional. Override for proxies and tests.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "gemini-flash"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string // Optional. Override for proxies and tests.
}

// RetryConfig configures retry behavior for transient failures.
// MaxAttempts <= 1 disables retries entirely.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// Enabled reports whether the retry middleware should be installed.
func (r RetryConfig) Enabled() bool {
	return r.MaxAttempts > 1
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		OpenRouter: OpenRouterConfig{
			Model: "gemini-flash",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// envBinding ties environment variables to a string setting. The first
// non-empty variable wins.
type envBinding struct {
	keys  []string
	field func(*Config) *string
}

var envBindings = []envBinding{
	{[]string{"BUNPOU_LLM_PROVIDER"}, func(c *Config) *string { return &c.Provider }},
	// The google SDK reads either name.
	{[]string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}, func(c *Config) *string { return &c.Gemini.APIKey }},
	{[]string{"GEMINI_MODEL_ID"}, func(c *Config) *string { return &c.Gemini.Model }},
	{[]string{"BUNPOU_GEMINI_BASE_URL"}, func(c *Config) *string { return &c.Gemini.BaseURL }},
	{[]string{"OPENAI_API_KEY"}, func(c *Config) *string { return &c.OpenAI.APIKey }},
	{[]string{"BUNPOU_OPENAI_MODEL"}, func(c *Config) *string { return &c.OpenAI.Model }},
	{[]string{"BUNPOU_OPENAI_BASE_URL"}, func(c *Config) *string { return &c.OpenAI.BaseURL }},
	{[]string{"OPENROUTER_API_KEY"}, func(c *Config) *string { return &c.OpenRouter.APIKey }},
	{[]string{"BUNPOU_OPENROUTER_MODEL"}, func(c *Config) *string { return &c.OpenRouter.Model }},
	{[]string{"ANTHROPIC_API_KEY"}, func(c *Config) *string { return &c.Anthropic.APIKey }},
	{[]string{"BUNPOU_ANTHROPIC_MODEL"}, func(c *Config) *string { return &c.Anthropic.Model }},
	{[]string{"BUNPOU_ANTHROPIC_BASE_URL"}, func(c *Config) *string { return &c.Anthropic.BaseURL }},
}

// ConfigFromEnv builds a Config from the process environment, falling back
// to defaults for unset values. A malformed BUNPOU_LLM_MAX_ATTEMPTS is
// ignored here; internal/config reports it.
func ConfigFromEnv() Config {
	return configFrom(os.Getenv)
}

func configFrom(getenv func(string) string) Config {
	cfg := DefaultConfig()
	for _, b := range envBindings {
		for _, key := range b.keys {
			if v := strings.TrimSpace(getenv(key)); v != "" {
				*b.field(&cfg) = v
				break
			}
		}
	}
	if n, err := strconv.Atoi(strings.TrimSpace(getenv("BUNPOU_LLM_MAX_ATTEMPTS"))); err == nil {
		cfg.Retry.MaxAttempts = n
	}
	return cfg
}

// credentialEnv names the variable holding each backend's key.
var credentialEnv = map[string]string{
	"gemini":     "GEMINI_API_KEY",
	"openai":     "OPENAI_API_KEY",
	"openrouter": "OPENROUTER_API_KEY",
	"anthropic":  "ANTHROPIC_API_KEY",
}

// APIKey returns the credential of the selected provider.
func (c Config) APIKey() string {
	switch c.Provider {
	case "gemini":
		return c.Gemini.APIKey
	case "openai":
		return c.OpenAI.APIKey
	case "openrouter":
		return c.OpenRouter.APIKey
	case "anthropic":
		return c.Anthropic.APIKey
	}
	return ""
}

// Validate checks that the selected provider is known and has its API key.
func (c Config) Validate() error {
	if c.Provider != "mock" {
		env, known := credentialEnv[c.Provider]
		if !known {
			return fmt.Errorf("unknown LLM provider: %q", c.Provider)
		}
		if c.APIKey() == "" {
			return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
		}
	}
	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("BUNPOU_LLM_MAX_ATTEMPTS must not be negative")
	}
	return nil
}
