package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment does
// not leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"BUNPOU_LLM_PROVIDER", "GEMINI_API_KEY", "GOOGLE_API_KEY", "GEMINI_MODEL_ID",
		"OPENAI_API_KEY", "OPENROUTER_API_KEY", "ANTHROPIC_API_KEY",
		"BUNPOU_LLM_MAX_ATTEMPTS", "BUNPOU_LLM_TEMPERATURE",
		"PORT", "BUNPOU_ADDR", "ALLOW_ORIGINS", "BUNPOU_REQUEST_TIMEOUT", "BUNPOU_LOG_MODE",
		"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE",
		"OTEL_EXPORTER_OTLP_HEADERS", "OTEL_SAMPLER_RATIO",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 0.9, cfg.Temperature)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowOrigins)
	assert.Equal(t, 60*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "dev", cfg.LogMode)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 1, cfg.LLM.Retry.MaxAttempts)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("BUNPOU_LLM_PROVIDER", "mock")
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOW_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("BUNPOU_REQUEST_TIMEOUT", "15s")
	t.Setenv("BUNPOU_LLM_TEMPERATURE", "0.4")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SAMPLER_RATIO", "0.5")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowOrigins)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 0.4, cfg.Temperature)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 0.5, cfg.Telemetry.SampleRatio)
	require.NoError(t, cfg.Validate())
}

func TestLoad_AddrOverridesPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("BUNPOU_ADDR", "127.0.0.1:7000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BUNPOU_LLM_PROVIDER=mock\nGEMINI_MODEL_ID=gemini-pro\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("BUNPOU_LLM_PROVIDER")
		os.Unsetenv("GEMINI_MODEL_ID")
	})

	// godotenv does not override variables that are set, even to "".
	os.Unsetenv("BUNPOU_LLM_PROVIDER")
	os.Unsetenv("GEMINI_MODEL_ID")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, "gemini-pro", cfg.LLM.Gemini.Model)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"BUNPOU_REQUEST_TIMEOUT", "soon"},
		{"BUNPOU_LLM_TEMPERATURE", "warm"},
		{"OTEL_SAMPLER_RATIO", "most"},
		{"BUNPOU_LLM_MAX_ATTEMPTS", "three"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load("")
			var ce *ErrConfiguration
			require.True(t, errors.As(err, &ce), "expected *ErrConfiguration, got %v", err)
			assert.Equal(t, tt.key, ce.Setting)
		})
	}
}

func TestValidate_MissingCredential(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	err = cfg.Validate()
	var ce *ErrConfiguration
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "llm", ce.Setting)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestValidate_Ranges(t *testing.T) {
	clearEnv(t)
	t.Setenv("BUNPOU_LLM_PROVIDER", "mock")

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"temperature", func(c *Config) { c.Temperature = 3 }},
		{"timeout", func(c *Config) { c.Server.RequestTimeout = 0 }},
		{"origins", func(c *Config) { c.Server.AllowOrigins = nil }},
		{"sample ratio", func(c *Config) { c.Telemetry.SampleRatio = 1.5 }},
		{"attempts", func(c *Config) { c.LLM.Retry.MaxAttempts = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			require.NoError(t, cfg.Validate())

			tt.mutate(cfg)
			var ce *ErrConfiguration
			assert.True(t, errors.As(cfg.Validate(), &ce))
		})
	}
}
