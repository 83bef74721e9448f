// Package config assembles process configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/bunpou/internal/llm"
	"github.com/abhisek/bunpou/internal/observability"
)

// ErrConfiguration indicates a missing credential or an invalid setting.
// It is raised at startup so the process never serves traffic misconfigured.
type ErrConfiguration struct {
	Setting string
	Err     error
}

func (e *ErrConfiguration) Error() string {
	return fmt.Sprintf("configuration error (%s): %v", e.Setting, e.Err)
}

func (e *ErrConfiguration) Unwrap() error { return e.Err }

// Config is everything the process needs at startup.
type Config struct {
	LLM llm.Config

	// Temperature is passed to the backend for quiz generation.
	Temperature float64

	Server    ServerConfig
	LogMode   string
	Telemetry observability.Config
}

// ServerConfig holds HTTP boundary settings.
type ServerConfig struct {
	Addr           string
	AllowOrigins   []string
	RequestTimeout time.Duration
}

const (
	defaultAddr    = ":8000"
	defaultOrigin  = "http://localhost:5173"
	defaultTimeout = 60 * time.Second
)

// Load reads envFile when it exists, then the process environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, &ErrConfiguration{Setting: "env-file", Err: err}
		}
	}

	cfg := &Config{
		LLM:         llm.ConfigFromEnv(),
		Temperature: 0.9,
		Server: ServerConfig{
			Addr:           defaultAddr,
			AllowOrigins:   splitOrigins(getEnv("ALLOW_ORIGINS", defaultOrigin)),
			RequestTimeout: defaultTimeout,
		},
		LogMode: getEnv("BUNPOU_LOG_MODE", "dev"),
		Telemetry: observability.Config{
			Enabled:     getEnvBool("OTEL_ENABLED"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "bunpou"),
			Environment: getEnv("BUNPOU_ENV", "development"),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure:    getEnvBool("OTEL_EXPORTER_OTLP_INSECURE"),
			Headers:     observability.ParseHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", "")),
			SampleRatio: 0.1,
		},
	}

	if port := getEnv("PORT", ""); port != "" {
		cfg.Server.Addr = ":" + port
	}
	if addr := getEnv("BUNPOU_ADDR", ""); addr != "" {
		cfg.Server.Addr = addr
	}

	var err error
	if cfg.Temperature, err = getEnvFloat("BUNPOU_LLM_TEMPERATURE", cfg.Temperature); err != nil {
		return nil, err
	}
	if cfg.Telemetry.SampleRatio, err = getEnvFloat("OTEL_SAMPLER_RATIO", cfg.Telemetry.SampleRatio); err != nil {
		return nil, err
	}
	if v := getEnv("BUNPOU_REQUEST_TIMEOUT", ""); v != "" {
		d, perr := time.ParseDuration(v)
		if perr != nil {
			return nil, &ErrConfiguration{Setting: "BUNPOU_REQUEST_TIMEOUT", Err: perr}
		}
		cfg.Server.RequestTimeout = d
	}
	if v := getEnv("BUNPOU_LLM_MAX_ATTEMPTS", ""); v != "" {
		if _, perr := strconv.Atoi(v); perr != nil {
			return nil, &ErrConfiguration{Setting: "BUNPOU_LLM_MAX_ATTEMPTS", Err: perr}
		}
	}

	return cfg, nil
}

// Validate checks settings that would otherwise fail on the first request.
func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return &ErrConfiguration{Setting: "llm", Err: err}
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return &ErrConfiguration{
			Setting: "BUNPOU_LLM_TEMPERATURE",
			Err:     fmt.Errorf("must be between 0 and 2, got %v", c.Temperature),
		}
	}
	if c.Server.RequestTimeout <= 0 {
		return &ErrConfiguration{
			Setting: "BUNPOU_REQUEST_TIMEOUT",
			Err:     fmt.Errorf("must be positive, got %s", c.Server.RequestTimeout),
		}
	}
	if len(c.Server.AllowOrigins) == 0 {
		return &ErrConfiguration{Setting: "ALLOW_ORIGINS", Err: errors.New("no origins configured")}
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return &ErrConfiguration{
			Setting: "OTEL_SAMPLER_RATIO",
			Err:     fmt.Errorf("must be between 0 and 1, got %v", c.Telemetry.SampleRatio),
		}
	}
	return nil
}

func splitOrigins(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string) bool {
	switch strings.ToLower(getEnv(key, "")) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &ErrConfiguration{Setting: key, Err: err}
	}
	return f, nil
}
