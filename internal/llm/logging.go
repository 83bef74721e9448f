package llm

import (
	"context"
	"time"

	"github.com/abhisek/bunpou/internal/logger"
)

// LoggingProvider is a decorator that logs every LLM request with latency,
// token usage and estimated cost.
type LoggingProvider struct {
	inner Provider
	log   *logger.Logger
}

// WithLogging wraps a Provider with request logging. A nil logger
// discards the entries.
func WithLogging(p Provider, log *logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingProvider{inner: p, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	fields := []any{
		"purpose", PurposeFrom(ctx),
		"model", l.inner.ModelID(),
		"latency_ms", time.Since(start).Milliseconds(),
		"max_tokens", req.MaxTokens,
		"schema", schemaName(req.Schema),
	}
	if id := RequestIDFrom(ctx); id != "" {
		fields = append(fields, "request_id", id)
	}

	if err != nil {
		l.log.Warn("llm request failed", append(fields, "error", err)...)
		return nil, err
	}

	fields = append(fields,
		"served_by", resp.Model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"stop_reason", resp.StopReason,
		"response_bytes", len(resp.Text),
	)
	if cost := LookupCost(resp.Model); cost != nil {
		fields = append(fields, "cost_usd", cost.Cost(resp.Usage.InputTokens, resp.Usage.OutputTokens))
	}
	l.log.Info("llm request", fields...)

	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func schemaName(s *Schema) string {
	if s == nil {
		return ""
	}
	return s.Name
}
