package quizgen

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/abhisek/bunpou/internal/llm"
	"github.com/abhisek/bunpou/internal/logger"
)

// Purpose tags LLM calls made by the Generator in request logs.
const Purpose = "grammar-quiz"

var tracer = otel.Tracer("github.com/abhisek/bunpou/internal/quizgen")

// Generator builds a prompt, calls the backend once and normalizes the
// answer. It holds no per-call state and is safe for concurrent use.
type Generator struct {
	invoker    *Invoker
	normalizer *Normalizer
	config     Config
	log        *logger.Logger
}

// New creates a Generator over a provider constructed at startup.
func New(provider llm.Provider, cfg Config, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{
		invoker:    NewInvoker(provider, cfg.Temperature),
		normalizer: NewNormalizer(cfg.Validators, log),
		config:     cfg,
		log:        log,
	}
}

// Generate returns between 1 and req.Count questions. Errors are
// *ErrInvalidRequest, *ErrGenerationUnavailable or *ErrSchemaViolation;
// a partial or invalid batch is never returned.
func (g *Generator) Generate(ctx context.Context, req Request) (qs []Question, err error) {
	ctx, span := tracer.Start(ctx, "quizgen.Generate", trace.WithAttributes(
		attribute.String("jlpt.level", string(req.Level)),
		attribute.Int("quiz.count", req.Count),
		attribute.Bool("quiz.scoped", req.Scope != ""),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int("quiz.returned", len(qs)))
		}
		span.End()
	}()

	ctx = llm.WithPurpose(ctx, Purpose)

	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, err
	}

	raw, err := g.invoker.Invoke(ctx, prompt, g.config.tokenBudget(req.Count))
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("llm.model", raw.Model))

	qs, err = g.normalizer.Normalize(*raw, req.Count)
	if err != nil {
		var sv *ErrSchemaViolation
		if errors.As(err, &sv) {
			// The raw payload is the only evidence of what the model did.
			g.log.Warn("model output rejected",
				"level", req.Level,
				"model", raw.Model,
				"stop_reason", raw.StopReason,
				"index", sv.Index,
				"validator", sv.Validator,
				"error", sv.Err,
				"raw", sv.Raw,
			)
		}
		return nil, err
	}

	if len(qs) < req.Count {
		g.log.Info("short batch accepted", "level", req.Level, "requested", req.Count, "returned", len(qs))
	}
	return qs, nil
}

// GenerateOne returns a single question for level.
func (g *Generator) GenerateOne(ctx context.Context, level Level) (*Question, error) {
	qs, err := g.Generate(ctx, Request{Level: level, Count: 1})
	if err != nil {
		return nil, err
	}
	return &qs[0], nil
}
