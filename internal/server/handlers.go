package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/bunpou/internal/logger"
	"github.com/abhisek/bunpou/internal/quizgen"
)

const (
	detailSchema      = "AI response was not valid JSON or missing fields."
	detailUnavailable = "AI backend is unavailable."
	detailTimeout     = "AI backend did not answer in time."
	detailInternal    = "Internal server error."
)

type errorBody struct {
	Detail string `json:"detail"`
}

type quizHandler struct {
	gen     QuizGenerator
	timeout time.Duration
	log     *logger.Logger
}

func health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// question handles GET /question?lv=n3.
func (h *quizHandler) question(c *gin.Context) {
	level, err := quizgen.ParseLevel(c.Query("lv"))
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	q, err := h.gen.GenerateOne(ctx, level)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// grammarQuiz handles GET /grammar_quiz?lv=n3&c=5&scp=〜ばかり.
func (h *quizHandler) grammarQuiz(c *gin.Context) {
	count := 1
	if raw, ok := c.GetQuery("c"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(c, &quizgen.ErrInvalidRequest{Field: "count", Message: "must be an integer"})
			return
		}
		count = n
	}

	req, err := quizgen.NewRequest(c.Query("lv"), count, c.Query("scp"))
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	qs, err := h.gen.Generate(ctx, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, qs)
}

// fail maps a generation error to a status and a client-safe detail.
// Model output never reaches the client.
func (h *quizHandler) fail(c *gin.Context, err error) {
	status, detail := classify(err)

	fields := []any{"status", status, "request_id", c.GetString("request_id"), "error", err}
	if status >= http.StatusInternalServerError {
		h.log.Error("quiz generation failed", fields...)
	} else {
		h.log.Debug("quiz request rejected", fields...)
	}
	c.AbortWithStatusJSON(status, errorBody{Detail: detail})
}

func classify(err error) (int, string) {
	var (
		invalid     *quizgen.ErrInvalidRequest
		violation   *quizgen.ErrSchemaViolation
		unavailable *quizgen.ErrGenerationUnavailable
	)
	switch {
	case errors.As(err, &invalid):
		return http.StatusUnprocessableEntity, invalid.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, detailTimeout
	case errors.As(err, &violation):
		return http.StatusInternalServerError, detailSchema
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable, detailUnavailable
	default:
		return http.StatusInternalServerError, detailInternal
	}
}
