// Package server exposes quiz generation over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/abhisek/bunpou/internal/config"
	"github.com/abhisek/bunpou/internal/logger"
	"github.com/abhisek/bunpou/internal/quizgen"
)

const shutdownGrace = 10 * time.Second

// QuizGenerator is the generation boundary the handlers depend on.
type QuizGenerator interface {
	Generate(ctx context.Context, req quizgen.Request) ([]quizgen.Question, error)
	GenerateOne(ctx context.Context, level quizgen.Level) (*quizgen.Question, error)
}

// Server owns the gin engine and the address it listens on.
type Server struct {
	Engine *gin.Engine
	addr   string
	log    *logger.Logger
}

// New builds the gin engine with CORS, tracing, request logging and
// recovery installed ahead of the quiz routes.
func New(gen QuizGenerator, cfg config.ServerConfig, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}

	r := gin.New()
	r.Use(otelgin.Middleware("bunpou"))
	r.Use(AttachRequestID())
	r.Use(RequestLogger(log))
	r.Use(Recovery(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{http.MethodGet},
		AllowHeaders:     []string{"Origin", "Accept", "Content-Type", headerRequestID},
		ExposeHeaders:    []string{headerRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h := &quizHandler{gen: gen, timeout: cfg.RequestTimeout, log: log}
	r.GET("/healthz", health)
	r.GET("/question", h.question)
	r.GET("/grammar_quiz", h.grammarQuiz)

	return &Server{Engine: r, addr: cfg.Addr, log: log}
}

// Run serves until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
