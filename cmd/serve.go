package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/bunpou/internal/logger"
	"github.com/abhisek/bunpou/internal/observability"
	"github.com/abhisek/bunpou/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	switch strings.ToLower(cfg.LogMode) {
	case "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Telemetry.Version = version
	shutdown := observability.Init(ctx, log, cfg.Telemetry)
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Warn("otel shutdown failed", "error", err)
		}
	}()

	gen, err := newGenerator(ctx, cfg, log)
	if err != nil {
		return err
	}

	log.Info("starting bunpou",
		"version", version,
		"provider", cfg.LLM.Provider,
		"addr", cfg.Server.Addr,
		"origins", cfg.Server.AllowOrigins,
		"retry_attempts", cfg.LLM.Retry.MaxAttempts,
	)
	return server.New(gen, cfg.Server, log).Run(ctx)
}
