package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/bunpou/internal/config"
	"github.com/abhisek/bunpou/internal/llm"
	"github.com/abhisek/bunpou/internal/logger"
	"github.com/abhisek/bunpou/internal/quizgen"
)

var rootCmd = &cobra.Command{
	Use:          "bunpou",
	Short:        "JLPT grammar quiz generator",
	Long:         "Bunpou generates multiple-choice JLPT grammar questions with an LLM and serves them over HTTP.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "Path to a .env file loaded before reading the environment (optional)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads and validates configuration using the --env-file flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newGenerator builds the provider once and wraps it in a Generator.
func newGenerator(ctx context.Context, cfg *config.Config, log *logger.Logger) (*quizgen.Generator, error) {
	provider, err := llm.NewProvider(ctx, cfg.LLM, log)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}
	return quizgen.New(provider, generatorConfig(cfg), log), nil
}

func generatorConfig(cfg *config.Config) quizgen.Config {
	gc := quizgen.DefaultConfig()
	gc.Temperature = cfg.Temperature
	return gc
}
