package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/bunpou/internal/llm"
	"github.com/abhisek/bunpou/internal/logger"
	"github.com/abhisek/bunpou/internal/quizgen"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate questions once and print them as JSON",
	Long: `Generate questions once and print them as indented JSON.

With --replay the backend is skipped and the given file is normalized as if
the model had returned its contents. Useful for checking a saved response.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("level")
		count, _ := cmd.Flags().GetInt("count")
		scope, _ := cmd.Flags().GetString("scope")
		replay, _ := cmd.Flags().GetString("replay")

		req, err := quizgen.NewRequest(level, count, scope)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		gen, log, err := generatorForCommand(ctx, cmd, replay)
		if err != nil {
			return err
		}
		defer log.Sync()

		qs, err := gen.Generate(ctx, req)
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}

		out, err := json.MarshalIndent(qs, "", "  ")
		if err != nil {
			return fmt.Errorf("encode questions: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("level", "l", "n3", "JLPT level (n1-n5)")
	generateCmd.Flags().IntP("count", "c", 1, "Number of questions (1-50)")
	generateCmd.Flags().StringP("scope", "s", "", "Grammar point to focus on, e.g. 〜ばかり")
	generateCmd.Flags().String("replay", "", "Normalize a saved model response instead of calling the backend")
}

// generatorForCommand returns the generator and the logger it writes to;
// the caller flushes the logger before exiting.
func generatorForCommand(ctx context.Context, cmd *cobra.Command, replay string) (*quizgen.Generator, *logger.Logger, error) {
	if replay != "" {
		data, err := os.ReadFile(replay)
		if err != nil {
			return nil, nil, fmt.Errorf("read replay file: %w", err)
		}
		log := logger.Nop()
		mock := llm.NewMockProvider(llm.MockResponse{Text: string(data)})
		return quizgen.New(mock, quizgen.DefaultConfig(), log), log, nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	gen, err := newGenerator(ctx, cfg, log)
	if err != nil {
		log.Sync()
		return nil, nil, err
	}
	return gen, log, nil
}
