package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/abhisek/bunpou/internal/quizgen"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLevelsCommand(t *testing.T) {
	out, err := execute(t, "levels")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, l := range []string{"n1", "n2", "n3", "n4", "n5"} {
		if !strings.Contains(out, l) {
			t.Errorf("output missing %s:\n%s", l, out)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "bunpou ") {
		t.Errorf("unexpected output %q", out)
	}
	if !strings.Contains(out, runtime.Version()) {
		t.Errorf("output %q missing Go version", out)
	}
}

func TestGenerateCommand_Replay(t *testing.T) {
	payload := "```json\n" + `[{"question":"雨が降っている（　　）、出かけた。","options":["のに","ので","から","ため"],"correct_answer":"のに","explanation":"逆接です。"}]` + "\n```"
	path := filepath.Join(t.TempDir(), "response.txt")
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "generate", "--level", "N4", "--count", "1", "--replay", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var qs []quizgen.Question
	if err := json.Unmarshal([]byte(out), &qs); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(qs) != 1 || qs[0].CorrectAnswer != "のに" {
		t.Errorf("unexpected questions: %+v", qs)
	}
}

func TestGenerateCommand_RejectsBadLevel(t *testing.T) {
	_, err := execute(t, "generate", "--level", "n9", "--replay", "unused")
	if err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestGeneratorForCommand_ReturnsLoggerToFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "response.txt")
	if err := os.WriteFile(path, []byte("[]"), 0o600); err != nil {
		t.Fatal(err)
	}

	gen, log, err := generatorForCommand(context.Background(), generateCmd, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen == nil || log == nil {
		t.Fatalf("expected generator and logger, got %v, %v", gen, log)
	}
	log.Sync()

	_, log, err = generatorForCommand(context.Background(), generateCmd, filepath.Join(t.TempDir(), "absent.txt"))
	if err == nil {
		t.Fatal("expected error for missing replay file")
	}
	if log != nil {
		t.Error("no logger should be returned on error")
	}
}
