package quizgen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/bunpou/internal/llm"
)

const systemPrompt = `あなたは日本語を外国人に教えるネイティブの日本語教師です。
指定されたJLPTレベルと問題数に応じて、文法に関する多肢選択問題を生成してください。
まず、設問の核となる、文法的に正しく意味が通じる、自然な日本語の例文を作成します。
次に、その文からテストしたい文法部分を抜き出して（　　）で示し、それを正解の選択肢とします。
以下の要件を厳守してください：
- 各問題には4つの選択肢を設けること。
- 選択肢は互いに重複しないこと。
- 正解は1つだけであること。
- 不正解の選択肢は、大人の日本語学習者が間違いやすい、紛らわしい選択肢にしてください。
- 問題文には（　　）をちょうど1回だけ含めること。
- correct_answer には options の中の正解をそのまま書き写すこと。
- 正解の順番は問題ごとにランダムにすること。
- 各問題の解説では、なぜその答えが文法・意味的により良い選択なのかを説明し、他の選択肢がなぜ不正解なのかも簡潔に説明してください。
- 出力はJSONのみとし、コードブロックや前置き・後書きは付けないこと。`

// Prompt is everything sent to the backend for one batch.
type Prompt struct {
	System string
	User   string
	Schema *llm.Schema

	// SchemaHint is Schema rendered as indented JSON. It is already
	// appended to System for backends that ignore native schemas.
	SchemaHint string
}

// BuildPrompt renders the directives, user message and output schema for req.
// It returns *ErrInvalidRequest when req is out of range.
func BuildPrompt(req Request) (Prompt, error) {
	if err := req.Validate(); err != nil {
		return Prompt{}, err
	}

	hint, err := json.MarshalIndent(ResponseSchema.Definition, "", "  ")
	if err != nil {
		return Prompt{}, fmt.Errorf("render schema hint: %w", err)
	}

	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n出力は次のJSONスキーマに従ってください：\n")
	b.Write(hint)

	return Prompt{
		System:     b.String(),
		User:       buildUserMessage(req),
		Schema:     ResponseSchema,
		SchemaHint: string(hint),
	}, nil
}

func buildUserMessage(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "JLPT %sレベルの文法問題を%d問生成してください。", req.Level.Label(), req.Count)
	if scope := strings.TrimSpace(req.Scope); scope != "" {
		fmt.Fprintf(&b, "特に「%s」に関する文法に焦点を当ててください。", scope)
	}
	return b.String()
}
