package quizgen

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// BlankMarker is the reserved substring that marks the tested grammar form
// in a question: full-width parentheses around two ideographic spaces.
const BlankMarker = "（　　）"

// MaxCount is the largest batch a single request may ask for.
const MaxCount = 50

// MaxScopeRunes bounds the optional grammar scope hint.
const MaxScopeRunes = 100

// OptionCount is the number of options every question carries.
const OptionCount = 4

// Question is a validated multiple-choice grammar question.
// The correct answer is carried by value and is always one of Options.
type Question struct {
	// Question is the sentence with exactly one BlankMarker.
	Question string `json:"question"`

	// Options holds exactly OptionCount pairwise-distinct candidates.
	Options []string `json:"options"`

	// CorrectAnswer is the element of Options that fills the blank.
	CorrectAnswer string `json:"correct_answer"`

	// Explanation justifies the correct answer and rules out the distractors.
	Explanation string `json:"explanation"`
}

// CorrectIndex returns the position of CorrectAnswer within Options, or -1.
func (q Question) CorrectIndex() int {
	for i, o := range q.Options {
		if o == q.CorrectAnswer {
			return i
		}
	}
	return -1
}

// Level is a JLPT proficiency tier.
type Level string

const (
	LevelN1 Level = "n1"
	LevelN2 Level = "n2"
	LevelN3 Level = "n3"
	LevelN4 Level = "n4"
	LevelN5 Level = "n5"
)

// Levels lists every tier from most to least advanced.
var Levels = []Level{LevelN1, LevelN2, LevelN3, LevelN4, LevelN5}

var levelDescriptions = map[Level]string{
	LevelN1: "advanced: abstract and formal written Japanese",
	LevelN2: "upper intermediate: newspapers and everyday conversation at natural speed",
	LevelN3: "intermediate: everyday situations with some complexity",
	LevelN4: "elementary: basic vocabulary and kanji",
	LevelN5: "beginner: basic expressions and hiragana/katakana",
}

// ParseLevel accepts "n3", "N3" or " n3 ".
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", &ErrInvalidRequest{
			Field:   "level",
			Message: "must be one of n1, n2, n3, n4, n5",
		}
	}
	return l, nil
}

// Valid reports whether l is one of the five tiers.
func (l Level) Valid() bool {
	_, ok := levelDescriptions[l]
	return ok
}

// Label is the upper-case form used in prompts, e.g. "N3".
func (l Level) Label() string {
	return strings.ToUpper(string(l))
}

// Description is a short English summary of the tier.
func (l Level) Description() string {
	return levelDescriptions[l]
}

// Request describes one generation call.
type Request struct {
	Level Level
	Count int
	// Scope optionally narrows the grammar topic, e.g. "〜ばかり".
	Scope string
}

// NewRequest parses and validates caller input into a Request.
func NewRequest(level string, count int, scope string) (Request, error) {
	l, err := ParseLevel(level)
	if err != nil {
		return Request{}, err
	}
	req := Request{Level: l, Count: count, Scope: strings.TrimSpace(scope)}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Validate checks the request before any backend call is made.
func (r Request) Validate() error {
	if !r.Level.Valid() {
		return &ErrInvalidRequest{Field: "level", Message: "must be one of n1, n2, n3, n4, n5"}
	}
	if r.Count < 1 || r.Count > MaxCount {
		return &ErrInvalidRequest{Field: "count", Message: "must be between 1 and 50"}
	}
	if utf8.RuneCountInString(r.Scope) > MaxScopeRunes {
		return &ErrInvalidRequest{Field: "scope", Message: "must be at most 100 characters"}
	}
	if strings.IndexFunc(r.Scope, unicode.IsControl) >= 0 {
		return &ErrInvalidRequest{Field: "scope", Message: "must not contain control characters"}
	}
	return nil
}
