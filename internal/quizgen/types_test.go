package quizgen

import (
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"n1", LevelN1, false},
		{"N3", LevelN3, false},
		{" n5 ", LevelN5, false},
		{"n6", "", true},
		{"n0", "", true},
		{"", "", true},
		{"3", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			var ir *ErrInvalidRequest
			if !errors.As(err, &ir) {
				t.Errorf("ParseLevel(%q): expected *ErrInvalidRequest, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestLevel_Label(t *testing.T) {
	if got := LevelN3.Label(); got != "N3" {
		t.Errorf("Label = %q, want N3", got)
	}
	for _, l := range Levels {
		if l.Description() == "" {
			t.Errorf("%s has no description", l)
		}
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		field string
	}{
		{"valid", Request{Level: LevelN3, Count: 3}, ""},
		{"max count", Request{Level: LevelN1, Count: MaxCount}, ""},
		{"with scope", Request{Level: LevelN2, Count: 1, Scope: "〜ばかり"}, ""},
		{"bad level", Request{Level: "n9", Count: 1}, "level"},
		{"zero count", Request{Level: LevelN3, Count: 0}, "count"},
		{"negative count", Request{Level: LevelN3, Count: -1}, "count"},
		{"count over max", Request{Level: LevelN3, Count: MaxCount + 1}, "count"},
		{"scope too long", Request{Level: LevelN3, Count: 1, Scope: strings.Repeat("文", 101)}, "scope"},
		{"scope newline", Request{Level: LevelN3, Count: 1, Scope: "a\nb"}, "scope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}
			var ir *ErrInvalidRequest
			if !errors.As(err, &ir) {
				t.Fatalf("expected *ErrInvalidRequest, got %v", err)
			}
			if ir.Field != tt.field {
				t.Errorf("field = %q, want %q", ir.Field, tt.field)
			}
		})
	}
}

func TestNewRequest_TrimsScope(t *testing.T) {
	req, err := NewRequest("N4", 2, "  〜ながら  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Level != LevelN4 || req.Count != 2 || req.Scope != "〜ながら" {
		t.Errorf("unexpected request: %+v", req)
	}
}

func TestQuestion_CorrectIndex(t *testing.T) {
	q := validQuestion()
	if got := q.CorrectIndex(); got != 0 {
		t.Errorf("CorrectIndex = %d, want 0", got)
	}
	q.CorrectAnswer = "なし"
	if got := q.CorrectIndex(); got != -1 {
		t.Errorf("CorrectIndex = %d, want -1", got)
	}
}
