package workflow

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"subpost/internal/content"
)

func TestConsoleReviewRule(t *testing.T) {
	rule := content.GrammarRule{Rule: "ne...que", Options: [3]string{"a", "b", "c"}, Correct: 1}
	tests := []struct {
		input string
		want  bool
	}{
		{"oui\n", true},
		{"non\n", false},
		{"AUTRE\n", false},
		{"peut-être\noui\n", true},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := NewConsoleReviewer(strings.NewReader(tt.input), &out).ReviewRule(context.Background(), rule)
		if err != nil {
			t.Fatalf("input %q: %v", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("input %q: got %v", tt.input, got)
		}
		if !strings.Contains(out.String(), "Est-ce que cette règle mérite un post ? (oui/non/autre)") {
			t.Fatalf("missing prompt in %q", out.String())
		}
		if strings.Contains(tt.input, "peut") && !strings.Contains(out.String(), "Réponse invalide") {
			t.Fatal("invalid answer not reported")
		}
	}
}

func TestConsoleReviewText(t *testing.T) {
	tests := []struct {
		input string
		want  Review
	}{
		{"oui\n", Review{Verdict: VerdictAccept}},
		{"regenerer\n", Review{Verdict: VerdictRegenerate}},
		{"Régénérer\n", Review{Verdict: VerdictRegenerate}},
		{"modifier\nplus court\n", Review{Verdict: VerdictModify, Instruction: "plus court"}},
		{"modifier\n\nmodifier\nplus court", Review{Verdict: VerdictModify, Instruction: "plus court"}},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := NewConsoleReviewer(strings.NewReader(tt.input), &out).ReviewText(context.Background(), "description générée", "text")
		if err != nil {
			t.Fatalf("input %q: %v", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("input %q: got %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestConsoleReviewerInputClosed(t *testing.T) {
	r := NewConsoleReviewer(strings.NewReader(""), &bytes.Buffer{})
	if _, err := r.ReviewText(context.Background(), "x", "y"); !errors.Is(err, ErrInputClosed) {
		t.Fatalf("expected ErrInputClosed, got %v", err)
	}
	more, err := r.AskAnother(context.Background())
	if err != nil || more {
		t.Fatalf("AskAnother on closed input = %v, %v", more, err)
	}
}

func TestConsoleAskTitleAndAnother(t *testing.T) {
	var out bytes.Buffer
	r := NewConsoleReviewer(strings.NewReader("  la pilule \noui\n"), &out)
	title, err := r.AskTitle(context.Background())
	if err != nil || title != "la pilule" {
		t.Fatalf("AskTitle = %q, %v", title, err)
	}
	more, err := r.AskAnother(context.Background())
	if err != nil || !more {
		t.Fatalf("AskAnother = %v, %v", more, err)
	}
	if !strings.Contains(out.String(), "Donne un titre court pour le fichier") {
		t.Fatalf("missing title prompt in %q", out.String())
	}
}

func TestConsoleReviewerHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewConsoleReviewer(strings.NewReader("oui\n"), &bytes.Buffer{}).AskTitle(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
