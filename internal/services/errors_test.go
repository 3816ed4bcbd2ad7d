package services_test

import (
	"errors"
	"strings"
	"testing"

	"subpost/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternal, "extract", "subtitle", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"extract", "subtitle", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect string
	}{
		{"configuration", services.Wrap(services.ErrConfiguration, "llm", "", "missing key", nil), "OPENAI_API_KEY"},
		{"not found", services.Wrap(services.ErrNotFound, "vocab", "", "image", nil), "input paths"},
		{"timeout", services.Wrap(services.ErrTimeout, "llm", "", "", nil), "in time"},
		{"plain", errors.New("x"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := services.Hint(tt.err)
			if tt.expect == "" {
				if got != "" {
					t.Fatalf("expected no hint, got %q", got)
				}
				return
			}
			if !strings.Contains(got, tt.expect) {
				t.Fatalf("hint %q missing %q", got, tt.expect)
			}
		})
	}
}
