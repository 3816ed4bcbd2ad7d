package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"subpost/internal/services"
)

func completionHandler(t *testing.T, content string, inspect func(map[string]any)) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if inspect != nil {
			inspect(payload)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   payload["model"],
			"choices": []any{
				map[string]any{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": content,
					},
				},
			},
		})
	}
}

func TestGenerateSendsPromptAndTemperature(t *testing.T) {
	var seen map[string]any
	server := httptest.NewServer(completionHandler(t, "  It rains  ", func(p map[string]any) { seen = p }))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	got, err := client.Generate(context.Background(), Request{
		Model:       "gpt-4o-mini",
		System:      "Ne fais pas de mise en forme dans ta réponse.",
		Prompt:      "Traduis : Il pleut",
		Temperature: Temperature(0),
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if got != "It rains" {
		t.Fatalf("expected trimmed content, got %q", got)
	}
	if seen["model"] != "gpt-4o-mini" {
		t.Fatalf("unexpected model %v", seen["model"])
	}
	if temp, ok := seen["temperature"].(float64); !ok || temp != 0 {
		t.Fatalf("expected temperature 0, got %v", seen["temperature"])
	}
	messages, _ := seen["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(messages))
	}
	first, _ := messages[0].(map[string]any)
	if first["role"] != "system" {
		t.Fatalf("expected system message first, got %v", first["role"])
	}
}

func TestGenerateOmitsTemperatureWhenUnset(t *testing.T) {
	var seen map[string]any
	server := httptest.NewServer(completionHandler(t, "ok", func(p map[string]any) { seen = p }))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL + "/"})
	if _, err := client.Generate(context.Background(), Request{Model: "gpt-4o", Prompt: "hi"}); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, ok := seen["temperature"]; ok {
		t.Fatalf("expected no temperature field, got %v", seen["temperature"])
	}
}

func TestGenerateAttachesImagesAsDataURLs(t *testing.T) {
	var seen map[string]any
	server := httptest.NewServer(completionHandler(t, "Il pleut", func(p map[string]any) { seen = p }))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.Generate(context.Background(), Request{
		Model:  "gpt-4o-mini",
		Prompt: "Extrait le texte",
		Images: []Image{{Data: []byte("png-bytes"), MIMEType: "image/png"}},
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	messages, _ := seen["messages"].([]any)
	if len(messages) != 1 {
		t.Fatalf("expected one user message, got %d", len(messages))
	}
	user, _ := messages[0].(map[string]any)
	parts, _ := user["content"].([]any)
	if len(parts) != 2 {
		t.Fatalf("expected text and image parts, got %v", user["content"])
	}
	imagePart, _ := parts[1].(map[string]any)
	imageURL, _ := imagePart["image_url"].(map[string]any)
	url, _ := imageURL["url"].(string)
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Fatalf("unexpected image url %q", url)
	}
}

func TestGenerateMissingKey(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:0"})
	_, err := client.Generate(context.Background(), Request{Model: "m", Prompt: "p"})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	client := NewClient(Config{APIKey: "test-key"})
	_, err := client.Generate(context.Background(), Request{Model: "m", Prompt: "  "})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGenerateEmptyContent(t *testing.T) {
	server := httptest.NewServer(completionHandler(t, "   ", nil))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.Generate(context.Background(), Request{Model: "m", Prompt: "p"})
	if !errors.Is(err, services.ErrEmptyResponse) {
		t.Fatalf("expected empty response error, got %v", err)
	}
}

func TestGenerateStatusErrorIsSingleAttempt(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.Generate(context.Background(), Request{Model: "m", Prompt: "p"})
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected external error, got %v", err)
	}
	if StatusCode(err) != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d (%v)", StatusCode(err), err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one attempt, got %d", calls)
	}
}

func TestGenerateTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL}, WithTimeout(50*time.Millisecond))
	_, err := client.Generate(context.Background(), Request{Model: "m", Prompt: "p"})
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shot.png")
	pngHeader := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	if err := os.WriteFile(path, pngHeader, 0o644); err != nil {
		t.Fatal(err)
	}
	img, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if img.MIMEType != "image/png" {
		t.Fatalf("unexpected mime %q", img.MIMEType)
	}

	if _, err := LoadImage(filepath.Join(dir, "missing.png")); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}
