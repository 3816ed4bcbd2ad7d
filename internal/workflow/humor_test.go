package workflow

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subpost/internal/services/shortlink"
	"subpost/internal/testsupport"
)

func memeReplies() map[string][]string {
	return map[string][]string{
		markerMeme:       {"**Translation:**\nNo (pill joke)"},
		markerMemeRevise: {"Translation: revised"},
	}
}

func TestHumorEndToEnd(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	meme := testsupport.WriteScreenshot(t, t.TempDir(), "Meme.JPG", 60)
	creator := &recordingCreator{}
	reviewer := &scriptedReviewer{
		texts: []Review{{Verdict: VerdictModify, Instruction: "add context"}},
		title: "La pilule",
	}
	gen := newFakeGenerator(memeReplies())
	result, err := testRunner(cfg, gen, creator, WithReviewer(reviewer)).Humor(context.Background(), HumorRequest{Image: meme})
	if err != nil {
		t.Fatalf("Humor: %v", err)
	}
	wantPage := filepath.Join(cfg.Paths.PostsDir, "humor", "la-pilule-2024-05-01.html")
	wantImage := filepath.Join(cfg.Paths.ImagesDir, "humor", "la-pilule-2024-05-01.jpg")
	if result.Path != wantPage || len(result.Images) != 1 || result.Images[0] != wantImage {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, err := os.Stat(wantImage); err != nil {
		t.Fatalf("meme not copied: %v", err)
	}
	if _, err := os.Stat(meme); err != nil {
		t.Fatalf("meme source should be kept: %v", err)
	}

	doc := loadPage(t, result.Path)
	if got := doc.Find("#editable-title").Text(); got != "La pilule" {
		t.Fatalf("unexpected title %q", got)
	}
	if got := doc.Find("#description").Text(); got != "Translation: revised" {
		t.Fatalf("unexpected description %q", got)
	}
	if src, _ := doc.Find(".meme-container img").Attr("src"); src != "../../img/humor/la-pilule-2024-05-01.jpg" {
		t.Fatalf("unexpected meme src %q", src)
	}
	if got := doc.Find(".tracker-item").Length(); got != 3 {
		t.Fatalf("expected 3 humor destinations, got %d", got)
	}
	if !strings.Contains(doc.Find("script").First().Text(), `"storageKey":"reddit-post-humor-la-pilule-2024-05-01"`) {
		t.Fatal("unexpected storage key")
	}
	if creator.titles[0] != "Humor la-pilule - r/FrenchImmersion" {
		t.Fatalf("unexpected link title %q", creator.titles[0])
	}
	analyze := gen.prompts(markerMeme)
	if len(analyze) != 1 {
		t.Fatalf("expected one analysis, got %d", len(analyze))
	}
}

func TestHumorTitleFallback(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	meme := testsupport.WriteScreenshot(t, t.TempDir(), "meme.png", 60)
	result, err := testRunner(cfg, newFakeGenerator(memeReplies()), shortlink.Stub{}).Humor(context.Background(), HumorRequest{Image: meme})
	if err != nil {
		t.Fatalf("Humor: %v", err)
	}
	if filepath.Base(result.Path) != "humor-post-2024-05-01.html" {
		t.Fatalf("unexpected fallback page %q", result.Path)
	}
}

func TestHumorFlagTitleSkipsPrompt(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	meme := testsupport.WriteScreenshot(t, t.TempDir(), "meme.png", 60)
	reviewer := &scriptedReviewer{title: "ignored"}
	result, err := testRunner(cfg, newFakeGenerator(memeReplies()), shortlink.Stub{}, WithReviewer(reviewer)).
		Humor(context.Background(), HumorRequest{Image: meme, Title: "Monument"})
	if err != nil {
		t.Fatalf("Humor: %v", err)
	}
	if filepath.Base(result.Path) != "monument-2024-05-01.html" {
		t.Fatalf("unexpected page %q", result.Path)
	}
}
