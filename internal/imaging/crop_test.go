package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(y), A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return cfg.Width, cfg.Height
}

func TestCropBottomRemovesRows(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "shot.png")
	dst := filepath.Join(dir, "img", "shot-scene1.png")
	writeTestPNG(t, src, 20, 100)

	outcome, err := CropBottom(nil, src, dst, 40)
	if err != nil {
		t.Fatalf("CropBottom: %v", err)
	}
	if outcome != OutcomeCropped {
		t.Fatalf("expected cropped outcome, got %q", outcome)
	}
	w, h := decodeSize(t, dst)
	if w != 20 || h != 60 {
		t.Fatalf("unexpected size %dx%d", w, h)
	}
}

func TestCropBottomCopiesWhenTooShort(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tiny.png")
	dst := filepath.Join(dir, "out.png")
	writeTestPNG(t, src, 10, 30)

	outcome, err := CropBottom(nil, src, dst, 40)
	if err != nil {
		t.Fatalf("CropBottom: %v", err)
	}
	if outcome != OutcomeCopied {
		t.Fatalf("expected copy fallback, got %q", outcome)
	}
	if _, h := decodeSize(t, dst); h != 30 {
		t.Fatalf("expected untouched height 30, got %d", h)
	}
}

func TestCropBottomCopiesUndecodable(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.png")
	dst := filepath.Join(dir, "out.png")
	if err := os.WriteFile(src, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	outcome, err := CropBottom(nil, src, dst, 10)
	if err != nil {
		t.Fatalf("CropBottom: %v", err)
	}
	if outcome != OutcomeCopied {
		t.Fatalf("expected copy fallback, got %q", outcome)
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "garbage" {
		t.Fatalf("expected raw copy, got %q (%v)", data, err)
	}
}

func TestCropBottomMissingSource(t *testing.T) {
	dir := t.TempDir()
	if _, err := CropBottom(nil, filepath.Join(dir, "missing.png"), filepath.Join(dir, "out.png"), 10); err == nil {
		t.Fatal("expected error for missing source")
	}
}
