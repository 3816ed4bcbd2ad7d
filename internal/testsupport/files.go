package testsupport

import (
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"subpost/internal/fileutil"
)

// WriteScreenshot encodes a 32px wide PNG of the given height at dir/name.
// Rows are shaded by their y coordinate so crops are detectable.
func WriteScreenshot(t testing.TB, dir, name string, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 32, height))
	for y := range height {
		for x := range 32 {
			img.Set(x, y, color.RGBA{R: uint8(y), G: 40, B: 80, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	return path
}

// ListFiles returns every regular file below dir, skipping the output lock.
func ListFiles(t testing.TB, dir string) []string {
	t.Helper()

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() != fileutil.LockFileName {
			files = append(files, path)
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("walk %s: %v", dir, err)
	}
	return files
}
