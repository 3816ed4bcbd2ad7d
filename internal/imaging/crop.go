// Package imaging trims the bottom band of subtitle screenshots, where the
// player chrome and the source-title watermark sit.
package imaging

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"subpost/internal/fileutil"
	"subpost/internal/logging"
)

// Outcome describes how CropBottom produced dst.
type Outcome string

const (
	OutcomeCropped Outcome = "cropped"
	OutcomeCopied  Outcome = "copied"
)

// CropBottom decodes src, removes the bottom px rows, and writes a PNG to dst.
// When the image cannot be decoded or is not taller than px, src is copied
// unchanged and a warning is logged. Only a failed copy is an error.
func CropBottom(logger *slog.Logger, src, dst string, px int) (Outcome, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create image directory: %w", err)
	}

	cropped, err := cropImage(src, px)
	if err == nil {
		if err = writePNG(dst, cropped); err == nil {
			return OutcomeCropped, nil
		}
	}

	logger.Warn("image crop skipped; copying source unchanged",
		logging.String("source", src),
		logging.String("destination", dst),
		logging.Int("crop_px", px),
		logging.Error(err),
		logging.String(logging.FieldEventType, "image_crop_fallback"),
	)
	if copyErr := fileutil.CopyFile(src, dst); copyErr != nil {
		return "", fmt.Errorf("copy %s: %w", src, copyErr)
	}
	return OutcomeCopied, nil
}

func cropImage(src string, px int) (image.Image, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	bounds := img.Bounds()
	if px < 0 || px >= bounds.Dy() {
		return nil, fmt.Errorf("cannot remove %dpx from an image %dpx high", px, bounds.Dy())
	}
	rect := image.Rect(0, 0, bounds.Dx(), bounds.Dy()-px)
	out := image.NewRGBA(rect)
	draw.Draw(out, rect, img, bounds.Min, draw.Src)
	return out, nil
}

func writePNG(dst string, img image.Image) error {
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		_ = out.Close()
		return fmt.Errorf("encode: %w", err)
	}
	return out.Close()
}
