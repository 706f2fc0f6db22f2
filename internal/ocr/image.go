package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, []string, error) {
	// tesseract <file> stdout -l <lang> --psm 6
	args := []string{path, "stdout", "-l", e.cfg.Language, "--psm", "6"}
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}
	return reBoxNoise.ReplaceAllString(string(out), ""), nil, nil
}

// preprocessImage writes a cleaned-up copy of the image for OCR: grayscale,
// a contrast bump, and light sharpening. Returns the temp path and a cleanup
// func. On any failure the caller should OCR the original file.
func preprocessImage(path string) (string, func(), error) {
	src, err := imaging.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open image: %w", err)
	}

	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 15)
	img = imaging.Sharpen(img, 0.5)

	tmpDir, err := os.MkdirTemp("", "ip-prep-*")
	if err != nil {
		return "", nil, err
	}
	out := filepath.Join(tmpDir, "prep.png")
	if err := imaging.Save(img, out); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", nil, fmt.Errorf("save preprocessed image: %w", err)
	}
	return out, func() { _ = os.RemoveAll(tmpDir) }, nil
}
