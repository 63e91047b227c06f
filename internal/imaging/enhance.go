// Package imaging prepares raster images for OCR. Low-resolution
// scans are upscaled and contrast-boosted; anything already sharp
// enough passes through untouched.
package imaging

import (
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Enhancer upscales and normalizes small images before OCR.
type Enhancer struct {
	// MinDimension: images with both dimensions at or above this are
	// returned unchanged.
	MinDimension int
	// TargetDimension is the smaller-dimension target after upscaling.
	TargetDimension int

	logger *slog.Logger
}

func NewEnhancer(minDimension int, logger *slog.Logger) *Enhancer {
	if logger == nil {
		logger = slog.Default()
	}
	if minDimension <= 0 {
		minDimension = 1200
	}
	return &Enhancer{
		MinDimension:    minDimension,
		TargetDimension: 2000,
		logger:          logger,
	}
}

// Enhance returns the path of an OCR-ready version of the image,
// writing any enhanced copy into workDir (next to the source when
// workDir is empty). On any failure the original path comes back
// unchanged so OCR can still run on the unenhanced input.
func (e *Enhancer) Enhance(imagePath, workDir string) string {
	w, h, err := decodeDimensions(imagePath)
	if err != nil {
		e.logger.Warn("image probe failed; skipping enhancement", "image", imagePath, "error", err)
		return imagePath
	}
	if w >= e.MinDimension && h >= e.MinDimension {
		// already high resolution; upscaling would only cost time
		return imagePath
	}

	img, err := imaging.Open(imagePath)
	if err != nil {
		e.logger.Warn("image open failed; skipping enhancement", "image", imagePath, "error", err)
		return imagePath
	}

	smaller := w
	if h < smaller {
		smaller = h
	}
	scale := float64(e.TargetDimension) / float64(smaller)
	if scale <= 1.0 {
		return imagePath
	}
	newW := int(float64(w) * scale)

	resized := imaging.Resize(img, newW, 0, imaging.Lanczos)
	adjusted := imaging.AdjustContrast(resized, 15)
	sharpened := imaging.Sharpen(adjusted, 0.5)

	out := enhancedPath(imagePath, workDir)
	if err := imaging.Save(sharpened, out); err != nil {
		e.logger.Warn("enhanced image save failed; using original", "image", imagePath, "error", err)
		return imagePath
	}

	e.logger.Debug("image enhanced for ocr",
		"image", imagePath, "from", image.Pt(w, h).String(), "scale", scale)
	return out
}

func enhancedPath(imagePath, workDir string) string {
	base := filepath.Base(imagePath)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + ".enhanced.png"
	if workDir == "" {
		return filepath.Join(filepath.Dir(imagePath), base)
	}
	return filepath.Join(workDir, base)
}

func decodeDimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
