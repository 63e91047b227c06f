package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// Provider is the engine identifier reported in OCR metadata.
const Provider = "tesseract"

// Config holds tesseract invocation settings.
type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Language  string // default "eng"

	TessdataDir         string
	EnableTSVConfidence bool

	PSM int // e.g., 6 is good for uniform block of text
	OEM int // 1 = LSTM; leave 0 to use default
}

// Result is the outcome of recognizing a single image.
type Result struct {
	Text       string
	Confidence float32 // 0..1
}

// Engine runs OCR on exactly one image per call. It knows nothing about
// PDFs or multi-page assembly.
type Engine struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewEngine(cfg Config, runner Runner, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	return &Engine{cfg: cfg, runner: runner, logger: logger}
}

// Language returns the configured recognition language.
func (e *Engine) Language() string { return e.cfg.Language }

// Available reports whether the tesseract binary can be found.
func (e *Engine) Available() bool {
	_, err := exec.LookPath(e.cfg.Tesseract)
	return err == nil
}

// Recognize runs OCR over one image and returns text plus a confidence
// in [0,1]. Tesseract reports word confidences on a 0-100 scale; the
// normalization lives here and must be re-derived for any other engine.
func (e *Engine) Recognize(ctx context.Context, imagePath string) (Result, error) {
	txt, err := e.tesseractOCR(ctx, imagePath)
	if err != nil {
		return Result{}, err
	}
	txt = Normalize(txt)

	var ocrConf float32
	if e.cfg.EnableTSVConfidence {
		if c, tsvErr := e.tesseractTSVConfidence(ctx, imagePath); tsvErr == nil {
			ocrConf = c
		} else {
			e.logger.Warn("tsv confidence unavailable", "image", imagePath, "error", tsvErr)
		}
	}
	heurConf := heuristicConfidence(txt)

	// blend: weight the engine's own score higher when present
	conf := heurConf
	if ocrConf > 0 {
		conf = 0.7*ocrConf + 0.3*heurConf
	}
	if conf > 1.0 {
		conf = 1.0
	}

	return Result{Text: txt, Confidence: conf}, nil
}

func (e *Engine) tesseractOCR(ctx context.Context, path string) (string, error) {
	args := []string{path, "stdout", "-l", e.cfg.Language}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, _, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}

	// minor cleanup of obvious line noise
	txt := reBoxNoise.ReplaceAllString(string(out), "")
	return txt, nil
}

// tesseractTSVConfidence runs tesseract in TSV mode and returns mean word conf in 0..1.
func (e *Engine) tesseractTSVConfidence(ctx context.Context, path string) (float32, error) {
	args := []string{path, "stdout", "-l", e.cfg.Language}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	// TSV output
	args = append(args, "tsv")

	out, _, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return 0, fmt.Errorf("tesseract TSV: %w", err)
	}
	lines := strings.Split(string(out), "\n")
	// conf column is the last; header line includes "conf"
	var sum, n float64
	for i, ln := range lines {
		if i == 0 || len(ln) == 0 {
			continue
		} // skip header
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		} // defensive
		confStr := cols[len(cols)-1]
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	mean := sum / n // 0..100
	return float32(mean / 100.0), nil
}
