// Command extract runs the extraction pipeline on one file and prints
// the result as JSON.
//
//	extract <path> [declared-mime-type]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/lexforge/docextract/internal/common"
	"github.com/lexforge/docextract/internal/extract"
	"github.com/lexforge/docextract/internal/extract/format"
	"github.com/lexforge/docextract/internal/imaging"
	"github.com/lexforge/docextract/internal/ocr"
	"github.com/lexforge/docextract/internal/raster"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	noOCR := flag.Bool("no-ocr", false, "skip OCR even for scanned documents")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall extraction timeout")
	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		logger.Error("usage", "cmd", "extract [-no-ocr] <path> [declared-mime-type]")
		os.Exit(2)
	}
	path := flag.Arg(0)
	mime := ""
	if flag.NArg() == 2 {
		mime = flag.Arg(1)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	svc := buildService(cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	req := extract.NewRequest(path, mime)
	req.AllowOCR = !*noOCR

	res := svc.Extract(ctx, req)

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func buildService(cfg *common.Config, logger *slog.Logger) *extract.Service {
	runner := ocr.ExecRunner{}

	engine := ocr.NewEngine(ocr.Config{
		Tesseract:           cfg.OCR.Tesseract,
		Language:            cfg.OCR.Language,
		TessdataDir:         cfg.OCR.TessdataDir,
		EnableTSVConfidence: cfg.OCR.EnableTSVConfidence,
		PSM:                 cfg.OCR.PSM,
		OEM:                 cfg.OCR.OEM,
	}, runner, logger)

	rasterizer := raster.NewRasterizer(raster.Config{
		Pdftoppm: cfg.OCR.Pdftoppm,
		DPI:      cfg.OCR.DPI,
		MaxPages: cfg.OCR.MaxPages,
	}, runner, logger)

	svc := extract.NewService(extract.Config{
		MinTextLength: cfg.Extraction.MinTextLength,
		TempDir:       cfg.Extraction.TempDir,
	}, extract.Deps{
		PDF:        format.NewPDFExtractor(cfg.OCR.Pdftotext, runner, logger),
		Word:       format.NewWordExtractor(logger),
		Engine:     engine,
		Rasterizer: rasterizer,
		Enhancer:   imaging.NewEnhancer(cfg.OCR.EnhanceBelowPx, logger),
	}, logger)

	if !svc.PDFOCRAvailable() {
		logger.Warn("pdf ocr toolchain not fully installed; scanned PDFs will degrade",
			"pdftoppm", cfg.OCR.Pdftoppm, "tesseract", cfg.OCR.Tesseract)
	}
	return svc
}
