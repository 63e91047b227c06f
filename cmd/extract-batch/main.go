// Command extract-batch walks a directory, extracts text from every
// supported document, journals the outcomes in SQLite and writes an
// XLSX report.
//
//	extract-batch -dir ./contracts -report report.xlsx
package main

import (
	"context"
	"flag"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/lexforge/docextract/constants"
	"github.com/lexforge/docextract/internal/common"
	"github.com/lexforge/docextract/internal/export"
	"github.com/lexforge/docextract/internal/extract"
	"github.com/lexforge/docextract/internal/extract/format"
	"github.com/lexforge/docextract/internal/imaging"
	"github.com/lexforge/docextract/internal/ingest"
	"github.com/lexforge/docextract/internal/ocr"
	"github.com/lexforge/docextract/internal/raster"
	"github.com/lexforge/docextract/internal/repository"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	dir := flag.String("dir", "", "directory to ingest (required)")
	report := flag.String("report", "", "write an XLSX report to this path")
	noOCR := flag.Bool("no-ocr", false, "skip OCR for scanned documents")
	perFileTimeout := flag.Duration("timeout", 2*time.Minute, "per-document timeout")
	flag.Parse()

	if *dir == "" {
		logger.Error("usage", "cmd", "extract-batch -dir <path> [-report out.xlsx] [-no-ocr]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := repository.Open(cfg.Journal.Path)
	if err != nil {
		logger.Error("open journal", "path", cfg.Journal.Path, "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	jobs := repository.NewJobRepository(db, logger)
	svc := buildService(cfg, logger)
	walker := ingest.NewFSWalker(logger)

	paths, stats, err := walker.Walk(*dir)
	if err != nil {
		logger.Error("directory walk failed", "dir", *dir, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	succeeded, failed := 0, 0
	for _, path := range paths {
		if processOne(ctx, svc, jobs, path, !*noOCR, *perFileTimeout, logger) {
			succeeded++
		} else {
			failed++
		}
	}
	logger.Info("batch completed",
		"scanned", stats.Scanned, "matched", stats.Matched,
		"succeeded", succeeded, "failed", failed)

	if *report != "" {
		rows, err := jobs.List(ctx)
		if err != nil {
			logger.Error("list jobs for report", "error", err)
			os.Exit(1)
		}
		data, err := export.NewService(logger).ExportJobsXLSX(rows)
		if err != nil {
			logger.Error("build report", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*report, data, 0o644); err != nil {
			logger.Error("write report", "path", *report, "error", err)
			os.Exit(1)
		}
		logger.Info("report written", "path", *report, "rows", len(rows))
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func processOne(ctx context.Context, svc *extract.Service, jobs repository.JobRepository,
	path string, allowOCR bool, timeout time.Duration, logger *slog.Logger,
) bool {
	hashHex, err := ingest.HashFile(path)
	if err != nil {
		logger.Error("hash failed", "path", path, "error", err)
		return false
	}

	declared := mime.TypeByExtension(filepath.Ext(path))
	req := extract.NewRequest(path, declared)
	req.AllowOCR = allowOCR

	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	jobID, err := jobs.Start(fctx, path, hashHex, constants.MapExtToFormat(filepath.Ext(path)))
	if err != nil {
		logger.Error("journal start failed", "path", path, "error", err)
		return false
	}

	res := svc.Extract(fctx, req)

	out := repository.Outcome{
		Method:     res.Method,
		OCRApplied: res.OCRApplied,
		Valid:      res.IsValid,
		Chars:      len(res.Text),
	}
	if res.OCRMetadata != nil {
		out.Confidence = res.OCRMetadata.Confidence
	}
	if err := jobs.Finish(fctx, jobID, out); err != nil {
		logger.Error("journal finish failed", "job_id", jobID, "error", err)
		return false
	}

	logger.Info("document processed",
		"job_id", jobID, "path", path, "method", res.Method,
		"ocr_applied", res.OCRApplied, "valid", res.IsValid, "chars", len(res.Text))
	return true
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
