// Package extract is the top-level entry point of the text-extraction
// pipeline: given a file and its declared type it selects a format
// extractor, decides whether OCR is needed, runs it, grades the result
// and returns a uniform outcome. No error ever crosses this package's
// public boundary; every failure becomes a displayable explanation.
package extract

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lexforge/docextract/constants"
	"github.com/lexforge/docextract/internal/extract/format"
	"github.com/lexforge/docextract/internal/ocr"
	"github.com/lexforge/docextract/internal/validate"
)

// Config holds orchestrator tunables.
type Config struct {
	// MinTextLength is the minimum usable PDF text-layer length before
	// the OCR fallback kicks in. Tunable, not a contract.
	MinTextLength int
	// TempDir is the parent for request-scoped working directories.
	// Empty means the system temp dir.
	TempDir string
}

// Deps are the injected collaborators. Nil Engine/Rasterizer are
// treated as unavailable capabilities; nil PDF and Enhancer get
// default implementations.
type Deps struct {
	PDF        PDFTextExtractor
	Word       *format.WordExtractor
	Engine     Recognizer
	Rasterizer Rasterizer
	Enhancer   Enhancer
}

// Service orchestrates extraction for one file at a time. Concurrent
// calls are safe: each request gets its own temp scope and no state is
// shared between them.
type Service struct {
	cfg    Config
	pdf    PDFTextExtractor
	word   *format.WordExtractor
	engine Recognizer
	raster Rasterizer
	enh    Enhancer
	logger *slog.Logger
}

func NewService(cfg Config, deps Deps, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = 100
	}
	if deps.PDF == nil {
		deps.PDF = format.NewPDFExtractor("", nil, logger)
	}
	if deps.Word == nil {
		deps.Word = format.NewWordExtractor(logger)
	}
	if deps.Enhancer == nil {
		deps.Enhancer = passthroughEnhancer{}
	}
	return &Service{
		cfg:    cfg,
		pdf:    deps.PDF,
		word:   deps.Word,
		engine: deps.Engine,
		raster: deps.Rasterizer,
		enh:    deps.Enhancer,
		logger: logger,
	}
}

// PDFOCRAvailable reports whether scanned PDFs can be OCR'd on this
// host. Collaborators should check it before promising OCR-backed PDF
// support to end users.
func (s *Service) PDFOCRAvailable() bool {
	return s.raster != nil && s.raster.Available() && s.engine != nil && s.engine.Available()
}

// Extract runs the pipeline for one file. It never returns an error:
// the result's Text is always a displayable string and IsValid flags
// whether it looks like real content.
func (s *Service) Extract(ctx context.Context, req Request) (res Result) {
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("extraction aborted by panic", "path", req.FilePath, "panic", rec)
			res = s.finish(Result{Text: placeholderInternal(), Format: res.Format, Method: "none"}, start, true)
		}
	}()

	f := s.classify(req)
	res.Format = f
	s.logger.Debug("starting extraction", "path", req.FilePath, "mime", req.DeclaredMIMEType, "format", f, "allow_ocr", req.AllowOCR)

	if _, err := os.Stat(req.FilePath); err != nil {
		return s.finish(Result{Text: placeholderFileUnreadable(err), Format: f, Method: "none"}, start, true)
	}

	switch f {
	case constants.PDF:
		return s.extractPDF(ctx, req, start)
	case constants.IMAGE:
		return s.extractImage(ctx, req, start)
	case constants.WORD:
		fr := s.word.Extract(req.FilePath)
		return s.finish(Result{Text: fr.Text, Format: f, Method: fr.Strategy}, start, !fr.OK)
	case constants.RTF:
		fr := format.RTF(req.FilePath)
		return s.finish(Result{Text: fr.Text, Format: f, Method: fr.Strategy}, start, !fr.OK)
	case constants.TEXT:
		fr := format.PlainText(req.FilePath)
		return s.finish(Result{Text: fr.Text, Format: f, Method: fr.Strategy}, start, !fr.OK)
	default:
		// unknown types get a best-effort plain-text decode
		fr := format.PlainText(req.FilePath)
		r := Result{Text: fr.Text, Format: f, Method: fr.Strategy}
		r.Warnings = append(r.Warnings,
			"unrecognized file type "+classifierLabel(req)+"; decoded as plain text")
		return s.finish(r, start, !fr.OK)
	}
}

// extractPDF tries the text layer first, then falls back to OCR when
// the layer is missing or too sparse and OCR is both allowed and
// installed.
func (s *Service) extractPDF(ctx context.Context, req Request, start time.Time) Result {
	fr := s.pdf.Extract(ctx, req.FilePath)
	text := strings.TrimSpace(fr.Text)

	if fr.OK && len(text) >= s.cfg.MinTextLength {
		return s.finish(Result{Text: text, Format: constants.PDF, Method: fr.Strategy}, start, false)
	}

	// sparseText keeps whatever the text layer did produce so a failed
	// OCR fallback can still return something real.
	sparseText := ""
	if fr.OK {
		sparseText = text
	}

	switch {
	case !req.AllowOCR:
		if sparseText != "" {
			r := Result{Text: sparseText, Format: constants.PDF, Method: fr.Strategy}
			r.Warnings = append(r.Warnings, "text layer sparse; OCR disabled for this request")
			return s.finish(r, start, false)
		}
		return s.finish(Result{Text: placeholderOCRDisabled(), Format: constants.PDF, Method: "none"}, start, true)

	case !s.PDFOCRAvailable():
		if sparseText != "" {
			r := Result{Text: sparseText, Format: constants.PDF, Method: fr.Strategy}
			r.Warnings = append(r.Warnings, "text layer sparse; OCR toolchain not installed")
			return s.finish(r, start, false)
		}
		s.logger.Warn("pdf needs ocr but toolchain unavailable", "path", req.FilePath)
		return s.finish(Result{Text: placeholderOCRUnavailable(), Format: constants.PDF, Method: "none"}, start, true)
	}

	ocrRes, err := s.ocrPDF(ctx, req.FilePath)
	if err != nil {
		s.logger.Error("pdf ocr failed", "path", req.FilePath, "error", err)
		if sparseText != "" {
			r := Result{Text: sparseText, Format: constants.PDF, Method: fr.Strategy}
			r.Warnings = append(r.Warnings, "OCR fallback failed: "+err.Error())
			return s.finish(r, start, false)
		}
		return s.finish(Result{Text: placeholderOCRFailed(err), Format: constants.PDF, Method: "none"}, start, true)
	}
	ocrRes.Format = constants.PDF
	return s.finish(ocrRes, start, false)
}

// ocrPDF rasterizes every page and recognizes them sequentially, one
// page at a time, which bounds peak memory on large documents. Pages
// are assembled in strictly increasing page order; a failed page gets a
// placeholder line and zero confidence instead of aborting the rest.
func (s *Service) ocrPDF(ctx context.Context, path string) (Result, error) {
	scope, err := newTempScope(s.cfg.TempDir, s.logger)
	if err != nil {
		return Result{}, err
	}
	defer scope.Close()

	pages, err := s.raster.Rasterize(ctx, path, scope.Dir())
	if err != nil {
		return Result{}, err
	}

	parts := make([]string, 0, len(pages))
	pageResults := make([]PageResult, 0, len(pages))
	var confSum float64
	confN := 0

	for _, pg := range pages {
		imgPath := s.enh.Enhance(pg.Path, scope.Dir())
		rec, recErr := s.engine.Recognize(ctx, imgPath)

		pr := PageResult{PageNumber: pg.PageNumber}
		if recErr != nil || strings.TrimSpace(rec.Text) == "" {
			if recErr != nil {
				s.logger.Warn("page ocr failed", "pdf", path, "page", pg.PageNumber, "error", recErr)
			}
			pr.Text = placeholderPageFailed(pg.PageNumber)
		} else {
			pr.Text = rec.Text
			pr.Confidence = rec.Confidence
			confSum += float64(rec.Confidence)
			confN++
		}
		pageResults = append(pageResults, pr)
		parts = append(parts, pageDelimiter(pg.PageNumber)+"\n"+pr.Text)
	}

	var mean float32
	if confN > 0 {
		mean = float32(confSum / float64(confN))
	}

	return Result{
		Text:       strings.Join(parts, "\n\n"),
		OCRApplied: true,
		Method:     "pdf-ocr",
		OCRMetadata: &OCRMetadata{
			Provider:   ocr.Provider,
			Confidence: mean,
			IsScanned:  true,
			Pages:      pageResults,
		},
	}, nil
}

// extractImage sends a raster image straight to the OCR engine.
func (s *Service) extractImage(ctx context.Context, req Request, start time.Time) Result {
	if s.engine == nil || !s.engine.Available() {
		return s.finish(Result{Text: placeholderImageOCRUnavailable(), Format: constants.IMAGE, Method: "none"}, start, true)
	}

	scope, err := newTempScope(s.cfg.TempDir, s.logger)
	if err != nil {
		return s.finish(Result{Text: placeholderOCRFailed(err), Format: constants.IMAGE, Method: "none"}, start, true)
	}
	defer scope.Close()

	imgPath := s.enh.Enhance(req.FilePath, scope.Dir())
	rec, err := s.engine.Recognize(ctx, imgPath)
	if err != nil || strings.TrimSpace(rec.Text) == "" {
		if err != nil {
			s.logger.Error("image ocr failed", "path", req.FilePath, "error", err)
		}
		return s.finish(Result{Text: placeholderOCRFailed(err), Format: constants.IMAGE, Method: "none"}, start, true)
	}

	return s.finish(Result{
		Text:       rec.Text,
		OCRApplied: true,
		Format:     constants.IMAGE,
		Method:     "image-ocr",
		OCRMetadata: &OCRMetadata{
			Provider:   ocr.Provider,
			Confidence: rec.Confidence,
			IsScanned:  false,
			Pages:      []PageResult{{PageNumber: 1, Text: rec.Text, Confidence: rec.Confidence}},
		},
	}, start, false)
}

// classify picks a format from the declared MIME type, falling back to
// the file extension when the type is absent or unknown.
func (s *Service) classify(req Request) constants.Format {
	if f := constants.MapMIMEToFormat(req.DeclaredMIMEType); f != "" {
		return f
	}
	return constants.MapExtToFormat(filepath.Ext(req.FilePath))
}

// finish stamps duration and runs the validity gate. Placeholder
// results are always flagged invalid so callers can tell explanation
// text from content, even when the explanation reads like valid prose.
func (s *Service) finish(res Result, start time.Time, placeholder bool) Result {
	res.Duration = time.Since(start)
	v := validate.Validate(res.Text)
	res.IsValid = v.IsValid && !placeholder
	res.Reasons = v.Reasons
	if placeholder {
		res.Reasons = append(res.Reasons, "placeholder content: extraction did not produce document text")
	}
	s.logger.Info("extraction finished",
		"format", res.Format,
		"method", res.Method,
		"ocr_applied", res.OCRApplied,
		"valid", res.IsValid,
		"chars", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res
}

func classifierLabel(req Request) string {
	if req.DeclaredMIMEType != "" {
		return "\"" + req.DeclaredMIMEType + "\""
	}
	ext := filepath.Ext(req.FilePath)
	if ext == "" {
		return "(no extension)"
	}
	return "\"" + ext + "\""
}

// passthroughEnhancer is the no-op default when no enhancer is wired.
type passthroughEnhancer struct{}

func (passthroughEnhancer) Enhance(imagePath, _ string) string { return imagePath }
