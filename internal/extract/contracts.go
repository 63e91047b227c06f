package extract

import (
	"context"
	"time"

	"github.com/lexforge/docextract/constants"
	"github.com/lexforge/docextract/internal/extract/format"
	"github.com/lexforge/docextract/internal/ocr"
	"github.com/lexforge/docextract/internal/raster"
)

// Request is the immutable input for one extraction. Constructed per
// upload, discarded after Extract returns.
type Request struct {
	FilePath         string
	DeclaredMIMEType string
	AllowOCR         bool
}

// NewRequest builds a Request with OCR allowed, the common case.
func NewRequest(filePath, declaredMIMEType string) Request {
	return Request{FilePath: filePath, DeclaredMIMEType: declaredMIMEType, AllowOCR: true}
}

// PageResult is one OCR'd page in page order.
type PageResult struct {
	PageNumber int     `json:"page_number"`
	Text       string  `json:"text"`
	Confidence float32 `json:"confidence"`
}

// OCRMetadata describes how OCR-derived text was produced.
type OCRMetadata struct {
	Provider   string       `json:"provider"`
	Confidence float32      `json:"confidence"` // 0..1, mean over succeeded pages
	IsScanned  bool         `json:"is_scanned"`
	Pages      []PageResult `json:"pages,omitempty"`
}

// Result is the uniform extraction outcome. Text is always a
// displayable string: real content, or a human-readable explanation of
// what went wrong and what to do about it.
type Result struct {
	Text        string           `json:"text"`
	OCRApplied  bool             `json:"ocr_applied"`
	OCRMetadata *OCRMetadata     `json:"ocr_metadata,omitempty"`
	IsValid     bool             `json:"is_valid"`
	Reasons     []string         `json:"reasons,omitempty"`
	Format      constants.Format `json:"format"`
	Method      string           `json:"method"`
	Duration    time.Duration    `json:"duration_ns"`
	Warnings    []string         `json:"warnings,omitempty"`
}

// Recognizer is the OCR engine seam; satisfied by *ocr.Engine and by
// test doubles.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (ocr.Result, error)
	Available() bool
}

// Rasterizer is the PDF-to-image seam; satisfied by *raster.Rasterizer.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdfPath, outDir string) ([]raster.PageImage, error)
	Available() bool
}

// Enhancer prepares an image for OCR, returning the path to use (the
// original on skip or failure). Enhanced copies are written to workDir.
type Enhancer interface {
	Enhance(imagePath, workDir string) string
}

// PDFTextExtractor is the text-layer seam; satisfied by
// *format.PDFExtractor.
type PDFTextExtractor interface {
	Extract(ctx context.Context, path string) format.Result
}
