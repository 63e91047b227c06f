// Package raster converts PDF pages into standalone page images for
// OCR, using poppler's pdftoppm.
package raster

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/lexforge/docextract/internal/ocr"
)

// PageImage is one rendered PDF page. The file lives inside the output
// directory handed to Rasterize; the caller owns that directory's
// lifetime.
type PageImage struct {
	Path       string
	PageNumber int // 1-based
	SourcePDF  string
}

// Config holds rasterization settings.
type Config struct {
	Pdftoppm string // binary name or absolute path; if empty -> "pdftoppm"
	DPI      int    // default 300, ~2500px wide for a letter page
	MaxPages int    // 0 = no limit
}

// Rasterizer renders PDF pages to PNG files.
type Rasterizer struct {
	cfg       Config
	runner    ocr.Runner
	logger    *slog.Logger
	available bool
}

func NewRasterizer(cfg Config, runner ocr.Runner, logger *slog.Logger) *Rasterizer {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ocr.ExecRunner{}
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	_, lookErr := exec.LookPath(cfg.Pdftoppm)
	return &Rasterizer{
		cfg:       cfg,
		runner:    runner,
		logger:    logger,
		available: lookErr == nil,
	}
}

// Available reports whether the rasterization toolchain is installed.
// When false the orchestrator must not call Rasterize.
func (r *Rasterizer) Available() bool { return r.available }

// Rasterize renders each page of the PDF into outDir and returns the
// pages ordered by numeric page index. It writes only under outDir.
func (r *Rasterizer) Rasterize(ctx context.Context, pdfPath, outDir string) ([]PageImage, error) {
	prefix := filepath.Join(outDir, "page")

	// pdftoppm -r <dpi> -png <in.pdf> <outDir/page>
	_, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm, "-r", strconv.Itoa(r.cfg.DPI), "-png", pdfPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("pdftoppm: %w (%s)", err, truncateStderr(errb))
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ... or
	// zero-padded prefix-01.png depending on page count)
	matches, _ := filepath.Glob(prefix + "-*.png")
	if len(matches) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no images")
	}

	pages := make([]PageImage, 0, len(matches))
	for _, m := range matches {
		n, ok := pageNumberOf(m)
		if !ok {
			r.logger.Warn("unrecognized raster output name", "file", m)
			continue
		}
		pages = append(pages, PageImage{Path: m, PageNumber: n, SourcePDF: pdfPath})
	}

	// numeric sort; a lexical sort would put page-10 before page-2
	sort.Slice(pages, func(i, j int) bool { return pages[i].PageNumber < pages[j].PageNumber })

	if r.cfg.MaxPages > 0 && len(pages) > r.cfg.MaxPages {
		r.logger.Warn("truncating rasterized pages", "pages", len(pages), "max", r.cfg.MaxPages)
		pages = pages[:r.cfg.MaxPages]
	}
	return pages, nil
}

// pageNumberOf parses the trailing page index from a pdftoppm output
// name such as ".../page-07.png".
func pageNumberOf(path string) (int, bool) {
	base := strings.TrimSuffix(filepath.Base(path), ".png")
	i := strings.LastIndexByte(base, '-')
	if i < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(base[i+1:])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func truncateStderr(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 512 {
		s = s[:512] + "..."
	}
	return s
}
