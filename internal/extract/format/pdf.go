package format

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/lexforge/docextract/internal/ocr"
	"github.com/lexforge/docextract/internal/pdfinfo"
)

// Fragments closer than this on the Y axis belong to the same visual
// line. PDF user-space units; tunable.
const lineYTolerance = 12.0

// minRecoveredChars is the least usable text the raw-byte recovery pass
// must find before the extractor declares defeat.
const minRecoveredChars = 100

// minPrintableRun is the shortest printable-ASCII run the raw-byte
// recovery pass treats as text rather than stream noise.
const minPrintableRun = 20

// PDFExtractor pulls the embedded text layer out of a PDF. It tries a
// structured extraction first, then reading-order reconstruction from
// positioned fragments, then a raw-byte recovery scan. OCR is not its
// job; the orchestrator decides that separately.
type PDFExtractor struct {
	pdftotext string
	runner    ocr.Runner
	logger    *slog.Logger
	hasTool   bool
}

func NewPDFExtractor(pdftotext string, runner ocr.Runner, logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ocr.ExecRunner{}
	}
	if pdftotext == "" {
		pdftotext = "pdftotext"
	}
	_, lookErr := exec.LookPath(pdftotext)
	return &PDFExtractor{
		pdftotext: pdftotext,
		runner:    runner,
		logger:    logger,
		hasTool:   lookErr == nil,
	}
}

// Extract runs the text-layer strategies in order and returns the first
// usable text. A failed Result carries a diagnosis of the likely cause
// plus remediation suggestions, never raw gibberish.
func (x *PDFExtractor) Extract(ctx context.Context, path string) Result {
	if x.hasTool {
		if text, err := x.pdfToText(ctx, path); err == nil && strings.TrimSpace(text) != "" {
			return success(strings.TrimSpace(text), "pdf-text")
		} else if err != nil {
			x.logger.Warn("pdftotext extraction failed; trying positioned fragments", "path", path, "error", err)
		}
	}

	if text, err := x.positionedText(path); err == nil && strings.TrimSpace(text) != "" {
		return success(strings.TrimSpace(text), "pdf-fragments")
	} else if err != nil {
		x.logger.Warn("fragment extraction failed; trying raw recovery", "path", path, "error", err)
	}

	if text, ok := recoverPrintableRuns(path); ok {
		return success(text, "pdf-recovered")
	}

	return failure(x.diagnose(path))
}

// pdfToText shells out to poppler's pdftotext.
func (x *PDFExtractor) pdfToText(ctx context.Context, path string) (string, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := x.runner.Run(ctx, x.pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w (%s)", err, strings.TrimSpace(string(errb)))
	}
	return string(out), nil
}

// positionedText reconstructs reading order from positioned text
// fragments: fragments within lineYTolerance share a line, lines run
// top to bottom, fragments left to right.
func (x *PDFExtractor) positionedText(path string) (text string, err error) {
	// the pdf package panics on malformed cross-reference tables
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf reader panic: %v", rec)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText := assembleFragments(page.Content().Text)
		if pageText != "" {
			pages = append(pages, pageText)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

type fragmentLine struct {
	y     float64
	frags []pdf.Text
}

func assembleFragments(frags []pdf.Text) string {
	var lines []*fragmentLine
	for _, fr := range frags {
		if fr.S == "" {
			continue
		}
		var home *fragmentLine
		for _, ln := range lines {
			if math.Abs(ln.y-fr.Y) <= lineYTolerance {
				home = ln
				break
			}
		}
		if home == nil {
			lines = append(lines, &fragmentLine{y: fr.Y, frags: []pdf.Text{fr}})
		} else {
			home.frags = append(home.frags, fr)
		}
	}

	// PDF Y grows upward: larger Y means higher on the page
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y > lines[j].y })

	var sb strings.Builder
	for li, ln := range lines {
		sort.SliceStable(ln.frags, func(i, j int) bool { return ln.frags[i].X < ln.frags[j].X })
		if li > 0 {
			sb.WriteByte('\n')
		}
		for fi, fr := range ln.frags {
			if fi > 0 && !strings.HasSuffix(ln.frags[fi-1].S, " ") && !strings.HasPrefix(fr.S, " ") {
				sb.WriteByte(' ')
			}
			sb.WriteString(fr.S)
		}
	}
	return strings.TrimSpace(sb.String())
}

// recoverPrintableRuns is the last-resort pass: scan raw bytes for long
// runs of printable ASCII. Crude, but occasionally rescues text from
// PDFs both parsers reject.
func recoverPrintableRuns(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	var runs []string
	start := -1
	usable := 0
	flush := func(end int) {
		if start >= 0 && end-start >= minPrintableRun {
			runs = append(runs, string(data[start:end]))
			usable += end - start
		}
		start = -1
	}
	for i, b := range data {
		if b >= 0x20 && b < 0x7F {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(data))

	if usable < minRecoveredChars {
		return "", false
	}
	return strings.TrimSpace(strings.Join(runs, "\n")), true
}

// diagnose builds the user-facing explanation for a PDF with no
// extractable text layer.
func (x *PDFExtractor) diagnose(path string) string {
	info := pdfinfo.Probe(path)

	var sb strings.Builder
	sb.WriteString("No text could be extracted from this PDF. ")
	switch {
	case info.Encrypted:
		sb.WriteString("The file appears to be password protected or encrypted. ")
		sb.WriteString("Please remove the password (for example via \"Print to PDF\") and upload it again.")
	case info.Readable && info.PageCount > 0:
		sb.WriteString(fmt.Sprintf("The document has %d page(s) but no embedded text layer, which usually means it is a scanned or image-only PDF. ", info.PageCount))
		sb.WriteString("Converting it to a searchable PDF with an OCR tool, or uploading the original digital document, will give much better results.")
	default:
		sb.WriteString("The file could not be parsed as a PDF and may be corrupted or mislabeled. ")
		sb.WriteString("Please re-export the document as PDF, or upload it as plain text or a Word document instead.")
	}
	return sb.String()
}
