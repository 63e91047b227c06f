package format

import (
	"errors"
	"log/slog"
	"os/exec"
	"strings"

	"code.sajari.com/docconv/v2"
)

// WordExtractor converts .doc/.docx files to plain text through a
// document-structure-aware converter.
type WordExtractor struct {
	logger *slog.Logger
}

func NewWordExtractor(logger *slog.Logger) *WordExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &WordExtractor{logger: logger}
}

// Extract pulls the raw text out of a Word document. Legacy .doc files
// go through an external converter; when that tool is missing the
// result names the missing capability instead of failing the request.
func (x *WordExtractor) Extract(path string) Result {
	res, err := docconv.ConvertPath(path)
	if err != nil {
		x.logger.Warn("word conversion failed", "path", path, "error", err)
		if isMissingConverter(err) {
			return failure(
				"This Word document could not be processed because the document converter is not installed on the server. " +
					"Please save the document as .docx or PDF and upload it again, or contact support.")
		}
		return failure(
			"The Word document could not be read. It may be corrupted, password protected, or saved in an unsupported variant. " +
				"Re-saving it as .docx or exporting it to PDF usually resolves this.")
	}

	text := NormalizeText(res.Body)
	if text == "" {
		return failure(
			"The Word document was opened but contained no extractable text. " +
				"If the document consists of scanned images, convert it to a searchable PDF first.")
	}
	return success(text, "word")
}

func isMissingConverter(err error) bool {
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	return strings.Contains(err.Error(), "executable file not found")
}
