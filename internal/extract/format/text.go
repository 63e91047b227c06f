package format

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var reBlankLines = regexp.MustCompile(`\n{3,}`)

// PlainText reads a file as UTF-8 and normalizes it: CRLF to LF, runs
// of three or more blank lines collapsed to one, leading/trailing
// whitespace trimmed.
func PlainText(path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return failure(fmt.Sprintf(
			"The document could not be read from disk (%v). The upload may have been interrupted; please try uploading the file again.", err))
	}
	return success(NormalizeText(string(data)), "text")
}

// NormalizeText applies the plain-text cleanup passes to s.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = reBlankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
