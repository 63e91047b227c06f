package format

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// minRTFChars: anything shorter after stripping is treated as a failed
// extraction, not content.
const minRTFChars = 10

var (
	// {\fonttbl ...}, {\colortbl ...}, {\stylesheet ...}, {\info ...}
	reRTFGroups = regexp.MustCompile(`\{\\(?:fonttbl|colortbl|stylesheet|info|pict|\*)[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)
	// \par, \b0, \fs24, \'e9 and friends
	reRTFControl = regexp.MustCompile(`\\'[0-9a-fA-F]{2}|\\[a-zA-Z]+-?\d*\s?`)
	reRTFSpace   = regexp.MustCompile(`[ \t]+`)
)

// RTF strips Rich Text Format control structures and returns the
// remaining text. Sequential regex passes: group blocks first, then
// control words, then the braces themselves.
func RTF(path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return failure(fmt.Sprintf(
			"The RTF document could not be read from disk (%v). Please try uploading the file again.", err))
	}

	text := string(data)
	text = reRTFGroups.ReplaceAllString(text, " ")
	// \par marks a paragraph break; keep it before stripping controls
	// (\pard first so its tail doesn't survive the \par replacement)
	text = strings.ReplaceAll(text, `\pard`, " ")
	text = strings.ReplaceAll(text, `\par`, "\n")
	text = reRTFControl.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, `\{`, "{")
	text = strings.ReplaceAll(text, `\}`, "}")
	text = strings.ReplaceAll(text, "{", "")
	text = strings.ReplaceAll(text, "}", "")
	text = reRTFSpace.ReplaceAllString(text, " ")
	text = NormalizeText(text)

	if len(text) < minRTFChars {
		return failure(
			"No readable text was found in this RTF document. The file may be corrupted or may contain only formatting. " +
				"Re-saving it from a word processor as .rtf, .docx or PDF usually resolves this.")
	}
	return success(text, "rtf")
}
