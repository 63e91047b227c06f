// Package validate grades extracted text for likely usability. It is a
// heuristic gate: false positives and negatives are acceptable, the
// verdict feeds UI warnings and never blocks storage.
package validate

import (
	"fmt"
	"unicode"
)

// MinLength is the shortest text considered potentially useful.
const MinLength = 10

// maxSpecialRatio is the tolerated share of characters outside
// printable ASCII plus whitespace.
const maxSpecialRatio = 0.5

// Verdict is the outcome of validating one piece of extracted text.
type Verdict struct {
	IsValid bool
	Reasons []string
}

// Validate applies the checks in order; any failure makes the text invalid.
func Validate(text string) Verdict {
	var reasons []string

	runes := []rune(text)
	if len(runes) < MinLength {
		reasons = append(reasons, fmt.Sprintf("text too short (%d chars, need %d)", len(runes), MinLength))
	}

	if !hasAlphabeticRun(text, 3) {
		reasons = append(reasons, "no run of 3+ alphabetic characters")
	}

	if r := specialCharRatio(text); r > maxSpecialRatio {
		reasons = append(reasons, fmt.Sprintf("special character ratio %.2f exceeds %.2f", r, maxSpecialRatio))
	}

	if hasCorruptionMarkers(text) {
		reasons = append(reasons, "encoding corruption markers present")
	}

	return Verdict{IsValid: len(reasons) == 0, Reasons: reasons}
}

// hasAlphabeticRun reports whether text contains n consecutive letters.
func hasAlphabeticRun(text string, n int) bool {
	run := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			run++
			if run >= n {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

// specialCharRatio is the fraction of characters outside printable
// ASCII and whitespace.
func specialCharRatio(text string) float64 {
	total := 0
	special := 0
	for _, r := range text {
		total++
		if r >= 0x20 && r < 0x7F {
			continue
		}
		if r == '\t' || r == '\n' || r == '\r' || unicode.IsSpace(r) {
			continue
		}
		special++
	}
	if total == 0 {
		return 0
	}
	return float64(special) / float64(total)
}

// hasCorruptionMarkers detects U+FFFD and C0/C1 control characters
// outside tab, newline and carriage return.
func hasCorruptionMarkers(text string) bool {
	for _, r := range text {
		if r == '�' {
			return true
		}
		if r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		if r < 0x20 || (r >= 0x7F && r <= 0x9F) {
			return true
		}
	}
	return false
}
