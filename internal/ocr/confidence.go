package ocr

import (
	"strings"
	"unicode"
)

// heuristicConfidence scores decoded text when the engine reports no
// usable confidence of its own. It looks at generic readability signals
// rather than any document type in particular.
func heuristicConfidence(txt string) float32 {
	if strings.TrimSpace(txt) == "" {
		return 0
	}
	score := float32(0.2) // base
	if wordlikeRatio(txt) > 0.6 {
		score += 0.3
	}
	if alphaRatio(txt) > 0.5 {
		score += 0.2
	}
	if len(txt) > 120 {
		score += 0.1
	} // enough content
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// wordlikeRatio is the share of whitespace-separated tokens whose rune
// length falls in the 2..15 range typical of natural-language words.
func wordlikeRatio(txt string) float32 {
	fields := strings.Fields(txt)
	if len(fields) == 0 {
		return 0
	}
	wordlike := 0
	for _, f := range fields {
		n := len([]rune(f))
		if n >= 2 && n <= 15 {
			wordlike++
		}
	}
	return float32(wordlike) / float32(len(fields))
}

func alphaRatio(txt string) float32 {
	total, alpha := 0, 0
	for _, r := range txt {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			alpha++
		}
	}
	if total == 0 {
		return 0
	}
	return float32(alpha) / float32(total)
}
