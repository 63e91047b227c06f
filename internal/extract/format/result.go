// Package format holds the per-format text extractors. Every extractor
// folds its own failures into a displayable explanation instead of an
// error, so callers always get a string they can show to a user.
package format

// Result is the outcome of one format extractor.
type Result struct {
	// Text is the extracted content, or a human-readable explanation
	// of why extraction failed. Never empty.
	Text string
	// OK is false when Text is an explanation rather than content.
	OK bool
	// Strategy names the extraction strategy that produced Text.
	Strategy string
}

func success(text, strategy string) Result {
	return Result{Text: text, OK: true, Strategy: strategy}
}

func failure(explanation string) Result {
	return Result{Text: explanation, OK: false, Strategy: "none"}
}
