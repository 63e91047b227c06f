// Package pdfinfo probes PDF files for structural facts used in
// diagnostics: page count and whether the file is password protected.
package pdfinfo

import (
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Info summarizes what could be learned about a PDF without parsing its
// content streams.
type Info struct {
	PageCount int
	Encrypted bool
	Readable  bool
}

// Probe inspects the PDF at path. It never returns an error: a file
// that cannot be opened at all reports Readable=false and callers fold
// that into their own diagnostics.
func Probe(path string) Info {
	n, err := api.PageCountFile(path)
	if err == nil {
		return Info{PageCount: n, Readable: true}
	}
	// pdfcpu fails page counting on protected files; the error text is
	// the only signal it exposes for this.
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "encrypted") ||
		strings.Contains(msg, "password") ||
		strings.Contains(msg, "decrypt") {
		return Info{Encrypted: true}
	}
	return Info{}
}
