package format

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRunner returns canned output instead of executing anything.
type stubRunner struct {
	stdout []byte
	stderr []byte
	err    error
	calls  int
}

func (r *stubRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, []byte, error) {
	r.calls++
	return r.stdout, r.stderr, r.err
}

func TestPDFExtractUsesPdftotextFirst(t *testing.T) {
	runner := &stubRunner{stdout: []byte("ARTICLE I\nThe parties agree as follows.\n")}
	// "sh" stands in for pdftotext so the LookPath probe succeeds; the
	// stub runner intercepts the actual invocation.
	x := NewPDFExtractor("sh", runner, nil)

	path := writeFile(t, "contract.pdf", "%PDF-1.4 irrelevant, runner is stubbed")
	res := x.Extract(context.Background(), path)

	assert.True(t, res.OK)
	assert.Equal(t, "pdf-text", res.Strategy)
	assert.Equal(t, "ARTICLE I\nThe parties agree as follows.", res.Text)
	assert.Equal(t, 1, runner.calls)
}

func TestPDFExtractFallsBackToRecovery(t *testing.T) {
	runner := &stubRunner{err: errors.New("exit status 1"), stderr: []byte("Syntax Error")}
	x := NewPDFExtractor("sh", runner, nil)

	// Not a parseable PDF, but carries long printable runs the raw
	// recovery pass can salvage.
	body := strings.Repeat("This clause survives inside the damaged stream data. ", 4)
	path := writeFile(t, "damaged.pdf", "\x00\x01\x02"+body+"\x03\x04")

	res := x.Extract(context.Background(), path)
	assert.True(t, res.OK)
	assert.Equal(t, "pdf-recovered", res.Strategy)
	assert.Contains(t, res.Text, "This clause survives")
}

func TestPDFExtractDiagnosesUnparseableFile(t *testing.T) {
	x := NewPDFExtractor("definitely-not-installed-pdftotext", nil, nil)

	path := writeFile(t, "garbage.pdf", "\x00\x01\x02nope\x03")
	res := x.Extract(context.Background(), path)

	assert.False(t, res.OK)
	assert.Equal(t, "none", res.Strategy)
	assert.Contains(t, res.Text, "No text could be extracted")
	assert.Contains(t, res.Text, "corrupted or mislabeled")
}

func TestRecoverPrintableRuns(t *testing.T) {
	short := writeFile(t, "short.bin", "tiny\x00run")
	_, ok := recoverPrintableRuns(short)
	assert.False(t, ok)

	long := writeFile(t, "long.bin",
		"\x00"+strings.Repeat("a perfectly ordinary sentence fragment ", 5)+"\x00")
	text, ok := recoverPrintableRuns(long)
	require.True(t, ok)
	assert.Contains(t, text, "perfectly ordinary sentence")
	assert.NotContains(t, text, "\x00")
}

func TestAssembleFragmentsReadingOrder(t *testing.T) {
	frags := []pdf.Text{
		{S: "below", X: 10, Y: 100},
		{S: "second", X: 120, Y: 700},
		{S: "first", X: 10, Y: 702}, // within tolerance of Y=700
		{S: "", X: 0, Y: 0},         // empty fragments are dropped
	}

	got := assembleFragments(frags)
	assert.Equal(t, "first second\nbelow", got)
}

func TestAssembleFragmentsPreservesExistingSpacing(t *testing.T) {
	frags := []pdf.Text{
		{S: "already ", X: 10, Y: 500},
		{S: "spaced", X: 80, Y: 500},
	}
	assert.Equal(t, "already spaced", assembleFragments(frags))
}
