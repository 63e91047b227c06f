package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRTF = `{\rtf1\ansi\deff0
{\fonttbl{\f0 Times New Roman;}}
{\colortbl;\red0\green0\blue0;}
\pard\f0\fs24 This Lease Agreement is made between the parties.\par
\b Section 1.\b0  The premises are described below.\par
}`

func TestRTFStripsControlStructures(t *testing.T) {
	path := writeFile(t, "lease.rtf", sampleRTF)

	res := RTF(path)
	assert.True(t, res.OK)
	assert.Equal(t, "rtf", res.Strategy)
	assert.Contains(t, res.Text, "This Lease Agreement is made between the parties.")
	assert.Contains(t, res.Text, "Section 1. The premises are described below.")
	assert.NotContains(t, res.Text, "Times New Roman")
	assert.NotContains(t, res.Text, `\par`)
	assert.NotContains(t, res.Text, "{")
}

func TestRTFParagraphBreaks(t *testing.T) {
	path := writeFile(t, "p.rtf", `{\rtf1 First paragraph here.\par Second paragraph here.\par}`)

	res := RTF(path)
	assert.True(t, res.OK)
	lines := strings.Split(res.Text, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "First paragraph here.", strings.TrimSpace(lines[0]))
	assert.Equal(t, "Second paragraph here.", strings.TrimSpace(lines[1]))
}

func TestRTFFormattingOnly(t *testing.T) {
	path := writeFile(t, "empty.rtf", `{\rtf1\ansi{\fonttbl{\f0 Arial;}}\pard\f0\fs20\par}`)

	res := RTF(path)
	assert.False(t, res.OK)
	assert.Contains(t, res.Text, "No readable text was found")
}

func TestRTFMissingFile(t *testing.T) {
	res := RTF("/nonexistent/file.rtf")
	assert.False(t, res.OK)
	assert.Contains(t, res.Text, "could not be read")
}
