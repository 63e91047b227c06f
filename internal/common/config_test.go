package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, 100, cfg.Extraction.MinTextLength)
	assert.Equal(t, "pdftotext", cfg.OCR.Pdftotext)
	assert.Equal(t, "eng", cfg.OCR.Language)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.True(t, cfg.OCR.EnableTSVConfidence)
	assert.Equal(t, 1200, cfg.OCR.EnhanceBelowPx)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("EXTRACT_MIN_TEXT_LENGTH", "250")
	t.Setenv("OCR_LANG", "deu")
	t.Setenv("OCR_DPI", "150")
	t.Setenv("OCR_TSV_CONFIDENCE", "false")
	t.Setenv("OCR_MAX_PAGES", "50")

	cfg := LoadConfig()
	assert.Equal(t, 250, cfg.Extraction.MinTextLength)
	assert.Equal(t, "deu", cfg.OCR.Language)
	assert.Equal(t, 150, cfg.OCR.DPI)
	assert.False(t, cfg.OCR.EnableTSVConfidence)
	assert.Equal(t, 50, cfg.OCR.MaxPages)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigIgnoresMalformedValues(t *testing.T) {
	t.Setenv("OCR_DPI", "high")
	t.Setenv("OCR_TSV_CONFIDENCE", "maybe")

	cfg := LoadConfig()
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.True(t, cfg.OCR.EnableTSVConfidence)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := LoadConfig()
	cfg.OCR.DPI = 0
	require.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.Extraction.MinTextLength = -1
	require.Error(t, cfg.Validate())
}
