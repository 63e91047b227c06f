package common

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Extraction ExtractionConfig
	OCR        OCRConfig
	Journal    JournalConfig
}

// ExtractionConfig holds orchestrator-level tunables.
type ExtractionConfig struct {
	// MinTextLength is the minimum usable text-layer length before the
	// PDF OCR fallback kicks in. Tunable, not a contract.
	MinTextLength int
	TempDir       string
}

// OCRConfig holds OCR and rasterization configuration
type OCRConfig struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Language string // default "eng"
	DPI      int    // rasterization DPI for scanned PDFs, default 300
	MaxPages int    // 0 = no limit

	TessdataDir         string
	EnableTSVConfidence bool

	PSM int // e.g., 6 is good for uniform block of text
	OEM int // 1 = LSTM; leave 0 to use default

	// EnhanceBelowPx: images with either dimension under this are
	// upscaled before OCR. Images already at/above it are left alone.
	EnhanceBelowPx int
}

// JournalConfig holds the batch journal configuration
type JournalConfig struct {
	Path string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			MinTextLength: getEnvAsInt("EXTRACT_MIN_TEXT_LENGTH", 100),
			TempDir:       getEnv("EXTRACT_TEMP_DIR", ""),
		},
		OCR: OCRConfig{
			Pdftotext:           getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:            getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:           getEnv("TESSERACT_BIN", "tesseract"),
			Language:            getEnv("OCR_LANG", "eng"),
			DPI:                 getEnvAsInt("OCR_DPI", 300),
			MaxPages:            getEnvAsInt("OCR_MAX_PAGES", 0),
			TessdataDir:         getEnv("TESSDATA_PREFIX", ""),
			EnableTSVConfidence: getEnvAsBool("OCR_TSV_CONFIDENCE", true),
			PSM:                 getEnvAsInt("OCR_PSM", 0),
			OEM:                 getEnvAsInt("OCR_OEM", 0),
			EnhanceBelowPx:      getEnvAsInt("OCR_ENHANCE_BELOW_PX", 1200),
		},
		Journal: JournalConfig{
			Path: getEnv("JOURNAL_PATH", "./docextract.db"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Extraction.MinTextLength < 0 {
		return NewAppError("CONFIG_ERROR", "EXTRACT_MIN_TEXT_LENGTH must be >= 0", ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_DPI must be positive", ErrInvalidInput)
	}
	if c.OCR.MaxPages < 0 {
		return NewAppError("CONFIG_ERROR", "OCR_MAX_PAGES must be >= 0", ErrInvalidInput)
	}
	return nil
}
