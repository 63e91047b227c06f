package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/lexforge/docextract/constants"
	"github.com/lexforge/docextract/internal/repository"
)

func TestExportJobsXLSX(t *testing.T) {
	finished := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	jobs := []repository.ExtractionJob{
		{
			ID:         uuid.New(),
			SourcePath: "/uploads/lease.pdf",
			Format:     string(constants.PDF),
			Method:     "pdf-ocr",
			OCRApplied: true,
			Confidence: 0.82,
			Valid:      true,
			Status:     constants.JobStatusSucceeded,
			Chars:      4321,
			StartedAt:  finished.Add(-25 * time.Second),
			FinishedAt: &finished,
		},
		{
			ID:         uuid.New(),
			SourcePath: "/uploads/broken.docx",
			Format:     string(constants.WORD),
			Status:     constants.JobStatusFailed,
			Error:      "converter missing",
			StartedAt:  finished,
		},
	}

	data, err := NewService(nil).ExportJobsXLSX(jobs)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Extractions")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 jobs

	assert.Equal(t, "File", rows[0][0])
	assert.Equal(t, "/uploads/lease.pdf", rows[1][0])
	assert.Equal(t, "pdf-ocr", rows[1][2])
	assert.Equal(t, "0.82", rows[1][4])
	assert.Equal(t, "/uploads/broken.docx", rows[2][0])
	assert.Equal(t, "converter missing", rows[2][8])

	// default sheet is dropped so the report opens on Extractions
	assert.NotContains(t, f.GetSheetList(), "Sheet1")
}

func TestExportJobsXLSXEmpty(t *testing.T) {
	data, err := NewService(nil).ExportJobsXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Extractions")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
