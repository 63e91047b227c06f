// Package repository persists extraction-job outcomes for the batch
// tool in an embedded SQLite database. The extraction core itself
// persists nothing; this journal is collaborator territory.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/lexforge/docextract/constants"
)

const schema = `
CREATE TABLE IF NOT EXISTS extraction_jobs (
	id          TEXT PRIMARY KEY,
	source_path TEXT NOT NULL,
	hash_hex    TEXT NOT NULL,
	format      TEXT NOT NULL,
	method      TEXT NOT NULL DEFAULT '',
	ocr_applied INTEGER NOT NULL DEFAULT 0,
	confidence  REAL NOT NULL DEFAULT 0,
	valid       INTEGER NOT NULL DEFAULT 0,
	status      TEXT NOT NULL,
	chars       INTEGER NOT NULL DEFAULT 0,
	error       TEXT NOT NULL DEFAULT '',
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_extraction_jobs_hash ON extraction_jobs(hash_hex);
`

// ExtractionJob is one journaled extraction.
type ExtractionJob struct {
	ID         uuid.UUID
	SourcePath string
	HashHex    string
	Format     string
	Method     string
	OCRApplied bool
	Confidence float32
	Valid      bool
	Status     constants.JobStatus
	Chars      int
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Outcome carries the fields recorded when a job finishes.
type Outcome struct {
	Method     string
	OCRApplied bool
	Confidence float32
	Valid      bool
	Chars      int
	Error      string
}

// JobRepository journals extraction jobs.
type JobRepository interface {
	Start(ctx context.Context, sourcePath, hashHex string, format constants.Format) (uuid.UUID, error)
	Finish(ctx context.Context, id uuid.UUID, out Outcome) error
	GetByID(ctx context.Context, id uuid.UUID) (*ExtractionJob, error)
	List(ctx context.Context) ([]ExtractionJob, error)
}

// Open opens (or creates) the journal database at path. WAL mode keeps
// concurrent batch workers from tripping over each other.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}
	return db, nil
}

type jobRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewJobRepository(db *sql.DB, logger *slog.Logger) JobRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &jobRepo{db: db, logger: logger}
}

func (r *jobRepo) Start(ctx context.Context, sourcePath, hashHex string, format constants.Format) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO extraction_jobs (id, source_path, hash_hex, format, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id.String(), sourcePath, hashHex, string(format), string(constants.JobStatusRunning), time.Now().UTC(),
	)
	if err != nil {
		r.logger.Error("start job failed", "path", sourcePath, "error", err)
		return uuid.Nil, fmt.Errorf("start job: %w", err)
	}
	return id, nil
}

func (r *jobRepo) Finish(ctx context.Context, id uuid.UUID, out Outcome) error {
	status := constants.JobStatusSucceeded
	if out.Error != "" {
		status = constants.JobStatusFailed
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE extraction_jobs
		 SET method = ?, ocr_applied = ?, confidence = ?, valid = ?, chars = ?, error = ?, status = ?, finished_at = ?
		 WHERE id = ?`,
		out.Method, boolToInt(out.OCRApplied), out.Confidence, boolToInt(out.Valid),
		out.Chars, out.Error, string(status), time.Now().UTC(), id.String(),
	)
	if err != nil {
		r.logger.Error("finish job failed", "job_id", id, "error", err)
		return fmt.Errorf("finish job: %w", err)
	}
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, id uuid.UUID) (*ExtractionJob, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, source_path, hash_hex, format, method, ocr_applied, confidence, valid, status, chars, error, started_at, finished_at
		 FROM extraction_jobs WHERE id = ?`, id.String())
	job, err := scanJob(row)
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (r *jobRepo) List(ctx context.Context) ([]ExtractionJob, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source_path, hash_hex, format, method, ocr_applied, confidence, valid, status, chars, error, started_at, finished_at
		 FROM extraction_jobs ORDER BY started_at`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var jobs []ExtractionJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*ExtractionJob, error) {
	var (
		job      ExtractionJob
		idStr    string
		ocrInt   int
		validInt int
		status   string
		finished sql.NullTime
	)
	err := row.Scan(&idStr, &job.SourcePath, &job.HashHex, &job.Format, &job.Method,
		&ocrInt, &job.Confidence, &validInt, &status, &job.Chars, &job.Error,
		&job.StartedAt, &finished)
	if err != nil {
		return nil, fmt.Errorf("scan job: %w", err)
	}
	job.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse job id: %w", err)
	}
	job.OCRApplied = ocrInt != 0
	job.Valid = validInt != 0
	job.Status = constants.JobStatus(status)
	if finished.Valid {
		t := finished.Time
		job.FinishedAt = &t
	}
	return &job, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
