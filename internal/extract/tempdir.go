package extract

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// tempScope owns one request-scoped working directory. Created fresh
// per document and never shared, so no locking is needed across
// concurrent extractions. Close removes it unconditionally.
type tempScope struct {
	dir    string
	logger *slog.Logger
}

func newTempScope(parent string, logger *slog.Logger) (*tempScope, error) {
	if parent == "" {
		parent = os.TempDir()
	}
	dir := filepath.Join(parent, "docextract-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &tempScope{dir: dir, logger: logger}, nil
}

func (s *tempScope) Dir() string { return s.dir }

// Close deletes the directory and everything in it. Safe to call on
// every exit path; failures are logged, not returned, so cleanup never
// masks the extraction outcome.
func (s *tempScope) Close() {
	if s == nil || s.dir == "" {
		return
	}
	if err := os.RemoveAll(s.dir); err != nil {
		s.logger.Warn("failed to remove temp dir", "dir", s.dir, "error", err)
	}
	s.dir = ""
}
