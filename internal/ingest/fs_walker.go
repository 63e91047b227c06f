package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lexforge/docextract/constants"
)

// FSWalker reads candidate documents from the local filesystem.
type FSWalker struct {
	AllowedExts map[string]struct{} // lowercased sans '.'; nil -> default set
	SkipHidden  bool
	Logger      *slog.Logger
}

func NewFSWalker(logger *slog.Logger) *FSWalker {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSWalker{SkipHidden: true, Logger: logger}
}

func (w *FSWalker) allowed(ext string) bool {
	exts := w.AllowedExts
	if exts == nil {
		exts = constants.AllowedExtensions
	}
	_, ok := exts[constants.NormalizeExt(ext)]
	return ok
}

// Walk collects the supported files under root in deterministic
// (lexical walk) order.
func (w *FSWalker) Walk(root string) ([]string, DirStats, error) {
	var stats DirStats
	var paths []string

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, stats, err
	}

	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if w.SkipHidden && strings.HasPrefix(name, ".") && path != abs {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		stats.Scanned++
		if !w.allowed(filepath.Ext(name)) {
			stats.Skipped++
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, stats, err
	}

	w.Logger.Info("directory walk completed", "root", abs,
		"scanned", stats.Scanned, "matched", stats.Matched, "skipped", stats.Skipped)
	return paths, stats, nil
}

// HashFile returns the hex sha256 of the file's content, used to
// dedupe re-submitted documents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
