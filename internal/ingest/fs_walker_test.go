package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populate(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		path := filepath.Join(root, n)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(n), 0o644))
	}
}

func TestWalkFiltersBySupportedExtension(t *testing.T) {
	root := t.TempDir()
	populate(t, root,
		"lease.pdf",
		"notes.txt",
		"scan.jpeg",
		"sub/addendum.docx",
		"sub/archive.zip",
		"binary.exe",
	)

	w := NewFSWalker(nil)
	paths, stats, err := w.Walk(root)
	require.NoError(t, err)

	assert.Equal(t, uint32(6), stats.Scanned)
	assert.Equal(t, uint32(4), stats.Matched)
	assert.Equal(t, uint32(2), stats.Skipped)
	require.Len(t, paths, 4)
	for _, p := range paths {
		assert.NotContains(t, p, ".zip")
		assert.NotContains(t, p, ".exe")
	}
}

func TestWalkSkipsHiddenEntries(t *testing.T) {
	root := t.TempDir()
	populate(t, root,
		"visible.pdf",
		".hidden.pdf",
		".git/objects/blob.pdf",
	)

	w := NewFSWalker(nil)
	paths, stats, err := w.Walk(root)
	require.NoError(t, err)

	require.Len(t, paths, 1)
	assert.Contains(t, paths[0], "visible.pdf")
	assert.Equal(t, uint32(1), stats.Scanned)
}

func TestWalkCustomExtensionSet(t *testing.T) {
	root := t.TempDir()
	populate(t, root, "a.pdf", "b.txt")

	w := NewFSWalker(nil)
	w.AllowedExts = map[string]struct{}{"pdf": {}}

	paths, _, err := w.Walk(root)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Contains(t, paths[0], "a.pdf")
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	sum, err := HashFile(path)
	require.NoError(t, err)
	// sha256("hello")
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", sum)

	_, err = HashFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
