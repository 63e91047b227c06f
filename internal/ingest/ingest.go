// Package ingest walks directories and fingerprints files for the
// batch extraction tool.
package ingest

// DirStats summarizes a directory walk.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Skipped uint32
}
