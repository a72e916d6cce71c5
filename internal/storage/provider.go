// Package storage defines the read-only content file-system abstraction.
package storage

import "github.com/starford/vedacontent/internal/models"

// Provider is the interface for content file reads.
type Provider interface {
	// List returns metadata for every file directly inside dir (relative to
	// the content root) whose extension equals ext, sorted by name.
	List(dir, ext string) ([]models.FileMeta, error)
	// Read returns the raw bytes of the file at path (relative to the content root).
	Read(path string) ([]byte, error)
	// Root returns the absolute content root.
	Root() string
}
