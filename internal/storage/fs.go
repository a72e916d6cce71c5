package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/vedacontent/internal/apperr"
	"github.com/starford/vedacontent/internal/models"
)

// DefaultExt is the content file extension.
const DefaultExt = ".mdx"

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to the content directory
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: storage: resolve root: %w", apperr.ErrIO, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: storage: stat root: %w", apperr.ErrIO, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: storage: root is not a directory: %s", apperr.ErrIO, abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute content root.
func (f *FS) Root() string { return f.root }

// safePath resolves a relative path against the content root and rejects
// any result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("%w: storage: absolute paths not allowed: %s", apperr.ErrIO, rel)
	}
	abs := filepath.Join(f.root, cleaned)
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("%w: storage: path escapes content root: %s", apperr.ErrIO, rel)
	}
	return abs, nil
}

// List returns metadata for every regular file directly inside dir whose
// extension equals ext. Subdirectories are not descended into. An empty ext
// means DefaultExt. File contents are not read.
func (f *FS) List(dir, ext string) ([]models.FileMeta, error) {
	if ext == "" {
		ext = DefaultExt
	}
	base, err := f.safePath(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, fmt.Errorf("%w: storage: list %s: %w", apperr.ErrIO, dir, err)
	}

	var out []models.FileMeta
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ext {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("%w: storage: stat %s: %w", apperr.ErrIO, name, err)
		}
		rel, _ := filepath.Rel(f.root, filepath.Join(base, name))
		out = append(out, models.FileMeta{
			Path:      filepath.ToSlash(rel),
			Slug:      strings.TrimSuffix(name, ext),
			UpdatedAt: info.ModTime(),
		})
	}
	return out, nil
}

// Read returns the raw bytes of a content file.
func (f *FS) Read(path string) ([]byte, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: storage: read %s: %w", apperr.ErrIO, path, err)
	}
	return data, nil
}

// Checksum returns the hex-encoded SHA-256 digest of data.
func Checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
