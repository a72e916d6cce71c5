// Package testutil provides shared test helpers for setting up content trees and catalogs.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/vedacontent/internal/catalog"
	"github.com/starford/vedacontent/internal/content"
	"github.com/starford/vedacontent/internal/markdown"
	"github.com/starford/vedacontent/internal/storage"
	"github.com/starford/vedacontent/internal/transform"
)

// TestCatalog opens an in-memory catalog that is closed on cleanup.
func TestCatalog(t *testing.T) *catalog.DB {
	t.Helper()
	db, err := catalog.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestContentRoot creates a temporary content root holding empty stories/
// and datasets/ directories.
func TestContentRoot(t *testing.T) (string, storage.Provider) {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"stories", "datasets"} {
		if err := os.Mkdir(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}

// WriteFile writes content to rel under root, creating parent directories.
func WriteFile(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestSource returns a Source over store using the default layout, the
// default markdown renderer and basePath.
func TestSource(t *testing.T, store storage.Provider, basePath string) *content.Source {
	t.Helper()
	tr := transform.NewTransformer(markdown.NewRenderer(markdown.Options{}), transform.MarkerContains)
	return content.NewSource(store, content.DefaultDirs(), content.Pipeline{Transformer: tr, BasePath: basePath}, nil)
}
