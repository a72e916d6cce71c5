package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/starford/vedacontent/internal/apperr"
	"github.com/starford/vedacontent/internal/frontmatter"
	"github.com/starford/vedacontent/internal/models"
	"github.com/starford/vedacontent/internal/storage"
)

// Dirs maps collections to directories relative to the content root.
type Dirs struct {
	Stories  string
	Datasets string
	// Ext is the content file extension, storage.DefaultExt when empty.
	Ext string
}

// DefaultDirs returns the stock layout: stories/ and datasets/ holding .mdx files.
func DefaultDirs() Dirs {
	return Dirs{Stories: "stories", Datasets: "datasets", Ext: storage.DefaultExt}
}

// Source reads and processes content files. It holds no cache: every call
// re-reads the file system and re-parses every file.
type Source struct {
	store    storage.Provider
	dirs     Dirs
	pipeline Pipeline
	logger   *slog.Logger
}

// NewSource creates a Source. A nil logger discards debug output.
func NewSource(store storage.Provider, dirs Dirs, pipeline Pipeline, logger *slog.Logger) *Source {
	if dirs.Ext == "" {
		dirs.Ext = storage.DefaultExt
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Source{store: store, dirs: dirs, pipeline: pipeline, logger: logger}
}

// Dir returns the directory of c relative to the content root.
func (s *Source) Dir(c models.Collection) string {
	if c == models.Datasets {
		return s.dirs.Datasets
	}
	return s.dirs.Stories
}

// Ext returns the content file extension.
func (s *Source) Ext() string { return s.dirs.Ext }

// Store returns the underlying provider.
func (s *Source) Store() storage.Provider { return s.store }

// Stories returns every story with its body.
func (s *Source) Stories(ctx context.Context) ([]Item, error) {
	return s.List(ctx, models.Stories, true)
}

// StoriesMetadata returns every story without its body.
func (s *Source) StoriesMetadata(ctx context.Context) ([]Item, error) {
	return s.List(ctx, models.Stories, false)
}

// Datasets returns every dataset with its body.
func (s *Source) Datasets(ctx context.Context) ([]Item, error) {
	return s.List(ctx, models.Datasets, true)
}

// DatasetsMetadata returns every dataset without its body.
func (s *Source) DatasetsMetadata(ctx context.Context) ([]Item, error) {
	return s.List(ctx, models.Datasets, false)
}

// TransformedDatasets returns the dataset list view of Datasets.
func (s *Source) TransformedDatasets(ctx context.Context) ([]DatasetEntry, error) {
	items, err := s.Datasets(ctx)
	if err != nil {
		return nil, err
	}
	return TransformToDatasetsList(items), nil
}

// TransformedDatasetsMetadata returns the dataset list view of DatasetsMetadata.
func (s *Source) TransformedDatasetsMetadata(ctx context.Context) ([]DatasetEntry, error) {
	items, err := s.DatasetsMetadata(ctx)
	if err != nil {
		return nil, err
	}
	return TransformToDatasetsList(items), nil
}

// Story returns one story with its body.
func (s *Source) Story(ctx context.Context, slug string) (Item, error) {
	return s.Get(ctx, models.Stories, slug, true)
}

// Dataset returns one dataset with its body.
func (s *Source) Dataset(ctx context.Context, slug string) (Item, error) {
	return s.Get(ctx, models.Datasets, slug, true)
}

// Files lists the content files of c.
func (s *Source) Files(c models.Collection) ([]models.FileMeta, error) {
	files, err := s.store.List(s.Dir(c), s.dirs.Ext)
	if err != nil {
		return nil, fmt.Errorf("content: %s: %w", c, err)
	}
	return files, nil
}

// List processes every file of c in name order. The first failing file
// aborts the call.
func (s *Source) List(ctx context.Context, c models.Collection, full bool) ([]Item, error) {
	files, err := s.Files(c)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item, err := s.Load(f.Path, f.Slug, full)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	s.logger.Debug("content listed",
		slog.String("collection", string(c)),
		slog.Int("count", len(items)),
		slog.Bool("full", full),
	)
	return items, nil
}

// Get processes the file of c named by slug. An unknown slug yields an
// error wrapping apperr.ErrNotFound.
func (s *Source) Get(ctx context.Context, c models.Collection, slug string, full bool) (Item, error) {
	if err := ctx.Err(); err != nil {
		return Item{}, err
	}
	if !validSlug(slug) {
		return Item{}, fmt.Errorf("%w: %s %q", apperr.ErrNotFound, c, slug)
	}
	item, err := s.Load(path.Join(s.Dir(c), slug+s.dirs.Ext), slug, full)
	if errors.Is(err, os.ErrNotExist) {
		return Item{}, fmt.Errorf("%w: %s %q", apperr.ErrNotFound, c, slug)
	}
	return item, err
}

// Load reads, parses and processes a single file. Errors name the file.
func (s *Source) Load(rel, slug string, full bool) (Item, error) {
	data, err := s.store.Read(rel)
	if err != nil {
		return Item{}, fmt.Errorf("content: %w", err)
	}
	return s.Decode(rel, slug, data, full)
}

// Decode parses and processes already read file bytes. rel names the file in errors.
func (s *Source) Decode(rel, slug string, data []byte, full bool) (Item, error) {
	doc, err := frontmatter.Parse(data)
	if err != nil {
		return Item{}, fmt.Errorf("content: %s: %w", rel, err)
	}
	meta, err := s.pipeline.Process(doc.Attributes)
	if err != nil {
		return Item{}, fmt.Errorf("content: %s: %w", rel, err)
	}
	item := Item{Metadata: meta, Slug: slug}
	if full {
		body := doc.Body
		item.Content = &body
	}
	return item, nil
}

func validSlug(slug string) bool {
	return slug != "" && slug != "." && slug != ".." &&
		!strings.ContainsAny(slug, `/\`)
}
