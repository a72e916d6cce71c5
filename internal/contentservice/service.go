// Package contentservice coordinates the file-backed accessors and the
// catalog for the HTTP and MCP surfaces.
package contentservice

import (
	"context"
	"fmt"

	"github.com/starford/vedacontent/internal/apperr"
	"github.com/starford/vedacontent/internal/attr"
	"github.com/starford/vedacontent/internal/catalog"
	"github.com/starford/vedacontent/internal/content"
	"github.com/starford/vedacontent/internal/models"
)

// ItemSummary is a lightweight item in a filtered list response.
type ItemSummary struct {
	Collection models.Collection `json:"collection"`
	Slug       string            `json:"slug"`
	Title      string            `json:"title"`
	Checksum   string            `json:"checksum"`
	Metadata   attr.Value        `json:"metadata"`
}

// Service reads fresh content through the Source and answers search and
// taxonomy queries from the catalog.
type Service struct {
	src *content.Source
	db  catalog.Catalog
}

// NewService creates a new content service.
func NewService(src *content.Source, db catalog.Catalog) *Service {
	return &Service{src: src, db: db}
}

// List returns every item of c, re-read from disk. full includes bodies.
func (s *Service) List(ctx context.Context, c models.Collection, full bool) ([]content.Item, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: collection %q", apperr.ErrNotFound, c)
	}
	items, err := s.src.List(ctx, c, full)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(items), nil
}

// Get returns one item of c with its body.
func (s *Service) Get(ctx context.Context, c models.Collection, slug string) (content.Item, error) {
	if !c.Valid() {
		return content.Item{}, fmt.Errorf("%w: collection %q", apperr.ErrNotFound, c)
	}
	return s.src.Get(ctx, c, slug, true)
}

// DatasetsList returns the flattened dataset list view.
func (s *Service) DatasetsList(ctx context.Context, full bool) ([]content.DatasetEntry, error) {
	var (
		list []content.DatasetEntry
		err  error
	)
	if full {
		list, err = s.src.TransformedDatasets(ctx)
	} else {
		list, err = s.src.TransformedDatasetsMetadata(ctx)
	}
	if err != nil {
		return nil, err
	}
	return nonNilSlice(list), nil
}

// Filter returns catalog items of c carrying the given taxonomy value.
func (s *Service) Filter(_ context.Context, c models.Collection, f catalog.Filter) ([]ItemSummary, int, error) {
	rows, total, err := s.db.List(c, f)
	if err != nil {
		return nil, 0, err
	}
	items := make([]ItemSummary, len(rows))
	for i, r := range rows {
		items[i] = ItemSummary{
			Collection: r.Collection,
			Slug:       r.Item.Slug,
			Title:      r.Item.Title(),
			Checksum:   r.Checksum,
			Metadata:   r.Item.Metadata,
		}
	}
	return items, total, nil
}

// Search delegates full-text search to the catalog.
func (s *Service) Search(_ context.Context, query string, limit int) ([]catalog.SearchResult, error) {
	results, err := s.db.Search(query, limit)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(results), nil
}

// Taxonomies returns taxonomy values with usage counts. An empty
// collection covers both collections.
func (s *Service) Taxonomies(_ context.Context, c models.Collection) ([]catalog.TaxonomyCount, error) {
	if c != "" && !c.Valid() {
		return nil, fmt.Errorf("%w: collection %q", apperr.ErrNotFound, c)
	}
	values, err := s.db.Taxonomies(c)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(values), nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
