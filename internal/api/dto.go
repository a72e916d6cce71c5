package api

import (
	"github.com/starford/vedacontent/internal/catalog"
	"github.com/starford/vedacontent/internal/content"
	"github.com/starford/vedacontent/internal/contentservice"
)

// Item is a processed story or dataset (aliased from the domain layer).
type Item = content.Item

// ItemListResponse wraps a full collection listing.
type ItemListResponse struct {
	Items []Item `json:"items" validate:"required"`
	Total int    `json:"total" example:"12" validate:"required"`
}

// FilteredListResponse wraps a paginated taxonomy-filtered listing.
type FilteredListResponse struct {
	Items []contentservice.ItemSummary `json:"items" validate:"required"`
	Total int                          `json:"total" example:"3" validate:"required"`
}

// DatasetsListResponse wraps the flattened dataset list view.
type DatasetsListResponse struct {
	Datasets []content.DatasetEntry `json:"datasets" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []catalog.SearchResult `json:"results" validate:"required"`
}

// TaxonomiesResponse wraps taxonomy values with usage counts.
type TaxonomiesResponse struct {
	Taxonomies []catalog.TaxonomyCount `json:"taxonomies" validate:"required"`
}
