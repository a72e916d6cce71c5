package catalog

import (
	"github.com/starford/vedacontent/internal/models"
	"github.com/starford/vedacontent/internal/taxonomy"
)

// Catalog defines the read and maintenance operations on processed content.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type Catalog interface {
	Upsert(r Row) error
	Delete(c models.Collection, slug string) error
	Get(c models.Collection, slug string) (*Row, error)
	List(c models.Collection, f Filter) ([]Row, int, error)
	Search(query string, limit int) ([]SearchResult, error)
	Taxonomies(c models.Collection) ([]TaxonomyCount, error)
	AllChecksums(c models.Collection) (map[string]string, error)
	Close() error
}

// Verify *DB satisfies Catalog at compile time.
var _ Catalog = (*DB)(nil)

// TaxonomyCount is one taxonomy value with the number of items carrying it.
type TaxonomyCount struct {
	taxonomy.Entry
	Count int `json:"count"`
}
