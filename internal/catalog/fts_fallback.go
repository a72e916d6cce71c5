//go:build !sqlite_fts5

package catalog

import (
	"database/sql"
	"fmt"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; full-text search uses LIKE fallback on the items table.
	return nil
}

func ftsUpsert(_ *sql.Tx, _ Row, _, _ string) error {
	// Content and metadata are already stored in the items table.
	return nil
}

func ftsDelete(_ *sql.Tx, _, _ string) error { return nil }

// Search performs a LIKE-based search (fallback when FTS5 is not compiled in).
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT collection, slug, title, substr(content, 1, 200)
		FROM items
		WHERE title LIKE ? OR content LIKE ? OR metadata LIKE ?
		ORDER BY collection, slug
		LIMIT ?
	`, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: search: %w", err)
	}
	return scanSearch(rows)
}
