//go:build sqlite_fts5

package catalog

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS items_fts USING fts5(
			collection UNINDEXED,
			slug UNINDEXED,
			title,
			content,
			attributes,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, r Row, content, attributes string) error {
	_, _ = tx.Exec(`DELETE FROM items_fts WHERE collection = ? AND slug = ?`, string(r.Collection), r.Item.Slug)
	_, err := tx.Exec(`INSERT INTO items_fts (collection, slug, title, content, attributes) VALUES (?, ?, ?, ?, ?)`,
		string(r.Collection), r.Item.Slug, r.Item.Title(), content, attributes)
	if err != nil {
		return fmt.Errorf("catalog: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, collection, slug string) error {
	if _, err := tx.Exec(`DELETE FROM items_fts WHERE collection = ? AND slug = ?`, collection, slug); err != nil {
		return fmt.Errorf("catalog: delete fts: %w", err)
	}
	return nil
}

// Search performs an FTS5 full-text search and returns matching results with snippets.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT collection,
		       slug,
		       title,
		       snippet(items_fts, -1, '<b>', '</b>', '...', 32)
		FROM items_fts
		WHERE items_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: search: %w", err)
	}
	return scanSearch(rows)
}
