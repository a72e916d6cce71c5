package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/starford/vedacontent/internal/apperr"
	"github.com/starford/vedacontent/internal/attr"
	"github.com/starford/vedacontent/internal/models"
	"github.com/starford/vedacontent/internal/taxonomy"
)

// Row is one indexed item.
type Row struct {
	Collection models.Collection
	Item       models.Item
	Checksum   string
	UpdatedAt  time.Time
}

// Filter narrows List results. Zero values mean no constraint.
type Filter struct {
	Taxonomy string
	Value    string
	Limit    int
	Offset   int
}

// SearchResult represents one search hit.
type SearchResult struct {
	Collection models.Collection `json:"collection"`
	Slug       string            `json:"slug"`
	Title      string            `json:"title"`
	Snippet    string            `json:"snippet"`
}

// Upsert inserts or replaces an item, its FTS entry and its taxonomy values within a transaction.
func (db *DB) Upsert(r Row) error {
	meta, err := json.Marshal(r.Item.Metadata)
	if err != nil {
		return fmt.Errorf("catalog: encode metadata: %w", err)
	}
	var content string
	if r.Item.Content != nil {
		content = *r.Item.Content
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now()
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO items (collection, slug, title, checksum, metadata, content, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, slug) DO UPDATE SET
			title      = excluded.title,
			checksum   = excluded.checksum,
			metadata   = excluded.metadata,
			content    = excluded.content,
			updated_at = excluded.updated_at
	`, string(r.Collection), r.Item.Slug, r.Item.Title(), r.Checksum, string(meta), content, r.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("catalog: upsert item: %w", err)
	}

	// FTS upsert (no-op when FTS5 tag is absent).
	if err := ftsUpsert(tx, r, content, attributeText(r.Item.Metadata)); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM item_taxonomies WHERE collection = ? AND slug = ?`, string(r.Collection), r.Item.Slug); err != nil {
		return fmt.Errorf("catalog: clear taxonomies: %w", err)
	}
	if values := taxonomy.Values(r.Item.Metadata); len(values) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO item_taxonomies (collection, slug, taxonomy, value_id, value_name) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("catalog: prepare taxonomy insert: %w", err)
		}
		defer stmt.Close()
		for _, v := range values {
			if _, err := stmt.Exec(string(r.Collection), r.Item.Slug, v.Taxonomy, v.ID, v.Name); err != nil {
				return fmt.Errorf("catalog: insert taxonomy: %w", err)
			}
		}
	}

	return tx.Commit()
}

// Delete removes an item, its FTS entry and its taxonomy values.
func (db *DB) Delete(c models.Collection, slug string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := ftsDelete(tx, string(c), slug); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM item_taxonomies WHERE collection = ? AND slug = ?`, string(c), slug); err != nil {
		return fmt.Errorf("catalog: delete taxonomies: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM items WHERE collection = ? AND slug = ?`, string(c), slug); err != nil {
		return fmt.Errorf("catalog: delete item: %w", err)
	}

	return tx.Commit()
}

// Get returns one item with its body. Unknown items yield apperr.ErrNotFound.
func (db *DB) Get(c models.Collection, slug string) (*Row, error) {
	row := db.conn.QueryRow(`
		SELECT collection, slug, checksum, metadata, content, updated_at
		FROM items WHERE collection = ? AND slug = ?
	`, string(c), slug)
	r, err := scanRow(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %q", apperr.ErrNotFound, c, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get: %w", err)
	}
	return r, nil
}

// List returns metadata-only items of c ordered by slug, optionally
// restricted to one taxonomy value, and the total number of matches.
// An empty collection lists every collection.
func (db *DB) List(c models.Collection, f Filter) ([]Row, int, error) {
	var (
		where []string
		args  []any
	)
	if c != "" {
		where = append(where, "i.collection = ?")
		args = append(args, string(c))
	}
	if f.Taxonomy != "" || f.Value != "" {
		sub := `EXISTS (SELECT 1 FROM item_taxonomies t WHERE t.collection = i.collection AND t.slug = i.slug`
		if f.Taxonomy != "" {
			sub += ` AND t.taxonomy = ?`
			args = append(args, f.Taxonomy)
		}
		if f.Value != "" {
			sub += ` AND t.value_id = ?`
			args = append(args, f.Value)
		}
		where = append(where, sub+")")
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM items i`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("catalog: count: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.Query(`
		SELECT i.collection, i.slug, i.checksum, i.metadata, '', i.updated_at
		FROM items i`+clause+`
		ORDER BY i.collection, i.slug
		LIMIT ? OFFSET ?
	`, append(args, limit, max(f.Offset, 0))...)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		r, err := scanRow(rows, false)
		if err != nil {
			return nil, 0, fmt.Errorf("catalog: list: %w", err)
		}
		out = append(out, *r)
	}
	return out, total, rows.Err()
}

// Taxonomies returns every taxonomy value used by items of c with usage
// counts. An empty collection covers every collection.
func (db *DB) Taxonomies(c models.Collection) ([]TaxonomyCount, error) {
	query := `
		SELECT taxonomy, value_id, min(value_name), count(*)
		FROM item_taxonomies`
	var args []any
	if c != "" {
		query += ` WHERE collection = ?`
		args = append(args, string(c))
	}
	query += ` GROUP BY taxonomy, value_id ORDER BY taxonomy, value_id`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: taxonomies: %w", err)
	}
	defer rows.Close()

	var out []TaxonomyCount
	for rows.Next() {
		var tc TaxonomyCount
		if err := rows.Scan(&tc.Taxonomy, &tc.ID, &tc.Name, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// AllChecksums returns slug → checksum for every indexed item of c.
func (db *DB) AllChecksums(c models.Collection) (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT slug, checksum FROM items WHERE collection = ?`, string(c))
	if err != nil {
		return nil, fmt.Errorf("catalog: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var slug, cs string
		if err := rows.Scan(&slug, &cs); err != nil {
			return nil, err
		}
		out[slug] = cs
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner, full bool) (*Row, error) {
	var (
		r          Row
		collection string
		meta       string
		content    string
	)
	if err := s.Scan(&collection, &r.Item.Slug, &r.Checksum, &meta, &content, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.Collection = models.Collection(collection)
	if err := json.Unmarshal([]byte(meta), &r.Item.Metadata); err != nil {
		return nil, fmt.Errorf("decode metadata of %s: %w", r.Item.Slug, err)
	}
	if full {
		r.Item.Content = &content
	}
	return &r, nil
}

func scanSearch(rows *sql.Rows) ([]SearchResult, error) {
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var (
			r          SearchResult
			collection string
		)
		if err := rows.Scan(&collection, &r.Slug, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		r.Collection = models.Collection(collection)
		out = append(out, r)
	}
	return out, rows.Err()
}

// attributeText flattens every string leaf of v for full-text indexing.
func attributeText(v attr.Value) string {
	var b strings.Builder
	v.Walk(func(s string) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	})
	return b.String()
}
