package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/starford/vedacontent/internal/apperr"
	"github.com/starford/vedacontent/internal/attr"
	"github.com/starford/vedacontent/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(MemoryDSN)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func kv(k string, v attr.Value) attr.Pair { return attr.Pair{Key: k, Value: v} }

func taxonomyOf(group string, ids ...string) attr.Value {
	values := make([]attr.Value, 0, len(ids))
	for _, id := range ids {
		values = append(values, attr.Map(kv("id", attr.String(id)), kv("name", attr.String(id))))
	}
	return attr.List(attr.Map(kv("name", attr.String(group)), kv("values", attr.List(values...))))
}

func row(c models.Collection, slug, name, body, checksum string, tax attr.Value) Row {
	meta := attr.Map(kv("id", attr.String(slug)), kv("name", attr.String(name)))
	if !tax.IsNull() {
		meta = meta.With("taxonomy", tax)
	}
	return Row{
		Collection: c,
		Item:       models.Item{Metadata: meta, Slug: slug, Content: &body},
		Checksum:   checksum,
		UpdatedAt:  time.Now(),
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM items`).Scan(&count); err != nil {
		t.Fatalf("items table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM item_taxonomies`).Scan(&count); err != nil {
		t.Fatalf("item_taxonomies table missing: %v", err)
	}
}

func TestUpsertAndGet(t *testing.T) {
	db := testDB(t)
	if err := db.Upsert(row(models.Datasets, "no2", "Nitrogen Dioxide", "body text", "abc", attr.Null())); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := db.Get(models.Datasets, "no2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Checksum != "abc" || got.Item.Title() != "Nitrogen Dioxide" {
		t.Errorf("row = %+v", got)
	}
	if got.Item.Content == nil || *got.Item.Content != "body text" {
		t.Errorf("content = %v", got.Item.Content)
	}
	if keys := got.Item.Metadata.Keys(); len(keys) != 2 || keys[0] != "id" || keys[1] != "name" {
		t.Errorf("metadata keys = %v", keys)
	}
}

func TestGet_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.Get(models.Stories, "missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSameSlugAcrossCollections(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(row(models.Stories, "air", "Story", "", "1", attr.Null()))
	_ = db.Upsert(row(models.Datasets, "air", "Dataset", "", "2", attr.Null()))

	s, err := db.Get(models.Stories, "air")
	if err != nil || s.Item.Title() != "Story" {
		t.Errorf("story = %+v, %v", s, err)
	}
	d, err := db.Get(models.Datasets, "air")
	if err != nil || d.Item.Title() != "Dataset" {
		t.Errorf("dataset = %+v, %v", d, err)
	}
}

func TestDelete(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(row(models.Stories, "del", "Delete", "", "x", taxonomyOf("Topics", "health")))

	if err := db.Delete(models.Stories, "del"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := db.Get(models.Stories, "del"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("deleted item still present: %v", err)
	}
	tax, _ := db.Taxonomies("")
	if len(tax) != 0 {
		t.Errorf("expected no taxonomy values after delete, got %+v", tax)
	}
}

func TestDelete_ReportsFailure(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(row(models.Stories, "kept", "Kept", "", "x", taxonomyOf("Topics", "health")))
	if _, err := db.conn.Exec(`CREATE TRIGGER no_delete BEFORE DELETE ON items BEGIN SELECT RAISE(ABORT, 'locked'); END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	if err := db.Delete(models.Stories, "kept"); err == nil {
		t.Fatal("expected error from Delete")
	}
	if _, err := db.Get(models.Stories, "kept"); err != nil {
		t.Errorf("item should survive a failed delete: %v", err)
	}
	tax, _ := db.Taxonomies("")
	if len(tax) != 1 {
		t.Errorf("taxonomy rows should be rolled back, got %+v", tax)
	}
}

func TestUpsertReplacesTaxonomies(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(row(models.Datasets, "a", "A", "", "1", taxonomyOf("Topics", "air", "health")))
	_ = db.Upsert(row(models.Datasets, "a", "A", "", "2", taxonomyOf("Topics", "urban")))

	tax, err := db.Taxonomies(models.Datasets)
	if err != nil {
		t.Fatalf("Taxonomies: %v", err)
	}
	if len(tax) != 1 || tax[0].ID != "urban" || tax[0].Count != 1 {
		t.Errorf("taxonomies = %+v", tax)
	}
}

func TestListWithFilter(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(row(models.Datasets, "a", "A", "", "1", taxonomyOf("Topics", "air")))
	_ = db.Upsert(row(models.Datasets, "b", "B", "", "2", taxonomyOf("Topics", "air", "health")))
	_ = db.Upsert(row(models.Datasets, "c", "C", "", "3", attr.Null()))
	_ = db.Upsert(row(models.Stories, "s", "S", "", "4", taxonomyOf("Topics", "air")))

	all, total, err := db.List(models.Datasets, Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(all) != 3 || all[0].Item.Slug != "a" {
		t.Errorf("all = %d/%d", len(all), total)
	}
	if all[0].Item.Content != nil {
		t.Error("list rows should not carry content")
	}

	air, total, _ := db.List(models.Datasets, Filter{Taxonomy: "Topics", Value: "air"})
	if total != 2 || len(air) != 2 {
		t.Errorf("air = %d/%d", len(air), total)
	}

	page, total, _ := db.List(models.Datasets, Filter{Limit: 1, Offset: 1})
	if total != 3 || len(page) != 1 || page[0].Item.Slug != "b" {
		t.Errorf("page = %+v total %d", page, total)
	}

	everywhere, total, _ := db.List("", Filter{Value: "air"})
	if total != 3 || len(everywhere) != 3 {
		t.Errorf("cross-collection = %d/%d", len(everywhere), total)
	}
}

func TestTaxonomyCounts(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(row(models.Datasets, "a", "A", "", "1", taxonomyOf("Topics", "air")))
	_ = db.Upsert(row(models.Stories, "b", "B", "", "2", taxonomyOf("Topics", "air", "health")))

	tax, err := db.Taxonomies("")
	if err != nil {
		t.Fatalf("Taxonomies: %v", err)
	}
	if len(tax) != 2 || tax[0].ID != "air" || tax[0].Count != 2 || tax[1].ID != "health" {
		t.Errorf("taxonomies = %+v", tax)
	}
	stories, _ := db.Taxonomies(models.Stories)
	if len(stories) != 2 || stories[0].Count != 1 {
		t.Errorf("story taxonomies = %+v", stories)
	}
}

func TestAllChecksums(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(row(models.Stories, "a", "A", "", "1", attr.Null()))
	_ = db.Upsert(row(models.Datasets, "b", "B", "", "2", attr.Null()))

	cs, err := db.AllChecksums(models.Stories)
	if err != nil {
		t.Fatalf("AllChecksums: %v", err)
	}
	if len(cs) != 1 || cs["a"] != "1" {
		t.Errorf("checksums = %v", cs)
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(row(models.Stories, "s", "Search Me", "uniqueword appears here", "1", attr.Null()))

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Slug != "s" || results[0].Collection != models.Stories {
		t.Errorf("search results = %+v, want 1 hit for s", results)
	}
}
