//go:build sqlite_fts5

package catalog

import (
	"testing"

	"github.com/starford/vedacontent/internal/attr"
	"github.com/starford/vedacontent/internal/models"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM items_fts`).Scan(&count); err != nil {
		t.Fatalf("items_fts table missing: %v", err)
	}
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	if err := db.Upsert(row(models.Datasets, "fts", "FTS Dataset", "Satellites provide powerful observations.", "f1", attr.Null())); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	results, err := db.Search("powerful", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Slug != "fts" {
		t.Errorf("slug = %q", results[0].Slug)
	}
	if results[0].Snippet == "" {
		t.Error("expected non-empty snippet")
	}
}

func TestFTS5_MatchesAttributes(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(row(models.Datasets, "tax", "Tagged", "", "t", taxonomyOf("Topics", "stratosphere")))

	results, _ := db.Search("stratosphere", 10)
	if len(results) != 1 || results[0].Slug != "tax" {
		t.Errorf("attribute match failed: %+v", results)
	}
}

func TestFTS5_DeleteRemovesFromFTS(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(row(models.Stories, "gone", "Gone", "vanishing content", "g", attr.Null()))
	_ = db.Delete(models.Stories, "gone")

	results, _ := db.Search("vanishing", 10)
	for _, r := range results {
		if r.Slug == "gone" {
			t.Error("deleted item still in FTS index")
		}
	}
}

func TestFTS5_UpsertReplacesContent(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(row(models.Stories, "evo", "Old", "original text", "1", attr.Null()))
	_ = db.Upsert(row(models.Stories, "evo", "New", "replacement text", "2", attr.Null()))

	results, _ := db.Search("original", 10)
	if len(results) != 0 {
		t.Error("old FTS content should be gone")
	}
	results, _ = db.Search("replacement", 10)
	if len(results) != 1 || results[0].Title != "New" {
		t.Errorf("FTS not updated: %+v", results)
	}
}
