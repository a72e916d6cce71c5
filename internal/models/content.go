// Package models defines the domain types shared by the content pipeline.
package models

import (
	"time"

	"github.com/starford/vedacontent/internal/attr"
)

// Collection names a content directory.
type Collection string

// Known collections.
const (
	Stories  Collection = "stories"
	Datasets Collection = "datasets"
)

// Collections lists every known collection in a stable order.
var Collections = []Collection{Stories, Datasets}

// Valid reports whether c is a known collection.
func (c Collection) Valid() bool {
	return c == Stories || c == Datasets
}

// FileMeta is a lightweight description of one content file returned by list operations.
type FileMeta struct {
	Path      string    `json:"path"`
	Slug      string    `json:"slug"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is one processed content file. Content is nil for metadata-only reads
// and holds the body (possibly empty) for full reads.
type Item struct {
	Metadata attr.Value `json:"metadata"`
	Slug     string     `json:"slug"`
	Content  *string    `json:"content,omitempty"`
}

// Title returns the item's display title: metadata name, then title, then the slug.
func (i Item) Title() string {
	for _, key := range []string{"name", "title"} {
		if v, ok := i.Metadata.Get(key); ok {
			if s, ok := v.AsString(); ok && s != "" {
				return s
			}
		}
	}
	return i.Slug
}
