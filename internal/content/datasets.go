package content

import (
	"github.com/starford/vedacontent/internal/attr"
)

// DatasetEntry is the flattened dataset list view of a dataset item.
// It encodes to JSON as a single flat object.
type DatasetEntry struct {
	attr.Value
}

// TransformToDatasetsList flattens dataset items into list entries: the
// metadata map with id defaulted to the slug, slug added, layers defaulted
// to an empty list and content copied when the item carries a body.
func TransformToDatasetsList(items []Item) []DatasetEntry {
	out := make([]DatasetEntry, 0, len(items))
	for _, item := range items {
		out = append(out, DatasetEntry{Value: datasetEntry(item)})
	}
	return out
}

func datasetEntry(item Item) attr.Value {
	v := item.Metadata
	if v.Kind() != attr.KindMap {
		v = attr.Map()
	}
	if id, ok := v.Get("id"); !ok || id.IsNull() {
		v = v.With("id", attr.String(item.Slug))
	}
	v = v.With("slug", attr.String(item.Slug))
	if layers, ok := v.Get("layers"); !ok || !layers.Truthy() {
		v = v.With("layers", attr.List())
	}
	if item.Content != nil {
		v = v.With("content", attr.String(*item.Content))
	}
	return v
}
