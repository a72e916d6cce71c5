// Package content composes file enumeration, front-matter parsing and
// attribute post-processing into the story and dataset accessors.
package content

import (
	"github.com/starford/vedacontent/internal/attr"
	"github.com/starford/vedacontent/internal/models"
	"github.com/starford/vedacontent/internal/taxonomy"
	"github.com/starford/vedacontent/internal/transform"
)

// Item is one processed content file.
type Item = models.Item

// Pipeline is the per-file metadata processing chain:
// ParseAttributes, then AddBasePath, then taxonomy normalisation.
type Pipeline struct {
	Transformer *transform.Transformer
	// BasePath is prefixed to root-relative links. Empty disables rewriting.
	BasePath string
}

// Process runs the chain on one raw front-matter map.
func (p Pipeline) Process(raw attr.Value) (attr.Value, error) {
	parsed, err := p.Transformer.ParseAttributes(raw)
	if err != nil {
		return attr.Value{}, err
	}
	return taxonomy.Process(transform.AddBasePath(parsed, p.BasePath))
}
