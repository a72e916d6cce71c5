// Package transform post-processes parsed front-matter trees: marker
// rendering, layer back-references and base path link rewriting.
package transform

import (
	"fmt"
	"strings"

	"github.com/starford/vedacontent/internal/apperr"
	"github.com/starford/vedacontent/internal/attr"
	"github.com/starford/vedacontent/internal/markdown"
)

// Value markers recognised in string attributes.
const (
	MarkdownMarker = "::markdown"
	ScriptMarker   = "::js"
)

// MarkerMatch selects how a marker is detected in a string value.
type MarkerMatch int

const (
	// MarkerContains triggers on the marker anywhere in the value. Only a
	// leading marker is stripped, so a mid-value marker stays in the output.
	MarkerContains MarkerMatch = iota
	// MarkerPrefix triggers only when the value starts with the marker.
	MarkerPrefix
)

// ParseMarkerMatch maps a config string to a MarkerMatch.
func ParseMarkerMatch(s string) (MarkerMatch, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "contains":
		return MarkerContains, nil
	case "prefix":
		return MarkerPrefix, nil
	default:
		return MarkerContains, fmt.Errorf("unknown marker match %q", s)
	}
}

var newlines = strings.NewReplacer("\r\n", "", "\n", "", "\r", "")

// Transformer converts marked string values and injects layer back-references.
type Transformer struct {
	renderer markdown.Renderer
	match    MarkerMatch
}

// NewTransformer returns a Transformer rendering `::markdown` values with r.
func NewTransformer(r markdown.Renderer, match MarkerMatch) *Transformer {
	return &Transformer{renderer: r, match: match}
}

// ParseAttributes returns a transformed copy of the attribute map v:
//   - every element of a truthy `layers` list gains parentDataset: {id: <v.id>};
//   - strings containing `::markdown` are rendered to HTML with newlines removed;
//   - strings containing `::js` have literal `\n` sequences turned into newlines.
//
// Errors wrap apperr.ErrTransform.
func (t *Transformer) ParseAttributes(v attr.Value) (attr.Value, error) {
	data, err := withParentDataset(v)
	if err != nil {
		return attr.Value{}, err
	}
	return t.convert(data, "")
}

func withParentDataset(v attr.Value) (attr.Value, error) {
	layers, ok := v.Get("layers")
	if !ok || !layers.Truthy() {
		return v, nil
	}
	if layers.Kind() != attr.KindList {
		return attr.Value{}, fmt.Errorf("%w: layers is a %s, want list", apperr.ErrTransform, layers.Kind())
	}

	id, ok := v.Get("id")
	if !ok {
		id = attr.Null()
	}
	parent := attr.Map(attr.Pair{Key: "id", Value: id})

	items := layers.Items()
	out := make([]attr.Value, len(items))
	for i, layer := range items {
		switch layer.Kind() {
		case attr.KindMap:
			out[i] = layer.With("parentDataset", parent)
		case attr.KindNull:
			out[i] = attr.Map(attr.Pair{Key: "parentDataset", Value: parent})
		default:
			return attr.Value{}, fmt.Errorf("%w: layers[%d] is a %s, want map", apperr.ErrTransform, i, layer.Kind())
		}
	}
	return v.With("layers", attr.List(out...)), nil
}

func (t *Transformer) convert(v attr.Value, path string) (attr.Value, error) {
	switch v.Kind() {
	case attr.KindString:
		s, _ := v.AsString()
		out, err := t.convertString(s)
		if err != nil {
			return attr.Value{}, fmt.Errorf("%w: %s: %w", apperr.ErrTransform, displayPath(path), err)
		}
		return attr.String(out), nil
	case attr.KindList:
		items := v.Items()
		out := make([]attr.Value, len(items))
		for i, item := range items {
			c, err := t.convert(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return attr.Value{}, err
			}
			out[i] = c
		}
		return attr.List(out...), nil
	case attr.KindMap:
		pairs := v.Pairs()
		for i, p := range pairs {
			c, err := t.convert(p.Value, joinPath(path, p.Key))
			if err != nil {
				return attr.Value{}, err
			}
			pairs[i].Value = c
		}
		return attr.Map(pairs...), nil
	default:
		return v, nil
	}
}

func (t *Transformer) convertString(s string) (string, error) {
	switch {
	case t.hasMarker(s, MarkdownMarker):
		html, err := t.renderer.Render(stripMarker(s, MarkdownMarker))
		if err != nil {
			return "", err
		}
		return newlines.Replace(html), nil
	case t.hasMarker(s, ScriptMarker):
		return strings.ReplaceAll(stripMarker(s, ScriptMarker), `\n`, "\n"), nil
	default:
		return s, nil
	}
}

func (t *Transformer) hasMarker(s, marker string) bool {
	if t.match == MarkerPrefix {
		return strings.HasPrefix(s, marker)
	}
	return strings.Contains(s, marker)
}

// stripMarker removes a leading marker and at most one following space.
func stripMarker(s, marker string) string {
	rest, ok := strings.CutPrefix(s, marker)
	if !ok {
		return s
	}
	return strings.TrimPrefix(rest, " ")
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func displayPath(p string) string {
	if p == "" {
		return "(root)"
	}
	return p
}
