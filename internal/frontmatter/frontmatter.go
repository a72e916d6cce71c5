// Package frontmatter splits content files into a structured header and a body.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/adrg/frontmatter"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/starford/vedacontent/internal/apperr"
	"github.com/starford/vedacontent/internal/attr"
)

// Document is a parsed content file.
type Document struct {
	// Attributes is always a map value; files without a header yield an empty map.
	Attributes attr.Value
	Body       string
}

var formats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", unmarshalYAML),
	frontmatter.NewFormat("+++", "+++", unmarshalTOML),
}

// Parse extracts the header (YAML between `---` fences or TOML between `+++`
// fences) and the body from data. The opening fence must be the first line of
// the file; otherwise the whole file is body. A malformed or unterminated
// header yields apperr.ErrParse.
func Parse(data []byte) (*Document, error) {
	if !opensHeader(data) {
		return &Document{Attributes: attr.Map(), Body: string(data)}, nil
	}
	var attrs attr.Value
	body, err := frontmatter.Parse(bytes.NewReader(data), &attrs, formats...)
	if err != nil {
		return nil, fmt.Errorf("%w: frontmatter: %w", apperr.ErrParse, err)
	}
	// No closing fence: the parser hands the input back untouched.
	if bytes.Equal(body, data) {
		return nil, fmt.Errorf("%w: frontmatter: unterminated header", apperr.ErrParse)
	}
	if attrs.Kind() != attr.KindMap {
		attrs = attr.Map()
	}
	return &Document{Attributes: attrs, Body: string(body)}, nil
}

// opensHeader reports whether the first line of data is exactly a `---` or `+++` fence.
func opensHeader(data []byte) bool {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	line = bytes.TrimRight(line, " \t\r")
	return string(line) == "---" || string(line) == "+++"
}

var errNotMapping = errors.New("header is not a mapping")

func unmarshalYAML(data []byte, v any) error {
	target, ok := v.(*attr.Value)
	if !ok {
		return fmt.Errorf("unexpected target %T", v)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	val, err := attr.FromYAML(&node)
	if err != nil {
		return err
	}
	return assign(target, val)
}

func unmarshalTOML(data []byte, v any) error {
	target, ok := v.(*attr.Value)
	if !ok {
		return fmt.Errorf("unexpected target %T", v)
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return err
	}
	val, err := attr.FromAny(raw)
	if err != nil {
		return err
	}
	return assign(target, val)
}

func assign(target *attr.Value, val attr.Value) error {
	switch val.Kind() {
	case attr.KindNull:
		*target = attr.Map()
	case attr.KindMap:
		*target = val
	default:
		return fmt.Errorf("%w (got %s)", errNotMapping, val.Kind())
	}
	return nil
}
