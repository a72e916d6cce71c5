// Package markdown renders Markdown fragments found in front-matter values to HTML.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns a Markdown source string into HTML.
type Renderer interface {
	Render(src string) (string, error)
}

// Options configures the goldmark engine.
type Options struct {
	// Extensions names goldmark extensions to enable. Empty means the
	// CommonMark core plus tables and strikethrough.
	Extensions []string
	// HardWraps renders soft line breaks as <br>.
	HardWraps bool
	// AllowHTML passes raw HTML through instead of omitting it.
	AllowHTML bool
}

// Goldmark implements Renderer. It is safe for concurrent use.
type Goldmark struct {
	md goldmark.Markdown
}

// NewRenderer builds a goldmark-backed renderer. Unknown extension names are ignored.
func NewRenderer(opts Options) *Goldmark {
	var rendererOptions []renderer.Option
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.AllowHTML {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithExtensions(collectExtensions(opts.Extensions)...),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}

	return &Goldmark{md: goldmark.New(engineOptions...)}
}

// Render converts src to HTML.
func (g *Goldmark) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return buf.String(), nil
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.Table, extension.Strikethrough}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		extenders = append(extenders, ext)
	}
	return extenders
}
