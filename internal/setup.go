package internal

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/starford/vedacontent/internal/content"
	"github.com/starford/vedacontent/internal/markdown"
	"github.com/starford/vedacontent/internal/storage"
	"github.com/starford/vedacontent/internal/transform"
)

// newLogger builds the structured JSON logger and installs it as default.
func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// newSource wires storage, renderer, transformer and pipeline for cfg.
func newSource(cfg *Config, logger *slog.Logger) (*content.Source, error) {
	store, err := storage.NewFS(cfg.Content.Root)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	match, err := transform.ParseMarkerMatch(cfg.Content.MarkerMatch)
	if err != nil {
		return nil, err
	}
	tr := transform.NewTransformer(markdown.NewRenderer(cfg.Markdown.Options()), match)
	pipeline := content.Pipeline{Transformer: tr, BasePath: cfg.Site.BasePath}
	return content.NewSource(store, cfg.Content.Dirs(), pipeline, logger), nil
}
