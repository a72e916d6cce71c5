package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/natefinch/atomic"

	"github.com/starford/vedacontent/internal/content"
	"github.com/starford/vedacontent/internal/models"
)

// Bundle is the JSON document written by Build.
type Bundle struct {
	Stories      []content.Item         `json:"stories"`
	Datasets     []content.Item         `json:"datasets"`
	DatasetsList []content.DatasetEntry `json:"datasetsList"`
}

// Collect reads and processes both collections once.
func Collect(ctx context.Context, src *content.Source, full bool) (*Bundle, error) {
	stories, err := src.List(ctx, models.Stories, full)
	if err != nil {
		return nil, err
	}
	datasets, err := src.List(ctx, models.Datasets, full)
	if err != nil {
		return nil, err
	}
	return &Bundle{
		Stories:      stories,
		Datasets:     datasets,
		DatasetsList: content.TransformToDatasetsList(datasets),
	}, nil
}

// Build processes every story and dataset and writes the bundle as JSON.
// The output file is replaced atomically.
func Build(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(cfg, os.Stderr)

	src, err := newSource(cfg, logger)
	if err != nil {
		return err
	}

	bundle, err := Collect(ctx, src, app.full)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("build: encode: %w", err)
	}
	data = append(data, '\n')

	if app.output == "-" {
		w := app.stdout
		if w == nil {
			w = os.Stdout
		}
		_, err = w.Write(data)
		return err
	}

	if err := atomic.WriteFile(app.output, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("build: write %s: %w", app.output, err)
	}

	logger.Info("build: done",
		slog.String("output", app.output),
		slog.Int("stories", len(bundle.Stories)),
		slog.Int("datasets", len(bundle.Datasets)),
		slog.Bool("full", app.full),
	)
	return nil
}
