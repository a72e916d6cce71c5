package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/vedacontent/internal/catalog"
	"github.com/starford/vedacontent/internal/contentservice"
	"github.com/starford/vedacontent/internal/mcpserver"
)

// RunMCP serves the MCP tools over stdio. Logs go to stderr since stdout
// carries the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
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

	db, err := catalog.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init catalog: %w", err)
	}
	defer db.Close()

	if err := catalog.Sync(ctx, db, src, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := catalog.Watch(watchCtx, db, src, logger, nil); err != nil {
			logger.Error("watcher failed", slog.String("error", err.Error()))
		}
	}()

	logger.Info("MCP server starting on stdio", slog.String("content_root", cfg.Content.Root))
	return mcpserver.New(contentservice.NewService(src, db), app.version).ServeStdio()
}
