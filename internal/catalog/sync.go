package catalog

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/starford/vedacontent/internal/content"
	"github.com/starford/vedacontent/internal/models"
	"github.com/starford/vedacontent/internal/storage"
)

// Event kinds passed to EventCallback.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// EventCallback is called after a watcher-driven catalog change.
type EventCallback func(kind string, c models.Collection, slug string)

// Sync walks both content directories and brings the catalog up to date:
//   - new/changed files are processed and upserted
//   - files removed from disk are deleted from the catalog
//
// A file that fails to process is logged and skipped; a missing content
// directory counts as empty.
func Sync(ctx context.Context, db *DB, src *content.Source, logger *slog.Logger) error {
	return syncCollections(ctx, db, src, logger, nil)
}

func syncCollections(ctx context.Context, db *DB, src *content.Source, logger *slog.Logger, cb EventCallback) error {
	for _, c := range models.Collections {
		if err := syncCollection(ctx, db, src, c, logger, cb); err != nil {
			return err
		}
	}
	return nil
}

func syncCollection(ctx context.Context, db *DB, src *content.Source, c models.Collection, logger *slog.Logger, cb EventCallback) error {
	metas, err := src.Files(c)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("sync: content dir missing", slog.String("collection", string(c)), slog.String("error", err.Error()))
		metas, err = nil, nil
	}
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums(c)
	if err != nil {
		return err
	}

	var indexed, removed int
	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		if err := ctx.Err(); err != nil {
			return err
		}
		disk[m.Slug] = struct{}{}

		data, err := src.Store().Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		sum := storage.Checksum(data)
		old, known := checksums[m.Slug]
		if known && old == sum {
			continue
		}
		if err := indexData(db, src, c, m, data, sum); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		indexed++
		logger.Debug("sync: indexed", slog.String("path", m.Path))
		if cb != nil {
			kind := EventUpdated
			if !known {
				kind = EventCreated
			}
			cb(kind, c, m.Slug)
		}
	}

	// Remove stale entries.
	for slug := range checksums {
		if _, ok := disk[slug]; ok {
			continue
		}
		if err := db.Delete(c, slug); err != nil {
			logger.Warn("sync: delete failed", slog.String("slug", slug), slog.String("error", err.Error()))
			continue
		}
		removed++
		logger.Debug("sync: removed stale", slog.String("collection", string(c)), slog.String("slug", slug))
		if cb != nil {
			cb(EventDeleted, c, slug)
		}
	}

	logger.Info("sync: done",
		slog.String("collection", string(c)),
		slog.Int("files", len(metas)),
		slog.Int("indexed", indexed),
		slog.Int("removed", removed),
	)
	return nil
}

// indexFile reads, processes and upserts one file.
func indexFile(db *DB, src *content.Source, c models.Collection, m models.FileMeta) error {
	data, err := src.Store().Read(m.Path)
	if err != nil {
		return err
	}
	return indexData(db, src, c, m, data, storage.Checksum(data))
}

// indexData processes already-read bytes and upserts them with their checksum.
func indexData(db *DB, src *content.Source, c models.Collection, m models.FileMeta, data []byte, sum string) error {
	item, err := src.Decode(m.Path, m.Slug, data, true)
	if err != nil {
		return err
	}
	updated := m.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	return db.Upsert(Row{
		Collection: c,
		Item:       item,
		Checksum:   sum,
		UpdatedAt:  updated,
	})
}
