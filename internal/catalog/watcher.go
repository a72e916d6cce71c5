package catalog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/vedacontent/internal/content"
	"github.com/starford/vedacontent/internal/models"
)

const reconcileDelay = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the content root and both content
// directories and processes file change events until ctx is cancelled. It
// calls cb (if non-nil) after each successful catalog mutation.
//
// Content directories created at runtime are added to the watch list.
// Rename events trigger a reconciliation pass that removes stale catalog
// entries whose files no longer exist on disk.
func Watch(ctx context.Context, db *DB, src *content.Source, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	root := src.Store().Root()
	dirs := make(map[string]models.Collection, len(models.Collections))
	for _, c := range models.Collections {
		dirs[filepath.Join(root, filepath.FromSlash(src.Dir(c)))] = c
	}

	if err := w.Add(root); err != nil {
		return err
	}
	for dir := range dirs {
		if info, statErr := os.Stat(dir); statErr == nil && info.IsDir() {
			if err := w.Add(dir); err != nil {
				return err
			}
		}
	}

	logger.Info("watcher: started", slog.String("root", root))

	// reconcileTimer is used to debounce rename reconciliation.
	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(reconcileDelay)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(reconcileDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			if err := syncCollections(ctx, db, src, logger, cb); err != nil {
				logger.Warn("reconcile: failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			// A content directory appeared (or was replaced): watch it and pick up its files.
			if _, isDir := dirs[ev.Name]; isDir {
				if ev.Op&fsnotify.Create != 0 {
					if addErr := w.Add(ev.Name); addErr != nil {
						logger.Warn("watcher: add dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
				}
				scheduleReconcile()
				continue
			}

			c, ok := dirs[filepath.Dir(ev.Name)]
			if !ok || filepath.Ext(ev.Name) != src.Ext() {
				continue
			}
			slug := strings.TrimSuffix(filepath.Base(ev.Name), src.Ext())
			rel := filepath.ToSlash(filepath.Join(src.Dir(c), filepath.Base(ev.Name)))

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				info, statErr := os.Stat(ev.Name)
				if statErr != nil || info.IsDir() {
					continue
				}
				meta := models.FileMeta{Path: rel, Slug: slug, UpdatedAt: info.ModTime()}
				if idxErr := indexFile(db, src, c, meta); idxErr != nil {
					logger.Warn("watcher: index failed", slog.String("path", rel), slog.String("error", idxErr.Error()))
					continue
				}
				kind := EventUpdated
				if ev.Op&fsnotify.Create != 0 {
					kind = EventCreated
				}
				logger.Debug("watcher: indexed", slog.String("path", rel), slog.String("op", kind))
				if cb != nil {
					cb(kind, c, slug)
				}

			case ev.Op&fsnotify.Remove != 0:
				if delErr := db.Delete(c, slug); delErr != nil {
					logger.Warn("watcher: delete failed", slog.String("path", rel), slog.String("error", delErr.Error()))
					continue
				}
				logger.Debug("watcher: deleted", slog.String("path", rel))
				if cb != nil {
					cb(EventDeleted, c, slug)
				}

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the old path only; the new path
				// arrives as a separate Create when it stays in a watched dir.
				if delErr := db.Delete(c, slug); delErr != nil {
					logger.Warn("watcher: rename delete failed", slog.String("path", rel), slog.String("error", delErr.Error()))
				} else {
					logger.Debug("watcher: rename old deleted", slog.String("path", rel))
					if cb != nil {
						cb(EventDeleted, c, slug)
					}
				}
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
