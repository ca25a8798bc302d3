// Package watch reports changes to the markdown notes in a working folder.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/memopad/internal/pathguard"
)

// Event kinds passed to a Callback.
const (
	Created = "created"
	Updated = "updated"
	Deleted = "deleted"
)

// Callback receives the kind of change and the absolute note path.
type Callback func(kind string, path string)

// Watch observes folder (not its subdirectories) until ctx is cancelled and
// calls cb for every markdown file that is created, written, removed or
// renamed away. A rename shows up as Deleted for the old name and Created for
// the new one when it lands in the same folder.
func Watch(ctx context.Context, folder string, logger *slog.Logger, cb Callback) error {
	info, err := os.Stat(folder)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("watch: not a directory: %s", folder)
	}
	dir, err := filepath.Abs(folder)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("folder", dir))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped", slog.String("folder", dir))
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Dir(ev.Name) != dir || !pathguard.IsMarkdownFile(ev.Name) {
				continue
			}
			kind := kindOf(ev)
			if kind == "" {
				continue
			}
			if kind != Deleted {
				if fi, err := os.Stat(ev.Name); err != nil || !fi.Mode().IsRegular() {
					continue
				}
			}
			logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", kind))
			if cb != nil {
				cb(kind, ev.Name)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func kindOf(ev fsnotify.Event) string {
	switch {
	case ev.Op&fsnotify.Create != 0:
		return Created
	case ev.Op&fsnotify.Write != 0:
		return Updated
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		return Deleted
	}
	return ""
}
