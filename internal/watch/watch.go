// Package watch implements `validate --watch` (SPEC_FULL.md §5
// expansion; the per-target emit subcommands have no --watch flag):
// re-running the same single-threaded
// pipeline synchronously on every write to the watched schema file,
// grounded in the teacher's fsnotify-based live reload.
package watch

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Run watches path and calls run once immediately, then again after every
// write or create event on path, until the watcher's event or error
// channel is closed. Watcher errors and run's error are logged, never
// fatal — a bad edit does not end the watch loop.
func Run(path string, log *slog.Logger, run func() error) error {
	if log == nil {
		log = slog.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return err
	}

	if err := run(); err != nil {
		log.Error("validate failed", "error", err)
	}

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			log.Info("schema changed, revalidating", "path", path)
			if err := run(); err != nil {
				log.Error("validate failed", "error", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error("watch error", "error", err)
		}
	}
}
