package library

import (
	"context"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
)

// Watcher tracks filesystem changes under registered media files and
// keeps their presence flags in sync. A removed or renamed file is
// marked absent; a file reappearing at a known path is marked present.
type Watcher struct {
	service LibraryService
	fsw     *fsnotify.Watcher
	logger  *slog.Logger
}

func NewWatcher(service LibraryService, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{service: service, fsw: fsw, logger: logger}, nil
}

// Add registers a directory to watch. Media files live in arbitrary
// user directories, so callers add the parent dir of each registered
// file rather than a fixed root.
func (w *Watcher) Add(dir string) error {
	return w.fsw.Add(dir)
}

// Run processes filesystem events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ctx, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("watcher error", "error", err)
			}
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		if err := w.service.MarkPresent(ctx, event.Name, false); err != nil && w.logger != nil {
			w.logger.Warn("failed to mark media absent", "path", event.Name, "error", err)
		}
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		if _, err := os.Stat(event.Name); err != nil {
			return
		}
		if err := w.service.MarkPresent(ctx, event.Name, true); err != nil && w.logger != nil {
			w.logger.Warn("failed to mark media present", "path", event.Name, "error", err)
		}
	}
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}
