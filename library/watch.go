// ABOUTME: Watches the export directory for new or rewritten library exports
// ABOUTME: Wait blocks until a *.txt export settles so callers can re-import

package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const settleDelay = 300 * time.Millisecond

var ErrWatcherClosed = errors.New("export watcher closed")

// Watcher reports changes to export files in one directory
type Watcher struct {
	dir     string
	watcher *fsnotify.Watcher
}

// NewWatcher starts watching dir
func NewWatcher(dir string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()

		return nil, fmt.Errorf("failed to watch export dir: %w", err)
	}

	return &Watcher{dir: dir, watcher: watcher}, nil
}

// Dir returns the watched directory
func (w *Watcher) Dir() string {
	return w.dir
}

// Wait blocks until an export file is created or written and no further
// changes arrive for a short settle period. DJ software writes exports in
// several chunks.
func (w *Watcher) Wait(ctx context.Context) error {
	var settle <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return ErrWatcherClosed
			}

			if isExportChange(event) {
				settle = time.After(settleDelay)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return ErrWatcherClosed
			}

			slog.Warn("export watcher error", "dir", w.dir, "error", err)

		case <-settle:
			return nil
		}
	}
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func isExportChange(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), ".txt") {
		return false
	}

	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
