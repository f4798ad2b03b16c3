package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce settles bursts of events from editors that truncate,
// write and rename in quick succession.
const DefaultDebounce = 200 * time.Millisecond

// File watches the document at path until ctx is cancelled, invoking fn
// once per settled change. A non-positive debounce uses DefaultDebounce.
func File(ctx context.Context, log *slog.Logger, path string, debounce time.Duration, fn func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	target := filepath.Clean(path)

	var settle <-chan time.Time

	log.Info("watching document", slog.String("file", path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != target {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}

			settle = time.After(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.Warn("watch error", slog.Any("err", err))

		case <-settle:
			settle = nil
			fn()
		}
	}
}
