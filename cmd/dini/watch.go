package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// fileWatcher reports changes to a fixed set of files. It watches their
// directories rather than the files themselves, so that editors which
// save by renaming a new file into place are still seen.
type fileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	files    map[string]bool
	debounce time.Duration
}

func newFileWatcher(paths []string, logger *slog.Logger) (*fileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	fw := &fileWatcher{
		watcher:  watcher,
		logger:   logger,
		files:    map[string]bool{},
		debounce: 100 * time.Millisecond,
	}

	dirs := map[string]bool{}
	for _, path := range paths {
		if path == "-" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			watcher.Close()
			return nil, err
		}
		fw.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch %q: %w", dir, err)
		}
		dirs[dir] = true
		logger.Debug("watching directory", "path", dir)
	}
	return fw, nil
}

// Run calls onChange with the files that changed, once events have been
// quiet for the debounce interval. It blocks until ctx is cancelled.
func (fw *fileWatcher) Run(ctx context.Context, onChange func(changed []string)) error {
	fw.logger.Info("watching files", "count", len(fw.files), "debounce_ms", fw.debounce.Milliseconds())

	pending := map[string]bool{}
	timer := time.NewTimer(fw.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("stopped watching")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Chmod == fsnotify.Chmod || !fw.files[event.Name] {
				continue
			}
			fw.logger.Debug("file event", "path", event.Name, "op", event.Op.String())
			pending[event.Name] = true
			timer.Reset(fw.debounce)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			fw.logger.Error("watcher error", "error", err)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			slices.Sort(changed)
			clear(pending)
			onChange(changed)
		}
	}
}

func (fw *fileWatcher) Close() error {
	return fw.watcher.Close()
}
