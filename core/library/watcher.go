package library

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"ShellFM/logger"
)

// Watcher rescans the library whenever audio files appear under the music
// directory. Events are debounced so that bulk copies trigger one scan.
type Watcher struct {
	scanner  *Scanner
	root     string
	debounce time.Duration
}

// NewWatcher creates a Watcher over root. A non-positive debounce defaults
// to two seconds.
func NewWatcher(scanner *Scanner, root string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &Watcher{scanner: scanner, root: root, debounce: debounce}
}

// Watch blocks until ctx is done, scheduling a scan after each burst of
// relevant filesystem events. Newly created directories are added to the
// watch set so nested copies are picked up.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addRecursive(watcher, w.root); err != nil {
		return fmt.Errorf("failed to watch music directory %s: %w", w.root, err)
	}
	logger.Info("watching music directory", logger.String("root", w.root))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("watcher event",
				logger.String("op", event.Op.String()),
				logger.String("path", event.Name))

			// A new directory must be watched before its contents
			// generate events of their own.
			if event.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := addRecursive(watcher, event.Name); err != nil {
						logger.Debug("could not extend watch set", logger.ErrorField(err))
					}
				}
			}

			if IsAudioFile(event.Name) || event.Op&fsnotify.Create != 0 {
				timer.Reset(w.debounce)
			}

		case <-timer.C:
			if _, err := w.scanner.Scan(w.root); err != nil {
				logger.Error("scheduled rescan failed", logger.ErrorField(err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", logger.ErrorField(err))
		}
	}
}

// addRecursive watches path and every directory below it.
func addRecursive(watcher *fsnotify.Watcher, path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, same as during scans.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		return watcher.Add(p)
	})
}
