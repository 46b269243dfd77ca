package store

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchFile reloads after writes to path. The parent directory is watched so
// editors that replace the file by rename are still seen. Sidecar files of
// SQLite (-wal, -journal) count as changes to the database.
func (s *Store) watchFile(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating snapshot watcher: %w", err)
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching snapshot dir: %w", err)
	}
	s.logger.Debug("watching snapshot file", "path", path, "debounce", s.debounce)

	relevant := map[string]bool{
		path:              true,
		path + "-wal":     true,
		path + "-journal": true,
	}

	timer := time.NewTimer(s.debounce)
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
			if !relevant[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(s.debounce)

		case <-timer.C:
			_, _ = s.Load(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("snapshot watcher error", "error", err)
		}
	}
}
