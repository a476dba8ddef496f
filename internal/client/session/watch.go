package session

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

type storageWatcher struct {
	w    *fsnotify.Watcher
	base string
}

// newStorageWatcher watches the directory holding the storage file. SQLite
// writes through companion files, so events are matched by name prefix.
func newStorageWatcher(path string) (*storageWatcher, error) {
	if path == ":memory:" || strings.HasPrefix(path, "file::memory:") {
		return nil, fmt.Errorf("in-memory storage cannot be watched")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &storageWatcher{w: w, base: filepath.Base(abs)}, nil
}

func (s *storageWatcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return strings.HasPrefix(filepath.Base(ev.Name), s.base)
}

func (m *Manager) watch(ctx context.Context, sw *storageWatcher) {
	defer m.wg.Done()
	defer func() { _ = sw.w.Close() }()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sw.w.Events:
			if !ok {
				return
			}
			if sw.relevant(ev) {
				m.log.Debug(ctx, "storage changed", "file", ev.Name, "op", ev.Op.String())
				_ = m.Check(ctx)
			}
		case err, ok := <-sw.w.Errors:
			if !ok {
				return
			}
			m.log.Warn(ctx, "storage watch error", "error", err)
		}
	}
}
