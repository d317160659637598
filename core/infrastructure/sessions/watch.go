package sessions

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 500 * time.Millisecond

// Watch reloads the snapshot at path whenever it changes, until ctx is done.
// The parent directory is watched so editors that replace the file on save
// are picked up too. A snapshot that fails to load is logged and the
// previous sessions stay active.
func (m *Manager) Watch(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return err
	}

	reload := make(chan struct{}, 1)
	go func() {
		defer watcher.Close()

		var debounce *time.Timer
		defer func() {
			if debounce != nil {
				debounce.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(reloadDebounce, func() {
					select {
					case reload <- struct{}{}:
					default:
					}
				})
			case <-reload:
				if err := m.Reload(abs); err != nil {
					m.log.Errorf("Snapshot reload failed, keeping previous sessions: %v", err)
					continue
				}
				m.log.Infof("Snapshot reloaded (%d session(s))", m.Count())
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				m.log.Warnf("Snapshot watcher error: %v", err)
			}
		}
	}()

	m.log.Infof("Watching %s for changes", abs)
	return nil
}
