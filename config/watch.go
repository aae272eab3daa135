package config

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the store whenever the config file changes on disk.
// It complements the in-game reload chord: edits from an external editor
// take effect without touching the game.
type Watcher struct {
	watcher *fsnotify.Watcher
	closeCh chan struct{}
	once    sync.Once
}

// Watch starts watching the config file at path. Events are debounced,
// and reload failures keep the previous config active (the store's
// guarantee), surfaced only through the log.
func Watch(path string, store *Store, log *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory, not the file: editors that write via
	// rename-over would otherwise drop the watch.
	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		closeCh: make(chan struct{}),
	}
	go w.run(filepath.Base(path), store, log)
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run(name string, store *Store, log *slog.Logger) {
	var lastReload time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Editors fire bursts of events per save; one reload is enough.
			if time.Since(lastReload) < 100*time.Millisecond {
				continue
			}
			lastReload = time.Now()

			if err := store.Reload(); err != nil {
				log.Warn("config file changed but reload failed, keeping previous config", "error", err)
			} else {
				log.Info("config reloaded from file change", "file", event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("config watcher error", "error", err)
		case <-w.closeCh:
			return
		}
	}
}
