package file

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/khanhduydev/portfolio-rag/internal/core/domain"
	"github.com/khanhduydev/portfolio-rag/internal/logger"
)

// debounceWindow coalesces editor save bursts into a single reload.
const debounceWindow = 250 * time.Millisecond

// Watcher reloads a settings store when its config file changes on disk and
// notifies a callback with the fresh settings.
type Watcher struct {
	store    *SettingsStore
	watcher  *fsnotify.Watcher
	onReload func(domain.Settings)
	done     chan struct{}
}

// NewWatcher starts watching the store's config file. onReload is invoked
// from the watcher goroutine after each successful reload.
func NewWatcher(store *SettingsStore, onReload func(domain.Settings)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory rather than the file: editors replace files on
	// save, which would otherwise drop the watch.
	if err := fsWatcher.Add(filepath.Dir(store.Path())); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{
		store:    store,
		watcher:  fsWatcher,
		onReload: onReload,
		done:     make(chan struct{}),
	}
	go w.loop()

	return w, nil
}

// loop processes filesystem events until Close is called.
func (w *Watcher) loop() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.store.Path() {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(debounceWindow)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("config watcher error: %v", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// reload re-reads the config file and notifies the callback.
func (w *Watcher) reload() {
	if err := w.store.Reload(); err != nil {
		logger.Warn("config reload failed: %v", err)
		return
	}
	logger.Debug("Config reloaded from %s", w.store.Path())
	if w.onReload != nil {
		w.onReload(w.store.Settings())
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
