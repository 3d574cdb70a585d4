package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hamr-launcher/hamrd/internal/logging"
)

// reloadDebounce absorbs editors that rewrite a file as several rapid
// operations (truncate, write, rename-into-place) into a single reload.
const reloadDebounce = 300 * time.Millisecond

// Watcher watches a config file for changes and delivers debounced,
// successfully-parsed Config values on Changes(). The debounce-timer shape
// (guard mutex + timer + stop-and-drain-before-reset) is grounded on the
// pack's fsnotify-based FileProvider.scheduleReload.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	ch      chan Config
	closeCh chan struct{}

	debounceMu    sync.Mutex
	debounceTimer *time.Timer

	wg sync.WaitGroup
}

// NewWatcher starts watching the directory containing path (fsnotify
// watches directories, not individual files, so renames-into-place are
// observed) and returns a Watcher delivering reloaded Config values.
func NewWatcher(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	watcher := &Watcher{
		path:    path,
		watcher: w,
		ch:      make(chan Config, 1),
		closeCh: make(chan struct{}),
	}
	watcher.wg.Add(1)
	go watcher.loop()
	return watcher, nil
}

// Changes returns the channel of successfully-reloaded configs. Reloads
// that fail to parse are logged and dropped, per spec §7 ConfigError
// ("log, keep prior config") -- nothing is ever sent for a bad reload.
func (w *Watcher) Changes() <-chan Config { return w.ch }

// Close stops the watcher and its background goroutine.
func (w *Watcher) Close() {
	close(w.closeCh)
	w.wg.Wait()
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	defer w.watcher.Close()
	defer w.stopDebounce()

	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			switch {
			case ev.Op&(fsnotify.Write|fsnotify.Create) != 0:
				w.scheduleReload()
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// File disappearing mid-edit is common with atomic-rename
				// editors; a subsequent Create will trigger the reload.
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Config().Error().Err(err).Msg("config file watcher error")
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) stopDebounce() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	if w.debounceTimer != nil {
		if !w.debounceTimer.Stop() {
			select {
			case <-w.debounceTimer.C:
			default:
			}
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		if !w.debounceTimer.Stop() {
			select {
			case <-w.debounceTimer.C:
			default:
			}
		}
	}
	w.debounceTimer = time.AfterFunc(reloadDebounce, w.doReload)
}

func (w *Watcher) doReload() {
	cfg, err := Load(w.path)
	if err != nil {
		logging.Config().Warn().Err(err).Str("path", w.path).Msg("config reload failed, keeping prior config")
		return
	}
	select {
	case w.ch <- cfg:
	default:
		// Drain the stale pending value before delivering the fresh one so
		// Changes() never blocks a slow consumer for more than one reload.
		select {
		case <-w.ch:
		default:
		}
		w.ch <- cfg
	}
}
