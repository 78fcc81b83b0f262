package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

// reloadQuiet coalesces the bursts of fsnotify events editors produce
// when saving a file.
const reloadQuiet = 200 * time.Millisecond

// ReloadFunc is called with the freshly loaded configuration after the
// watched file changes. It runs on the watcher goroutine.
type ReloadFunc func(*Config)

// Watcher reloads the configuration file when it changes on disk.
// Only the settings that are safe to change mid-session should be applied
// by the reload callback; a reload never disturbs an active session's
// captured state.
type Watcher struct {
	path     string
	onReload ReloadFunc
	log      commonlog.Logger

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	pending *time.Timer
	closed  bool
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string, onReload ReloadFunc) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory rather than the file: editors that replace on
	// save (rename + create) would otherwise silently drop the watch.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		onReload: onReload,
		log:      commonlog.GetLogger("narrowd.config"),
		fsw:      fsw,
	}

	go w.loop()
	return w, nil
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.pending != nil {
		w.pending.Stop()
	}
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.scheduleReload()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warningf("watch error: %v", err)
		}
	}
}

// scheduleReload debounces reloads across the event burst of a save.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(reloadQuiet, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.log.Warningf("config reload failed, keeping previous settings: %v", err)
		return
	}
	w.log.Infof("config reloaded from %s", w.path)
	w.onReload(cfg)
}
