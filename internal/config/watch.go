package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/SYK-08/vscode-neovim/internal/debounce"

	"github.com/fsnotify/fsnotify"
)

// watchSettle coalesces the event bursts editors emit per save into a
// single reload.
const watchSettle = 100 * time.Millisecond

// Watch starts reloading the settings file when it changes. The watch
// covers the file's directory: editors that save by rename would
// otherwise drop a watch set on the file itself. No-op without a path
// or when already watching.
func (c *Config) Watch() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.path == "" || c.watcher != nil {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	dir := filepath.Dir(c.path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("config: watch %s: %w", dir, err)
	}

	c.watcher = w
	c.reload = debounce.New(watchSettle, c.reloadNow)
	c.wg.Add(1)
	go c.watchLoop(w)
	return nil
}

// watchLoop drains watcher events until Close. Only writes, creates,
// and renames of the settings file schedule a reload.
func (c *Config) watchLoop(w *fsnotify.Watcher) {
	defer c.wg.Done()
	target := filepath.Clean(c.path)

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename) {
				c.mu.RLock()
				reload := c.reload
				c.mu.RUnlock()
				if reload != nil {
					reload.Call()
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			c.log.Warn("watch: %v", err)
		}
	}
}

// reloadNow is the debounced trailing edge of the watcher.
func (c *Config) reloadNow() {
	s, err := LoadSettings(c.path)
	if err != nil {
		c.log.Warn("reload: %v", err)
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.settings = s
	c.mu.Unlock()

	c.log.Info("settings reloaded from %s", c.path)
	c.notify()
}
