package config

import (
	"sync"

	"github.com/SYK-08/vscode-neovim/internal/debounce"
	"github.com/SYK-08/vscode-neovim/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Observer receives the settings snapshot after each change.
type Observer func(Settings)

// Subscription is an active observer registration.
type Subscription struct {
	id  uint64
	cfg *Config
}

// Unsubscribe removes the observer.
func (s *Subscription) Unsubscribe() {
	if s.cfg != nil {
		s.cfg.unsubscribe(s.id)
	}
}

// Config owns the current Settings and their sources: the TOML file,
// host JSON overlays, and the file watcher that reloads on change.
//
// Thread-safety: all methods are safe for concurrent use.
type Config struct {
	mu        sync.RWMutex
	path      string
	settings  Settings
	observers map[uint64]Observer
	nextID    uint64
	closed    bool

	watcher *fsnotify.Watcher
	reload  *debounce.Debouncer
	wg      sync.WaitGroup
	log     *logging.Logger
}

// New creates a Config bound to the settings file at path. An empty
// path runs on defaults with nothing to watch. A nil logger disables
// logging.
func New(path string, log *logging.Logger) *Config {
	if log == nil {
		log = logging.Null
	}
	return &Config{
		path:      path,
		settings:  DefaultSettings(),
		observers: make(map[uint64]Observer),
		log:       log.WithComponent("config"),
	}
}

// Load reads the settings file. Observers are not notified; Load is
// the initial read, before anything subscribes.
func (c *Config) Load() error {
	s, err := LoadSettings(c.path)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.settings = s
	c.mu.Unlock()
	return nil
}

// Settings returns the current snapshot.
func (c *Config) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// Subscribe registers an observer for settings changes.
func (c *Config) Subscribe(fn Observer) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.observers[id] = fn
	return &Subscription{id: id, cfg: c}
}

func (c *Config) unsubscribe(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.observers, id)
}

// notify delivers the current snapshot to every observer, outside the
// lock.
func (c *Config) notify() {
	c.mu.RLock()
	s := c.settings
	obs := make([]Observer, 0, len(c.observers))
	for _, fn := range c.observers {
		obs = append(obs, fn)
	}
	c.mu.RUnlock()

	for _, fn := range obs {
		fn(s)
	}
}

// Close stops the watcher. Idempotent.
func (c *Config) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	w := c.watcher
	reload := c.reload
	c.watcher = nil
	c.reload = nil
	c.mu.Unlock()

	var err error
	if w != nil {
		err = w.Close()
	}
	c.wg.Wait()
	if reload != nil {
		reload.Cancel()
	}
	return err
}
