package app

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/SYK-08/vscode-neovim/internal/backend"
	"github.com/SYK-08/vscode-neovim/internal/command"
	"github.com/SYK-08/vscode-neovim/internal/config"
	"github.com/SYK-08/vscode-neovim/internal/host"
	"github.com/SYK-08/vscode-neovim/internal/input"
	"github.com/SYK-08/vscode-neovim/internal/layout"
	"github.com/SYK-08/vscode-neovim/internal/logging"
	"github.com/SYK-08/vscode-neovim/internal/redraw"
	"github.com/SYK-08/vscode-neovim/internal/viewport"
)

// Options configures a Bridge.
type Options struct {
	// UI and Typer are the host surfaces the bridge drives. Both are
	// required.
	UI    host.UI
	Typer host.Typer

	// ConfigPath locates the TOML settings file. Empty runs on the
	// defaults.
	ConfigPath string

	// WatchConfig reloads settings when the file changes on disk.
	WatchConfig bool

	// Client overrides the backend connection. When nil, Start spawns
	// or dials an instance per the settings and owns its lifetime.
	Client backend.Client

	// NvimPath and Addr override the configured backend location.
	NvimPath string
	Addr     string

	// LogLevel overrides the configured log level when non-empty.
	LogLevel string

	// LogOutput overrides the log destination. Defaults to stderr.
	LogOutput io.Writer
}

// Bridge owns the backend connection and the components that keep the
// two editors aligned. Component accessors are valid once Start has
// returned nil and until Shutdown.
type Bridge struct {
	opts    Options
	log     *logging.Logger
	session string

	cfg      *config.Config
	cfgSub   *config.Subscription
	client   backend.Client
	ownsConn bool
	decoder  *redraw.Decoder
	rec      *layout.Reconciler
	tracker  *viewport.Tracker
	router   *input.Router
	registry *command.Registry
	provider *Provider

	mu      sync.Mutex
	running bool
	started []string
}

// New validates the host surfaces and creates an unstarted bridge.
func New(opts Options) (*Bridge, error) {
	if opts.UI == nil || opts.Typer == nil {
		return nil, ErrMissingHost
	}
	lcfg := logging.DefaultConfig()
	if opts.LogOutput != nil {
		lcfg.Output = opts.LogOutput
	}
	return &Bridge{
		opts:    opts,
		log:     logging.New(lcfg),
		session: uuid.NewString(),
	}, nil
}

// Start brings the bridge up: loads configuration, connects the
// backend, builds the components and attaches the UI. Components that
// came up before a failure are torn down again; the error carried out
// is an *InitError naming the component.
//
// ctx bounds the backend connection attempt and the lifetime of a
// spawned backend process.
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return ErrAlreadyRunning
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"config", b.initConfig},
		{"backend", func() error { return b.initBackend(ctx) }},
		{"decoder", b.initDecoder},
		{"layout", b.initLayout},
		{"tracker", b.initTracker},
		{"input", b.initInput},
		{"commands", b.initCommands},
		{"provider", b.initProvider},
		{"attach", b.initAttach},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			b.teardownLocked()
			return &InitError{Component: step.name, Err: err}
		}
		b.started = append(b.started, step.name)
	}

	b.running = true
	b.log.Info("bridge running: session %s", b.session)
	return nil
}

// Shutdown stops the components in reverse startup order and closes a
// connection the bridge owns. Safe to call once per Start; further
// calls return ErrNotRunning.
func (b *Bridge) Shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.running {
		return ErrNotRunning
	}
	b.running = false
	b.teardownLocked()
	b.log.Info("bridge stopped")
	return nil
}

// Running reports whether Start has completed and Shutdown has not.
func (b *Bridge) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}

// Execute dispatches a named command, the entry point hosts use for
// keybindings and UI actions.
func (b *Bridge) Execute(name string, args ...any) error {
	b.mu.Lock()
	reg := b.registry
	running := b.running
	b.mu.Unlock()
	if !running {
		return ErrNotRunning
	}
	return reg.Execute(name, args...)
}

// ApplyHostSettings overlays a host-side JSON settings fragment and
// notifies configuration observers.
func (b *Bridge) ApplyHostSettings(data []byte) error {
	b.mu.Lock()
	cfg := b.cfg
	b.mu.Unlock()
	if cfg == nil {
		return ErrNotRunning
	}
	return cfg.ApplyHostJSON(data)
}

// Client returns the backend connection.
func (b *Bridge) Client() backend.Client { return b.client }

// Registry returns the command registry.
func (b *Bridge) Registry() *command.Registry { return b.registry }

// Reconciler returns the layout reconciler.
func (b *Bridge) Reconciler() *layout.Reconciler { return b.rec }

// Tracker returns the viewport tracker.
func (b *Bridge) Tracker() *viewport.Tracker { return b.tracker }

// Router returns the input router.
func (b *Bridge) Router() *input.Router { return b.router }

// Provider returns the buffer content provider.
func (b *Bridge) Provider() *Provider { return b.provider }

// Logger returns the bridge's root logger.
func (b *Bridge) Logger() *logging.Logger { return b.log }

// SessionID returns the UUID published to the backend as
// g:vscode_session.
func (b *Bridge) SessionID() string { return b.session }

// Settings returns the current effective settings.
func (b *Bridge) Settings() config.Settings {
	b.mu.Lock()
	cfg := b.cfg
	b.mu.Unlock()
	if cfg == nil {
		return config.DefaultSettings()
	}
	return cfg.Settings()
}

func (b *Bridge) initConfig() error {
	b.cfg = config.New(b.opts.ConfigPath, b.log)
	if err := b.cfg.Load(); err != nil {
		var perr *config.ParseError
		if !errors.As(err, &perr) {
			return err
		}
		// A malformed file is not fatal; run on the defaults.
		b.log.Warn("settings file ignored: %v", err)
	}
	b.log.SetLevel(logging.ParseLevel(b.effectiveLogLevel(b.cfg.Settings())))
	if b.opts.WatchConfig {
		if err := b.cfg.Watch(); err != nil {
			b.log.Warn("config watch unavailable: %v", err)
		}
	}
	b.cfgSub = b.cfg.Subscribe(b.applySettings)
	return nil
}

func (b *Bridge) initBackend(ctx context.Context) error {
	if b.opts.Client != nil {
		b.client = b.opts.Client
		return nil
	}
	s := b.cfg.Settings()
	addr := s.Addr
	if b.opts.Addr != "" {
		addr = b.opts.Addr
	}
	if addr != "" {
		c, err := backend.Dial(addr)
		if err != nil {
			return err
		}
		b.client = c
	} else {
		path := s.NvimPath
		if b.opts.NvimPath != "" {
			path = b.opts.NvimPath
		}
		c, err := backend.Spawn(ctx, path, s.NvimArgs...)
		if err != nil {
			return err
		}
		b.client = c
	}
	b.ownsConn = true
	return nil
}

func (b *Bridge) initDecoder() error {
	b.decoder = redraw.NewDecoder(b.log)
	return nil
}

func (b *Bridge) initLayout() error {
	lc, _, _ := componentConfigs(b.cfg.Settings())
	b.rec = layout.NewReconciler(b.client, b.opts.UI, lc, b.log)
	b.rec.Register(b.decoder)
	return nil
}

func (b *Bridge) initTracker() error {
	_, vc, _ := componentConfigs(b.cfg.Settings())
	b.tracker = viewport.NewTracker(b.client, b.rec.Tables(), vc, b.opts.UI.SmoothScrolling, b.log)
	b.tracker.Register(b.decoder)
	return nil
}

func (b *Bridge) initInput() error {
	_, _, ic := componentConfigs(b.cfg.Settings())
	b.router = input.NewRouter(b.client, b.opts.Typer, b.opts.UI, b.rec, ic, b.log)
	b.router.Register(b.decoder)
	return nil
}

func (b *Bridge) initCommands() error {
	b.registry = command.NewRegistry()
	command.Bind(b.registry, command.Deps{
		Router:     b.router,
		Reconciler: b.rec,
		Tracker:    b.tracker,
		UI:         b.opts.UI,
		Log:        b.log,
	})
	return nil
}

func (b *Bridge) initProvider() error {
	b.provider = NewProvider(b.client, b.cfg.Settings().Scheme, b.log)
	return nil
}

func (b *Bridge) teardownLocked() {
	for i := len(b.started) - 1; i >= 0; i-- {
		switch b.started[i] {
		case "provider":
			b.provider.Close()
		case "commands":
			b.registry.Clear()
		case "input":
			b.router.Shutdown()
		case "layout":
			b.rec.Shutdown()
		case "backend":
			if b.ownsConn {
				if err := b.client.Close(); err != nil {
					b.log.Warn("backend close: %v", err)
				}
			}
		case "config":
			b.cfgSub.Unsubscribe()
			if err := b.cfg.Close(); err != nil {
				b.log.Warn("config close: %v", err)
			}
		}
	}
	b.started = nil
}

// applySettings is the configuration observer. Most knobs are read at
// component construction and take effect on the next start; what can
// move at runtime moves here.
func (b *Bridge) applySettings(s config.Settings) {
	b.log.SetLevel(logging.ParseLevel(b.effectiveLogLevel(s)))
	b.mu.Lock()
	t := b.tracker
	b.mu.Unlock()
	if t != nil {
		t.RefreshDebounce()
	}
	b.log.Debug("settings applied: log level %s", s.LogLevel)
}

// effectiveLogLevel resolves the Options override against the settings.
func (b *Bridge) effectiveLogLevel(s config.Settings) string {
	if b.opts.LogLevel != "" {
		return b.opts.LogLevel
	}
	return s.LogLevel
}

// componentConfigs maps the flat settings onto the per-component
// configurations. config stays a leaf package; the translation lives
// here instead.
func componentConfigs(s config.Settings) (layout.Config, viewport.Config, input.Config) {
	lc := layout.DefaultConfig()
	lc.LayoutDebounce = s.LayoutDebounce.Std()
	lc.ActiveDebounce = s.ActiveDebounce.Std()
	lc.FocusDebounce = s.FocusDebounce.Std()
	lc.FocusSettleDelay = s.FocusSettleDelay.Std()
	lc.OptionsDebounce = s.TabOptionsDebounce.Std()
	lc.ExternalCursorDelay = s.ExternalCursorDelay.Std()
	lc.ExternalCloseDelay = s.ExternalWindowClose.Std()
	lc.ViewportWidth = s.ViewportWidth
	lc.WindowHeight = s.WindowHeight
	lc.Scheme = s.Scheme
	lc.HostSchemes = s.HostSchemes

	vc := viewport.Config{
		Debounce:       s.ScrollDebounce.Std(),
		SmoothDebounce: s.ScrollSmoothDebounce.Std(),
		ExtensionLines: s.ExtensionLines,
	}

	ic := input.DefaultConfig()
	ic.CompositeWindow = s.CompositeEscapeWindow.Std()

	return lc, vc, ic
}
