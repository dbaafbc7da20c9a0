package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration is a time.Duration that unmarshals from strings in Go
// duration syntax ("200ms", "1s").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the setting as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Settings are the bridge's tunables. The zero value is not usable;
// start from DefaultSettings.
type Settings struct {
	// ViewportWidth and WindowHeight size the backend's windows. The
	// width is oversized so the backend never wraps or truncates host
	// lines.
	ViewportWidth int `toml:"viewport_width"`
	WindowHeight  int `toml:"window_height"`

	// ExtensionLines widens scroll corrections above the host's first
	// visible line.
	ExtensionLines int `toml:"extension_lines"`

	// LayoutDebounce coalesces visible-editor bursts into one full
	// layout run; ActiveDebounce does the same for active-editor sync,
	// FocusDebounce for backend window-focus notifications, and
	// TabOptionsDebounce for indentation option pushes.
	LayoutDebounce     Duration `toml:"layout_debounce"`
	ActiveDebounce     Duration `toml:"active_debounce"`
	FocusDebounce      Duration `toml:"focus_debounce"`
	TabOptionsDebounce Duration `toml:"tab_options_debounce"`

	// ScrollDebounce is the quiet period for host scroll corrections;
	// ScrollSmoothDebounce replaces it while the host animates
	// scrolling.
	ScrollDebounce       Duration `toml:"scroll_debounce"`
	ScrollSmoothDebounce Duration `toml:"scroll_smooth_debounce"`

	// FocusSettleDelay is the fixed pause before reverse focus sync
	// re-resolves the focused window.
	FocusSettleDelay Duration `toml:"focus_settle_delay"`

	// ExternalCursorDelay and ExternalWindowClose time the follow-up
	// work after adopting a backend-created buffer.
	ExternalCursorDelay Duration `toml:"external_cursor_delay"`
	ExternalWindowClose Duration `toml:"external_window_close"`

	// CompositeEscapeWindow is how long after a composite escape first
	// tap the second tap still escapes.
	CompositeEscapeWindow Duration `toml:"composite_escape_window"`

	// Scheme is the URI scheme minted for adopted backend buffers.
	// HostSchemes are the URI schemes owned by the host editor.
	Scheme      string   `toml:"scheme"`
	HostSchemes []string `toml:"host_schemes"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// NvimPath and NvimArgs spawn the backend process; Addr dials a
	// running instance instead.
	NvimPath string   `toml:"nvim_path"`
	NvimArgs []string `toml:"nvim_args"`
	Addr     string   `toml:"addr"`
}

// DefaultSettings returns the standard configuration.
func DefaultSettings() Settings {
	return Settings{
		ViewportWidth:         1000,
		WindowHeight:          100,
		ExtensionLines:        5,
		LayoutDebounce:        Duration(200 * time.Millisecond),
		ActiveDebounce:        Duration(100 * time.Millisecond),
		FocusDebounce:         Duration(100 * time.Millisecond),
		TabOptionsDebounce:    Duration(500 * time.Millisecond),
		ScrollDebounce:        Duration(20 * time.Millisecond),
		ScrollSmoothDebounce:  Duration(100 * time.Millisecond),
		FocusSettleDelay:      Duration(50 * time.Millisecond),
		ExternalCursorDelay:   Duration(time.Second),
		ExternalWindowClose:   Duration(5 * time.Second),
		CompositeEscapeWindow: Duration(200 * time.Millisecond),
		Scheme:                "vscode-neovim",
		HostSchemes:           []string{"file", "untitled", "output", "vscode-notebook-cell"},
		LogLevel:              "info",
		NvimPath:              "nvim",
	}
}

// normalize repairs values no component can run with. Zero debounces
// stay zero; they mean immediate delivery.
func (s *Settings) normalize() {
	def := DefaultSettings()
	if s.ViewportWidth < 1 {
		s.ViewportWidth = def.ViewportWidth
	}
	if s.WindowHeight < 1 {
		s.WindowHeight = def.WindowHeight
	}
	if s.ExtensionLines < 0 {
		s.ExtensionLines = 0
	}
	for _, d := range []*Duration{
		&s.LayoutDebounce, &s.ActiveDebounce, &s.FocusDebounce,
		&s.TabOptionsDebounce, &s.ScrollDebounce, &s.ScrollSmoothDebounce,
		&s.FocusSettleDelay, &s.ExternalCursorDelay, &s.ExternalWindowClose,
		&s.CompositeEscapeWindow,
	} {
		if *d < 0 {
			*d = 0
		}
	}
	if s.Scheme == "" {
		s.Scheme = def.Scheme
	}
	if len(s.HostSchemes) == 0 {
		s.HostSchemes = def.HostSchemes
	}
	if s.LogLevel == "" {
		s.LogLevel = def.LogLevel
	}
	if s.NvimPath == "" {
		s.NvimPath = def.NvimPath
	}
}

// ParseError reports a settings file that did not parse.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config: parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadSettings reads the TOML settings file at path over the defaults.
// A missing file yields the defaults with no error.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), &ParseError{Path: path, Err: err}
	}
	s.normalize()
	return s, nil
}
