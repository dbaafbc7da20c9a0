package viewport

import (
	"sync"
	"time"

	"github.com/SYK-08/vscode-neovim/internal/backend"
	"github.com/SYK-08/vscode-neovim/internal/debounce"
	"github.com/SYK-08/vscode-neovim/internal/host"
	"github.com/SYK-08/vscode-neovim/internal/logging"
	"github.com/SYK-08/vscode-neovim/internal/redraw"
)

// Lookup resolves layout mappings the tracker needs to route a host
// scroll to its backend window and grid.
type Lookup interface {
	WindowForEditor(id host.EditorID) (backend.WindowID, bool)
	GridForWindow(win backend.WindowID) (backend.GridID, bool)
}

// Config holds the tracker's tuning knobs. The delays are tolerances,
// not protocol guarantees.
type Config struct {
	// Debounce is the quiet period for host scroll corrections.
	Debounce time.Duration
	// SmoothDebounce replaces Debounce while the host reports smooth
	// scrolling, whose animation emits long visible-range bursts.
	SmoothDebounce time.Duration
	// ExtensionLines widens the corrected viewport above the host's
	// first visible line.
	ExtensionLines int
}

// DefaultConfig returns the default tracker configuration.
func DefaultConfig() Config {
	return Config{
		Debounce:       20 * time.Millisecond,
		SmoothDebounce: 100 * time.Millisecond,
		ExtensionLines: 5,
	}
}

// Tracker caches per-grid viewport state and pushes debounced scroll
// corrections back to the backend.
//
// Thread-safety: all methods are safe for concurrent use.
type Tracker struct {
	mu       sync.RWMutex
	grids    map[backend.GridID]Viewport
	inInsert bool

	client backend.Client
	lookup Lookup
	cfg    Config
	smooth func() bool
	log    *logging.Logger
	scroll *debounce.Latest[*host.Editor]
}

// NewTracker creates a tracker. smooth reports whether the host
// animates scrolling; a nil logger disables logging.
func NewTracker(client backend.Client, lookup Lookup, cfg Config, smooth func() bool, log *logging.Logger) *Tracker {
	if log == nil {
		log = logging.Null
	}
	if smooth == nil {
		smooth = func() bool { return false }
	}
	t := &Tracker{
		grids:  make(map[backend.GridID]Viewport),
		client: client,
		lookup: lookup,
		cfg:    cfg,
		smooth: smooth,
		log:    log.WithComponent("viewport"),
	}
	t.scroll = debounce.NewLatest(cfg.Debounce, t.applyScroll)
	t.RefreshDebounce()
	return t
}

// Register subscribes the tracker to its redraw events.
func (t *Tracker) Register(d *redraw.Decoder) {
	d.Subscribe(redraw.KindWinViewport, func(ev redraw.Event) {
		t.ApplyViewport(ev.(redraw.WinViewport))
	})
	d.Subscribe(redraw.KindGridCursorGoto, func(ev redraw.Event) {
		t.ApplyCursor(ev.(redraw.GridCursorGoto))
	})
	d.Subscribe(redraw.KindGridDestroy, func(ev redraw.Event) {
		t.ApplyDestroy(ev.(redraw.GridDestroy).Grid)
	})
	d.Subscribe(redraw.KindModeChange, func(ev redraw.Event) {
		t.ApplyMode(ev.(redraw.ModeChange).Mode)
	})
}

// ApplyViewport merges a viewport event into the grid's record,
// creating it on first reference.
func (t *Tracker) ApplyViewport(ev redraw.WinViewport) {
	t.mu.Lock()
	defer t.mu.Unlock()
	vp := t.grids[ev.Grid]
	vp.TopLine = ev.TopLine
	vp.BottomLine = ev.BottomLine
	vp.Line = ev.CurLine
	vp.Col = ev.CurCol
	t.grids[ev.Grid] = vp
}

// ApplyCursor merges a cursor event into the grid's record.
func (t *Tracker) ApplyCursor(ev redraw.GridCursorGoto) {
	t.mu.Lock()
	defer t.mu.Unlock()
	vp := t.grids[ev.Grid]
	vp.Line = ev.Row
	vp.Col = ev.Col
	t.grids[ev.Grid] = vp
}

// ApplyDestroy drops the grid's record.
func (t *Tracker) ApplyDestroy(grid backend.GridID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.grids, grid)
}

// ApplyMode records whether the backend entered an insert-family mode.
// Scroll corrections are suppressed while it holds.
func (t *Tracker) ApplyMode(mode string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inInsert = len(mode) > 0 && mode[0] == 'i'
}

// ApplyWindowScroll merges horizontal state from the window-scroll
// notification. Vertical state stays owned by the redraw stream.
func (t *Tracker) ApplyWindowScroll(ws WindowScroll) {
	grid, ok := t.lookup.GridForWindow(ws.Window)
	if !ok {
		t.log.Debug("window-scroll for unmapped window %d", ws.Window)
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	vp := t.grids[grid]
	vp.LeftCol = ws.LeftCol
	vp.SkipCol = ws.SkipCol
	t.grids[grid] = vp
}

// Get returns the tracked viewport for a grid.
func (t *Tracker) Get(grid backend.GridID) (Viewport, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	vp, ok := t.grids[grid]
	return vp, ok
}

// CursorForGrid returns the tracked cursor position for a grid.
func (t *Tracker) CursorForGrid(grid backend.GridID) (host.Position, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	vp, ok := t.grids[grid]
	if !ok {
		return host.Position{}, false
	}
	return host.Position{Line: vp.Line, Col: vp.Col}, true
}

// InInsert reports the tracked insert-mode flag.
func (t *Tracker) InInsert() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.inInsert
}

// NotifyVisibleRange schedules a debounced scroll correction for the
// editor's latest visible range.
func (t *Tracker) NotifyVisibleRange(ed *host.Editor) {
	t.scroll.Call(ed)
}

// FlushScroll delivers a pending scroll correction immediately.
func (t *Tracker) FlushScroll() {
	t.scroll.CallImmediate()
}

// RefreshDebounce re-reads the smooth-scrolling report and adjusts the
// scroll quiet period. Called after configuration changes.
func (t *Tracker) RefreshDebounce() {
	d := t.cfg.Debounce
	if t.smooth() {
		d = t.cfg.SmoothDebounce
	}
	t.scroll.SetDelay(d)
}

// applyScroll is the debounced trailing edge of NotifyVisibleRange.
func (t *Tracker) applyScroll(ed *host.Editor) {
	if ed == nil {
		return
	}
	t.mu.RLock()
	inInsert := t.inInsert
	t.mu.RUnlock()
	if inInsert {
		return
	}

	r := ed.VisibleRange()
	if r.Lines() <= 1 {
		return
	}

	win, ok := t.lookup.WindowForEditor(ed.ID())
	if !ok {
		t.log.Debug("scroll for unmapped editor %d", ed.ID())
		return
	}
	grid, ok := t.lookup.GridForWindow(win)
	if !ok {
		t.log.Debug("scroll for window %d with no grid", win)
		return
	}

	vp, ok := t.Get(grid)
	if !ok {
		return
	}

	targetTop := max(0, r.Start-t.cfg.ExtensionLines)
	targetBottom := r.End + ed.FoldedLines() + t.cfg.ExtensionLines
	if targetTop == vp.TopLine {
		return
	}
	// A mismatched cursor line means the backend is mid-move; the next
	// viewport event will resolve the disagreement without us.
	if vp.Line != ed.Cursor().Line {
		return
	}

	if err := t.client.SetViewport(win, targetTop, targetBottom); err != nil {
		t.log.Warn("scroll correction for window %d: %v", win, err)
	}
}
