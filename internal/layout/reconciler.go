package layout

import (
	"context"
	"sync"
	"time"

	"github.com/SYK-08/vscode-neovim/internal/backend"
	"github.com/SYK-08/vscode-neovim/internal/debounce"
	"github.com/SYK-08/vscode-neovim/internal/host"
	"github.com/SYK-08/vscode-neovim/internal/logging"
	"github.com/SYK-08/vscode-neovim/internal/redraw"
)

// Config holds the reconciler's timing and sizing knobs.
type Config struct {
	// LayoutDebounce delays full layout runs to coalesce editor bursts.
	LayoutDebounce time.Duration

	// ActiveDebounce delays active-editor sync after focus changes.
	ActiveDebounce time.Duration

	// FocusDebounce delays reverse focus sync after window-changed
	// notifications.
	FocusDebounce time.Duration

	// FocusSettleDelay is the fixed pause before reverse focus sync
	// re-resolves the current window.
	FocusSettleDelay time.Duration

	// OptionsDebounce delays indentation option pushes.
	OptionsDebounce time.Duration

	// ExternalCursorDelay is how long after adopting a foreign buffer
	// its cursor is copied to the host, once.
	ExternalCursorDelay time.Duration

	// ExternalCloseDelay is how long after adopting a foreign buffer
	// its leftover untracked windows are closed.
	ExternalCloseDelay time.Duration

	// SyncWait bounds how long a run waits on a prior stage's signal.
	SyncWait time.Duration

	// ViewportWidth is the cell width of bridge windows. Oversized so
	// the backend never wraps or truncates host lines.
	ViewportWidth int

	// WindowHeight is the cell height of bridge windows.
	WindowHeight int

	// Scheme is the URI scheme minted for adopted foreign buffers.
	Scheme string

	// HostSchemes are the URI schemes owned by the host editor.
	HostSchemes []string
}

// DefaultConfig returns the standard reconciler configuration.
func DefaultConfig() Config {
	return Config{
		LayoutDebounce:      200 * time.Millisecond,
		ActiveDebounce:      100 * time.Millisecond,
		FocusDebounce:       100 * time.Millisecond,
		FocusSettleDelay:    50 * time.Millisecond,
		OptionsDebounce:     500 * time.Millisecond,
		ExternalCursorDelay: time.Second,
		ExternalCloseDelay:  5 * time.Second,
		SyncWait:            10 * time.Second,
		ViewportWidth:       1000,
		WindowHeight:        100,
		Scheme:              "vscode-neovim",
		HostSchemes:         []string{"file", "untitled", "output", NotebookCellScheme},
	}
}

type editorOptions struct {
	tab host.TabConfig
	num host.LineNumbers
}

// Reconciler keeps the backend's buffers and windows aligned with the
// host's documents and editors. See the package documentation for the
// synchronization model.
type Reconciler struct {
	client backend.Client
	ui     host.UI
	tables *Tables
	cfg    Config
	log    *logging.Logger

	mu           sync.Mutex
	layoutSignal *Signal
	activeSignal *Signal
	locks        map[string]*Signal
	lastOpts     map[host.EditorID]editorOptions
	timers       []*time.Timer
	closed       bool

	layoutTokens TokenSource
	activeTokens TokenSource

	layoutDeb *debounce.Debouncer
	activeDeb *debounce.Debouncer
	focusDeb  *debounce.Latest[backend.WindowID]
	optsDeb   *debounce.Latest[*host.Editor]
}

// NewReconciler creates a reconciler over the given backend and host.
// A nil logger disables logging.
func NewReconciler(client backend.Client, ui host.UI, cfg Config, log *logging.Logger) *Reconciler {
	if log == nil {
		log = logging.Null
	}
	r := &Reconciler{
		client:       client,
		ui:           ui,
		tables:       NewTables(),
		cfg:          cfg,
		log:          log.WithComponent("layout"),
		layoutSignal: ResolvedSignal(nil),
		activeSignal: ResolvedSignal(nil),
		locks:        make(map[string]*Signal),
		lastOpts:     make(map[host.EditorID]editorOptions),
	}
	r.layoutDeb = debounce.New(cfg.LayoutDebounce, r.syncLayout)
	r.activeDeb = debounce.New(cfg.ActiveDebounce, r.syncActive)
	r.focusDeb = debounce.NewLatest(cfg.FocusDebounce, r.syncFocus)
	r.optsDeb = debounce.NewLatest(cfg.OptionsDebounce, r.syncOptions)
	return r
}

// Tables exposes the mapping tables. The viewport tracker uses them as
// its window lookup.
func (r *Reconciler) Tables() *Tables {
	return r.tables
}

// Register subscribes the reconciler to the redraw events that carry
// grid-to-window bindings.
func (r *Reconciler) Register(d *redraw.Decoder) {
	d.Subscribe(redraw.KindWinPos, func(ev redraw.Event) {
		wp := ev.(redraw.WinPos)
		r.tables.SetGridWindow(wp.Grid, wp.Window)
	})
	d.Subscribe(redraw.KindWinExternalPos, func(ev redraw.Event) {
		wp := ev.(redraw.WinExternalPos)
		r.tables.SetGridWindow(wp.Grid, wp.Window)
	})
	d.Subscribe(redraw.KindWinClose, func(ev redraw.Event) {
		r.tables.DeleteGrid(ev.(redraw.WinClose).Grid)
	})
	d.Subscribe(redraw.KindGridDestroy, func(ev redraw.Event) {
		r.tables.DeleteGrid(ev.(redraw.GridDestroy).Grid)
	})
}

// NotifyVisibleChanged schedules a full layout run. The layout signal
// turns pending immediately so later stages queue behind the run.
func (r *Reconciler) NotifyVisibleChanged() {
	if !r.armLayout() {
		return
	}
	r.layoutDeb.Call()
}

// SyncVisibleNow runs a full layout pass synchronously, bypassing the
// debounce. Used for the initial sync at startup.
func (r *Reconciler) SyncVisibleNow() {
	if !r.armLayout() {
		return
	}
	r.layoutDeb.CallImmediate()
}

// NotifyActiveChanged schedules an active-editor sync.
func (r *Reconciler) NotifyActiveChanged() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	if r.activeSignal.Resolved() {
		r.activeSignal = NewSignal()
	}
	r.mu.Unlock()
	r.activeDeb.Call()
}

// NotifyDocumentClosed releases the document's change lock and
// schedules a layout run to reclaim its backend resources.
func (r *Reconciler) NotifyDocumentClosed(doc *host.Document) {
	r.mu.Lock()
	if s, ok := r.locks[doc.URI()]; ok {
		s.Resolve(nil)
		delete(r.locks, doc.URI())
	}
	r.mu.Unlock()
	r.NotifyVisibleChanged()
}

// NotifyOptionsChanged schedules an indentation option push for the
// editor. Pushes are debounced and skipped when nothing changed.
func (r *Reconciler) NotifyOptionsChanged(ed *host.Editor) {
	r.optsDeb.Call(ed)
}

// HandleWindowChanged schedules reverse focus sync for a backend-side
// window change.
func (r *Reconciler) HandleWindowChanged(win backend.WindowID) {
	r.focusDeb.Call(win)
}

func (r *Reconciler) armLayout() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	// An in-flight run is stale the moment a newer change arrives. It
	// must not resolve the signal the scheduled run now owns.
	r.layoutTokens.Invalidate()
	if r.layoutSignal.Resolved() {
		r.layoutSignal = NewSignal()
	}
	return true
}

func (r *Reconciler) beginLayoutRun() (*Signal, *Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.layoutSignal.Resolved() {
		r.layoutSignal = NewSignal()
	}
	return r.layoutSignal, r.layoutTokens.Next()
}

func (r *Reconciler) beginActiveRun() (*Signal, *Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.activeSignal.Resolved() {
		r.activeSignal = NewSignal()
	}
	return r.activeSignal, r.activeTokens.Next()
}

func (r *Reconciler) layoutSignalRef() *Signal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.layoutSignal
}

func (r *Reconciler) activeSignalRef() *Signal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeSignal
}

// LockDocument returns an unresolved change lock for the document,
// creating one if the previous lock has already resolved. The holder
// resolves it when the pending change has been applied host-side.
func (r *Reconciler) LockDocument(uri string) *Signal {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.locks[uri]; ok && !s.Resolved() {
		return s
	}
	s := NewSignal()
	r.locks[uri] = s
	return s
}

// DocumentLock returns the document's change lock when one is pending.
func (r *Reconciler) DocumentLock(uri string) (*Signal, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.locks[uri]
	if !ok || s.Resolved() {
		return nil, false
	}
	return s, true
}

// SyncPending reports whether any synchronization stage the input
// router must queue behind is still outstanding.
func (r *Reconciler) SyncPending() bool {
	r.mu.Lock()
	layout, active := r.layoutSignal, r.activeSignal
	r.mu.Unlock()
	if !layout.Resolved() || !active.Resolved() {
		return true
	}
	if ed := r.ui.ActiveEditor(); ed != nil && ed.Document() != nil {
		if _, pending := r.DocumentLock(ed.Document().URI()); pending {
			return true
		}
	}
	return false
}

// WaitPendingSync blocks until the outstanding layout and active-editor
// runs and the active document's change lock have completed, or the
// context ends. Run outcomes are not propagated; only the context error
// is returned.
func (r *Reconciler) WaitPendingSync(ctx context.Context) error {
	r.mu.Lock()
	sigs := []*Signal{r.layoutSignal, r.activeSignal}
	r.mu.Unlock()
	if ed := r.ui.ActiveEditor(); ed != nil && ed.Document() != nil {
		if s, pending := r.DocumentLock(ed.Document().URI()); pending {
			sigs = append(sigs, s)
		}
	}
	for _, s := range sigs {
		select {
		case <-s.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (r *Reconciler) afterFunc(d time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.timers = append(r.timers, time.AfterFunc(d, fn))
}

// Shutdown cancels pending work, invalidates in-flight runs, and
// releases every waiter. The reconciler accepts no new work afterwards.
func (r *Reconciler) Shutdown() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	timers := r.timers
	r.timers = nil
	layout, active := r.layoutSignal, r.activeSignal
	locks := make([]*Signal, 0, len(r.locks))
	for _, s := range r.locks {
		locks = append(locks, s)
	}
	r.mu.Unlock()

	r.layoutTokens.Invalidate()
	r.activeTokens.Invalidate()
	r.layoutDeb.Cancel()
	r.activeDeb.Cancel()
	r.focusDeb.Cancel()
	r.optsDeb.Cancel()
	for _, t := range timers {
		t.Stop()
	}
	layout.Resolve(ErrSuperseded)
	active.Resolve(ErrSuperseded)
	for _, s := range locks {
		s.Resolve(ErrSuperseded)
	}
}
