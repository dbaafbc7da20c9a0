package input

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/SYK-08/vscode-neovim/internal/backend"
	"github.com/SYK-08/vscode-neovim/internal/host"
	"github.com/SYK-08/vscode-neovim/internal/layout"
	"github.com/SYK-08/vscode-neovim/internal/logging"
	"github.com/SYK-08/vscode-neovim/internal/redraw"
)

// Config configures the input router.
type Config struct {
	// CompositeWindow is how long after a composite escape first tap
	// the second tap still triggers an escape. Default: 200ms.
	CompositeWindow time.Duration

	// LockWait bounds waits on document-change locks and sync runs.
	// Default: 5s.
	LockWait time.Duration
}

// DefaultConfig returns a configuration with the standard timings.
func DefaultConfig() Config {
	return Config{
		CompositeWindow: 200 * time.Millisecond,
		LockWait:        5 * time.Second,
	}
}

// Gate is the slice of the layout reconciler the router waits on
// before letting keys through.
type Gate interface {
	// DocumentLock returns the pending change lock for uri, if any.
	DocumentLock(uri string) (*layout.Signal, bool)

	// WaitPendingSync blocks until outstanding sync runs and the
	// active document's change lock resolve, or ctx ends.
	WaitPendingSync(ctx context.Context) error

	// PushCursor writes the editor's cursor to its backend window.
	PushCursor(ed *host.Editor) error
}

// Router decides, per keystroke, whether text goes to the backend,
// back to the host, or into a buffer until the bridge settles. It
// tracks the backend's mode transitions to know which side owns
// editing at any moment.
type Router struct {
	client backend.Client
	typer  host.Typer
	ui     host.UI
	gate   Gate
	cfg    Config
	log    *logging.Logger

	mu         sync.Mutex
	state      State
	enabled    enableFlag
	pending    []string
	composing  bool
	composeBuf string
	firstTap   time.Time
	entrySeq   uint64
	closed     bool
}

// enableFlag is tri-state: routing is on until explicitly disabled.
type enableFlag int8

const (
	enableUnset enableFlag = iota
	enableOn
	enableOff
)

// NewRouter creates a router over the given backend, host typing
// surface, and sync gate. A nil logger disables logging.
func NewRouter(client backend.Client, typer host.Typer, ui host.UI, gate Gate, cfg Config, log *logging.Logger) *Router {
	if log == nil {
		log = logging.Null
	}
	return &Router{
		client: client,
		typer:  typer,
		ui:     ui,
		gate:   gate,
		cfg:    cfg,
		log:    log.WithComponent("input"),
	}
}

// Register subscribes the router to the decoder's mode events.
func (r *Router) Register(d *redraw.Decoder) {
	d.Subscribe(redraw.KindModeChange, func(ev redraw.Event) {
		r.HandleModeChange(ev.(redraw.ModeChange).Mode)
	})
}

// State returns the current routing state.
func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.composing {
		return StateComposing
	}
	return r.state
}

// Enabled reports whether the router honors escape and send commands.
// Routing starts enabled.
func (r *Router) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabledLocked()
}

func (r *Router) enabledLocked() bool {
	return r.enabled != enableOff
}

// Enable turns key routing back on.
func (r *Router) Enable() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = enableOn
	return nil
}

// Disable turns key routing off, stopping insert mode on the backend
// when it is active.
func (r *Router) Disable() error {
	r.mu.Lock()
	r.enabled = enableOff
	inInsert := r.state == StateInsert || r.state == StateEnteringInsert
	if inInsert {
		r.state = StateNormal
		r.entrySeq++
		r.pending = nil
	}
	r.mu.Unlock()
	if inInsert {
		return r.client.Command("stopinsert")
	}
	return nil
}

// Toggle flips between enabled and disabled.
func (r *Router) Toggle() error {
	if r.Enabled() {
		return r.Disable()
	}
	return r.Enable()
}

// TypeText routes one chunk of intercepted host typing.
func (r *Router) TypeText(text string) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	if !r.enabledLocked() {
		r.mu.Unlock()
		return r.typer.TypeText(text)
	}
	if r.composing {
		r.composeBuf += text
		r.mu.Unlock()
		return nil
	}
	switch r.state {
	case StateEnteringInsert, StateExitingInsert:
		r.pending = append(r.pending, text)
		r.mu.Unlock()
		return nil
	case StateInsert:
		r.mu.Unlock()
		return r.typer.TypeText(text)
	}
	r.mu.Unlock()
	return r.client.Input(escapeKeys(text))
}

// HandleModeChange applies a backend mode transition. Insert entry
// behind a pending document change defers to a waiter; everything
// typed until then is buffered. Leaving insert flushes keys buffered
// during the exit to the backend.
func (r *Router) HandleModeChange(name string) {
	insert := insertMode(name)

	var lock *layout.Signal
	if insert {
		if ed := r.ui.ActiveEditor(); ed != nil && ed.Document() != nil {
			lock, _ = r.gate.DocumentLock(ed.Document().URI())
		}
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	if insert {
		if r.state == StateInsert || r.state == StateEnteringInsert {
			r.mu.Unlock()
			return
		}
		if lock != nil {
			r.state = StateEnteringInsert
			r.entrySeq++
			seq := r.entrySeq
			r.mu.Unlock()
			r.log.Debug("insert entry deferred behind change lock")
			go r.completeInsertEntry(seq, lock)
			return
		}
		r.state = StateInsert
		r.mu.Unlock()
		r.log.Debug("insert entered, host owns typing")
		return
	}

	prev := r.state
	r.state = StateNormal
	r.entrySeq++
	flush := r.takePending()
	r.mu.Unlock()

	if prev != StateNormal {
		r.log.Debug("mode %q, routing normal", name)
	}
	if flush != "" {
		if err := r.client.Input(escapeKeys(flush)); err != nil {
			r.log.Warn("post-exit key flush: %v", err)
		}
	}
}

// completeInsertEntry waits out the pending document change and cursor
// sync, then flips to StateInsert and replays what the user typed in
// the meantime. A stale sequence number means the mode moved on and
// the buffered keys belong to whoever superseded us.
func (r *Router) completeInsertEntry(seq uint64, lock *layout.Signal) {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.LockWait)
	defer cancel()
	if err := lock.Wait(ctx); err != nil {
		r.log.Warn("insert entry: change lock: %v", err)
	}
	if err := r.gate.WaitPendingSync(ctx); err != nil {
		r.log.Warn("insert entry: pending sync: %v", err)
	}

	r.mu.Lock()
	if r.closed || r.entrySeq != seq {
		r.mu.Unlock()
		return
	}
	r.state = StateInsert
	text := r.takePending()
	r.mu.Unlock()

	if text == "" {
		return
	}
	// The host owns typing now, so buffered keys are typed natively.
	if err := r.typer.TypeText(text); err != nil {
		r.log.Warn("insert entry replay: %v", err)
	}
}

// takePending returns and clears the buffered keys. Caller holds mu.
func (r *Router) takePending() string {
	if len(r.pending) == 0 {
		return ""
	}
	text := strings.Join(r.pending, "")
	r.pending = nil
	return text
}

// Shutdown drops buffered state and refuses further routing.
func (r *Router) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.entrySeq++
	r.pending = nil
	r.composing = false
	r.composeBuf = ""
}
