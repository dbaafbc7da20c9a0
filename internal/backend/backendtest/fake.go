// Package backendtest provides a scripted in-memory backend.Client.
//
// The fake tracks enough buffer and window state for reconciliation
// logic to run against it, records every call in order (atomic batches
// as single grouped entries), and lets tests inject failures and fire
// the notification feed synchronously.
package backendtest

import (
	"fmt"
	"sort"
	"sync"

	"github.com/SYK-08/vscode-neovim/internal/backend"
)

// Call is one recorded client call.
type Call struct {
	Name string
	Args []any
}

// BufferState is a snapshot of a fake buffer for assertions.
type BufferState struct {
	Lines    []string
	Name     string
	Options  map[string]any
	Vars     map[string]any
	Listed   bool
	Attached bool
}

// WindowState is a snapshot of a fake window for assertions.
type WindowState struct {
	Buffer     backend.BufferID
	CursorLine int
	CursorCol  int
	TopLine    int
	Width      int
	Height     int
	Options    map[string]any
}

// Fake implements backend.Client against in-memory state.
//
// A fresh fake mirrors a fresh instance: buffer 1 shown in window 1000,
// normal mode. Thread-safety: all methods are safe for concurrent use;
// notification emit helpers run handlers synchronously on the caller's
// goroutine.
type Fake struct {
	mu sync.Mutex

	nextBuf backend.BufferID
	nextWin backend.WindowID
	bufs    map[backend.BufferID]*fakeBuffer
	wins    map[backend.WindowID]*fakeWindow
	current backend.WindowID
	mode    backend.Mode
	vars    map[string]any

	calls    []Call
	batches  [][]Call
	failures map[string][]error

	redraw    func([][]any)
	bufLines  func(backend.BufferLinesEvent)
	bufDetach func(backend.BufferID)
	notify    map[string]func([]any)
}

type fakeBuffer struct {
	lines    []string
	name     string
	opts     map[string]any
	vars     map[string]any
	listed   bool
	attached bool
}

type fakeWindow struct {
	buf        backend.BufferID
	cursorLine int
	cursorCol  int
	topLine    int
	width      int
	height     int
	opts       map[string]any
}

// New creates a fake in the post-startup state.
func New() *Fake {
	f := &Fake{
		nextBuf:  backend.ScratchBuffer,
		nextWin:  1000,
		bufs:     make(map[backend.BufferID]*fakeBuffer),
		wins:     make(map[backend.WindowID]*fakeWindow),
		vars:     make(map[string]any),
		mode:     backend.Mode{Name: "n"},
		failures: make(map[string][]error),
		notify:   make(map[string]func([]any)),
	}
	f.bufs[backend.ScratchBuffer] = newFakeBuffer()
	f.wins[1000] = &fakeWindow{buf: backend.ScratchBuffer}
	f.current = 1000
	return f
}

func newFakeBuffer() *fakeBuffer {
	return &fakeBuffer{
		lines: []string{""},
		opts:  make(map[string]any),
		vars:  make(map[string]any),
	}
}

// FailNext queues err to be returned by the next call to the named
// method ("OpenWindow", "Batch.Execute", ...). Queued errors are
// consumed in order.
func (f *Fake) FailNext(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method] = append(f.failures[method], err)
}

func (f *Fake) takeFailure(method string) error {
	q := f.failures[method]
	if len(q) == 0 {
		return nil
	}
	err := q[0]
	f.failures[method] = q[1:]
	return err
}

func (f *Fake) record(name string, args ...any) {
	f.calls = append(f.calls, Call{Name: name, Args: args})
}

// Calls returns every recorded call in order. Batch executions appear
// as a single "batch" entry; their contents are in Batches.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallNames returns the recorded call names in order.
func (f *Fake) CallNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, len(f.calls))
	for i, c := range f.calls {
		names[i] = c.Name
	}
	return names
}

// CallsNamed returns the recorded calls with the given name.
func (f *Fake) CallsNamed(name string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Batches returns the executed atomic batches, each as its recorded
// call group.
func (f *Fake) Batches() [][]Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]Call, len(f.batches))
	for i, b := range f.batches {
		g := make([]Call, len(b))
		copy(g, b)
		out[i] = g
	}
	return out
}

// ResetCalls clears the recorded calls and batches, keeping state.
func (f *Fake) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
	f.batches = nil
}

// SetMode scripts the reported mode.
func (f *Fake) SetMode(name string, blocking bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = backend.Mode{Name: name, Blocking: blocking}
}

// SetCurrent scripts the focused window without recording a call.
func (f *Fake) SetCurrent(win backend.WindowID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = win
}

// Current returns the focused window without recording a call.
func (f *Fake) Current() backend.WindowID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// StageBuffer creates a buffer with the given name and content without
// recording calls, returning its id. Used to stage pre-existing
// backend-side state.
func (f *Fake) StageBuffer(name string, lines []string) backend.BufferID {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextBuf++
	b := newFakeBuffer()
	b.name = name
	if len(lines) > 0 {
		b.lines = append([]string(nil), lines...)
	}
	f.bufs[f.nextBuf] = b
	return f.nextBuf
}

// StageWindow creates a window showing buf without recording calls.
func (f *Fake) StageWindow(buf backend.BufferID) backend.WindowID {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextWin++
	f.wins[f.nextWin] = &fakeWindow{buf: buf}
	return f.nextWin
}

// Buffer returns a snapshot of the buffer, or false when it does not
// exist.
func (f *Fake) Buffer(id backend.BufferID) (BufferState, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bufs[id]
	if !ok {
		return BufferState{}, false
	}
	st := BufferState{
		Lines:    append([]string(nil), b.lines...),
		Name:     b.name,
		Options:  make(map[string]any, len(b.opts)),
		Vars:     make(map[string]any, len(b.vars)),
		Listed:   b.listed,
		Attached: b.attached,
	}
	for k, v := range b.opts {
		st.Options[k] = v
	}
	for k, v := range b.vars {
		st.Vars[k] = v
	}
	return st, true
}

// Window returns a snapshot of the window, or false when it does not
// exist.
func (f *Fake) Window(id backend.WindowID) (WindowState, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.wins[id]
	if !ok {
		return WindowState{}, false
	}
	st := WindowState{
		Buffer:     w.buf,
		CursorLine: w.cursorLine,
		CursorCol:  w.cursorCol,
		TopLine:    w.topLine,
		Width:      w.width,
		Height:     w.height,
		Options:    make(map[string]any, len(w.opts)),
	}
	for k, v := range w.opts {
		st.Options[k] = v
	}
	return st, true
}

// GlobalVar returns a global variable set via SetVar.
func (f *Fake) GlobalVar(name string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vars[name]
	return v, ok
}

// EmitRedraw delivers a redraw batch to the registered handler.
func (f *Fake) EmitRedraw(updates [][]any) {
	f.mu.Lock()
	fn := f.redraw
	f.mu.Unlock()
	if fn != nil {
		fn(updates)
	}
}

// EmitBufferLines delivers a buffer change event.
func (f *Fake) EmitBufferLines(ev backend.BufferLinesEvent) {
	f.mu.Lock()
	fn := f.bufLines
	f.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

// EmitBufferDetach delivers a buffer detach event.
func (f *Fake) EmitBufferDetach(buf backend.BufferID) {
	f.mu.Lock()
	fn := f.bufDetach
	f.mu.Unlock()
	if fn != nil {
		fn(buf)
	}
}

// Notify delivers a named broadcast notification.
func (f *Fake) Notify(name string, args ...any) {
	f.mu.Lock()
	fn := f.notify[name]
	f.mu.Unlock()
	if fn != nil {
		fn(args)
	}
}

func (f *Fake) CreateBuffer(listed, scratch bool) (backend.BufferID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateBuffer", listed, scratch)
	if err := f.takeFailure("CreateBuffer"); err != nil {
		return 0, err
	}
	f.nextBuf++
	b := newFakeBuffer()
	b.listed = listed
	f.bufs[f.nextBuf] = b
	return f.nextBuf, nil
}

func (f *Fake) BufferLines(buf backend.BufferID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("BufferLines", buf)
	if err := f.takeFailure("BufferLines"); err != nil {
		return nil, err
	}
	b, ok := f.bufs[buf]
	if !ok {
		return nil, fmt.Errorf("%w: %d", backend.ErrUnknownBuffer, buf)
	}
	return append([]string(nil), b.lines...), nil
}

func (f *Fake) SetBufferLines(buf backend.BufferID, start, end int, lines []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SetBufferLines", buf, start, end, lines)
	if err := f.takeFailure("SetBufferLines"); err != nil {
		return err
	}
	return f.applySetLines(buf, start, end, lines)
}

func (f *Fake) applySetLines(buf backend.BufferID, start, end int, lines []string) error {
	b, ok := f.bufs[buf]
	if !ok {
		return fmt.Errorf("%w: %d", backend.ErrUnknownBuffer, buf)
	}
	if end == -1 {
		end = len(b.lines)
	}
	if start < 0 || start > len(b.lines) || end < start || end > len(b.lines) {
		return fmt.Errorf("line range [%d, %d) out of bounds", start, end)
	}
	next := make([]string, 0, len(b.lines)-(end-start)+len(lines))
	next = append(next, b.lines[:start]...)
	next = append(next, lines...)
	next = append(next, b.lines[end:]...)
	if len(next) == 0 {
		next = []string{""}
	}
	b.lines = next
	return nil
}

func (f *Fake) BufferLineCount(buf backend.BufferID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("BufferLineCount", buf)
	b, ok := f.bufs[buf]
	if !ok {
		return 0, fmt.Errorf("%w: %d", backend.ErrUnknownBuffer, buf)
	}
	return len(b.lines), nil
}

func (f *Fake) BufferName(buf backend.BufferID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("BufferName", buf)
	if err := f.takeFailure("BufferName"); err != nil {
		return "", err
	}
	b, ok := f.bufs[buf]
	if !ok {
		return "", fmt.Errorf("%w: %d", backend.ErrUnknownBuffer, buf)
	}
	return b.name, nil
}

func (f *Fake) SetBufferName(buf backend.BufferID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SetBufferName", buf, name)
	if err := f.takeFailure("SetBufferName"); err != nil {
		return err
	}
	b, ok := f.bufs[buf]
	if !ok {
		return fmt.Errorf("%w: %d", backend.ErrUnknownBuffer, buf)
	}
	b.name = name
	return nil
}

func (f *Fake) SetBufferOption(buf backend.BufferID, name string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SetBufferOption", buf, name, value)
	if err := f.takeFailure("SetBufferOption"); err != nil {
		return err
	}
	b, ok := f.bufs[buf]
	if !ok {
		return fmt.Errorf("%w: %d", backend.ErrUnknownBuffer, buf)
	}
	b.opts[name] = value
	if name == "buflisted" {
		b.listed, _ = value.(bool)
	}
	return nil
}

func (f *Fake) BufferOption(buf backend.BufferID, name string, result any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("BufferOption", buf, name)
	b, ok := f.bufs[buf]
	if !ok {
		return fmt.Errorf("%w: %d", backend.ErrUnknownBuffer, buf)
	}
	v, ok := b.opts[name]
	if !ok {
		return nil
	}
	switch out := result.(type) {
	case *bool:
		if bv, ok := v.(bool); ok {
			*out = bv
		}
	case *int:
		if iv, ok := v.(int); ok {
			*out = iv
		}
	case *string:
		if sv, ok := v.(string); ok {
			*out = sv
		}
	}
	return nil
}

func (f *Fake) SetBufferVar(buf backend.BufferID, name string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SetBufferVar", buf, name, value)
	if err := f.takeFailure("SetBufferVar"); err != nil {
		return err
	}
	b, ok := f.bufs[buf]
	if !ok {
		return fmt.Errorf("%w: %d", backend.ErrUnknownBuffer, buf)
	}
	b.vars[name] = value
	return nil
}

func (f *Fake) Buffers() ([]backend.BufferID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Buffers")
	ids := make([]backend.BufferID, 0, len(f.bufs))
	for id := range f.bufs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *Fake) DeleteBuffer(buf backend.BufferID, force bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteBuffer", buf, force)
	if err := f.takeFailure("DeleteBuffer"); err != nil {
		return err
	}
	if _, ok := f.bufs[buf]; !ok {
		return fmt.Errorf("%w: %d", backend.ErrUnknownBuffer, buf)
	}
	delete(f.bufs, buf)
	return nil
}

func (f *Fake) AttachBuffer(buf backend.BufferID, sendBuffer bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("AttachBuffer", buf, sendBuffer)
	if err := f.takeFailure("AttachBuffer"); err != nil {
		return false, err
	}
	b, ok := f.bufs[buf]
	if !ok {
		return false, fmt.Errorf("%w: %d", backend.ErrUnknownBuffer, buf)
	}
	b.attached = true
	return true, nil
}

func (f *Fake) DetachBuffer(buf backend.BufferID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DetachBuffer", buf)
	b, ok := f.bufs[buf]
	if !ok {
		return false, nil
	}
	b.attached = false
	return true, nil
}

func (f *Fake) IsBufferLoaded(buf backend.BufferID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("IsBufferLoaded", buf)
	_, ok := f.bufs[buf]
	return ok, nil
}

func (f *Fake) OpenWindow(buf backend.BufferID, enter bool, width, height int) (backend.WindowID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("OpenWindow", buf, enter, width, height)
	if err := f.takeFailure("OpenWindow"); err != nil {
		return 0, err
	}
	return f.applyOpenWindow(buf, enter, width, height)
}

func (f *Fake) applyOpenWindow(buf backend.BufferID, enter bool, width, height int) (backend.WindowID, error) {
	if _, ok := f.bufs[buf]; !ok {
		return 0, fmt.Errorf("%w: %d", backend.ErrUnknownBuffer, buf)
	}
	f.nextWin++
	f.wins[f.nextWin] = &fakeWindow{buf: buf, width: width, height: height}
	if enter {
		f.current = f.nextWin
	}
	return f.nextWin, nil
}

func (f *Fake) CloseWindow(win backend.WindowID, force bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CloseWindow", win, force)
	if err := f.takeFailure("CloseWindow"); err != nil {
		return err
	}
	return f.applyCloseWindow(win)
}

func (f *Fake) applyCloseWindow(win backend.WindowID) error {
	if _, ok := f.wins[win]; !ok {
		return fmt.Errorf("%w: %d", backend.ErrUnknownWindow, win)
	}
	delete(f.wins, win)
	return nil
}

func (f *Fake) Windows() ([]backend.WindowID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Windows")
	ids := make([]backend.WindowID, 0, len(f.wins))
	for id := range f.wins {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *Fake) WindowBuffer(win backend.WindowID) (backend.BufferID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("WindowBuffer", win)
	if err := f.takeFailure("WindowBuffer"); err != nil {
		return 0, err
	}
	w, ok := f.wins[win]
	if !ok {
		return 0, fmt.Errorf("%w: %d", backend.ErrUnknownWindow, win)
	}
	return w.buf, nil
}

func (f *Fake) SetWindowBuffer(win backend.WindowID, buf backend.BufferID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SetWindowBuffer", win, buf)
	if err := f.takeFailure("SetWindowBuffer"); err != nil {
		return err
	}
	return f.applySetWindowBuffer(win, buf)
}

func (f *Fake) applySetWindowBuffer(win backend.WindowID, buf backend.BufferID) error {
	w, ok := f.wins[win]
	if !ok {
		return fmt.Errorf("%w: %d", backend.ErrUnknownWindow, win)
	}
	if _, ok := f.bufs[buf]; !ok {
		return fmt.Errorf("%w: %d", backend.ErrUnknownBuffer, buf)
	}
	w.buf = buf
	return nil
}

func (f *Fake) CurrentWindow() (backend.WindowID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CurrentWindow")
	if err := f.takeFailure("CurrentWindow"); err != nil {
		return 0, err
	}
	return f.current, nil
}

func (f *Fake) SetCurrentWindow(win backend.WindowID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SetCurrentWindow", win)
	if err := f.takeFailure("SetCurrentWindow"); err != nil {
		return err
	}
	if _, ok := f.wins[win]; !ok {
		return fmt.Errorf("%w: %d", backend.ErrUnknownWindow, win)
	}
	f.current = win
	return nil
}

func (f *Fake) WindowCursor(win backend.WindowID) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("WindowCursor", win)
	if err := f.takeFailure("WindowCursor"); err != nil {
		return 0, 0, err
	}
	w, ok := f.wins[win]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %d", backend.ErrUnknownWindow, win)
	}
	return w.cursorLine, w.cursorCol, nil
}

func (f *Fake) SetWindowCursor(win backend.WindowID, line, col int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SetWindowCursor", win, line, col)
	if err := f.takeFailure("SetWindowCursor"); err != nil {
		return err
	}
	return f.applySetWindowCursor(win, line, col)
}

func (f *Fake) applySetWindowCursor(win backend.WindowID, line, col int) error {
	w, ok := f.wins[win]
	if !ok {
		return fmt.Errorf("%w: %d", backend.ErrUnknownWindow, win)
	}
	w.cursorLine, w.cursorCol = line, col
	return nil
}

func (f *Fake) IsWindowValid(win backend.WindowID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("IsWindowValid", win)
	_, ok := f.wins[win]
	return ok, nil
}

func (f *Fake) SetWindowOption(win backend.WindowID, name string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SetWindowOption", win, name, value)
	if err := f.takeFailure("SetWindowOption"); err != nil {
		return err
	}
	return f.applySetWindowOption(win, name, value)
}

func (f *Fake) applySetWindowOption(win backend.WindowID, name string, value any) error {
	w, ok := f.wins[win]
	if !ok {
		return fmt.Errorf("%w: %d", backend.ErrUnknownWindow, win)
	}
	if w.opts == nil {
		w.opts = make(map[string]any)
	}
	w.opts[name] = value
	return nil
}

func (f *Fake) SetViewport(win backend.WindowID, topLine, bottomLine int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SetViewport", win, topLine, bottomLine)
	if err := f.takeFailure("SetViewport"); err != nil {
		return err
	}
	w, ok := f.wins[win]
	if !ok {
		return fmt.Errorf("%w: %d", backend.ErrUnknownWindow, win)
	}
	w.topLine = topLine
	return nil
}

func (f *Fake) Command(cmd string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Command", cmd)
	return f.takeFailure("Command")
}

func (f *Fake) ExecLua(code string, result any, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ExecLua", code, args)
	return f.takeFailure("ExecLua")
}

func (f *Fake) Input(keys string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Input", keys)
	return f.takeFailure("Input")
}

// Inputs returns the keys sent through Input, in order.
func (f *Fake) Inputs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if c.Name == "Input" {
			out = append(out, c.Args[0].(string))
		}
	}
	return out
}

func (f *Fake) SetVar(name string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SetVar", name, value)
	if err := f.takeFailure("SetVar"); err != nil {
		return err
	}
	f.vars[name] = value
	return nil
}

func (f *Fake) ChannelID() int {
	return 1
}

func (f *Fake) Mode() (backend.Mode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Mode")
	if err := f.takeFailure("Mode"); err != nil {
		return backend.Mode{}, err
	}
	return f.mode, nil
}

func (f *Fake) AttachUI(width, height int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("AttachUI", width, height)
	return f.takeFailure("AttachUI")
}

func (f *Fake) NewBatch() backend.Batch {
	return &FakeBatch{f: f}
}

func (f *Fake) OnRedraw(fn func(updates [][]any)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.redraw = fn
	return nil
}

func (f *Fake) OnBufferLines(fn func(ev backend.BufferLinesEvent)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bufLines = fn
	return nil
}

func (f *Fake) OnBufferDetach(fn func(buf backend.BufferID)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bufDetach = fn
	return nil
}

func (f *Fake) OnNotify(name string, fn func(args []any)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notify[name] = fn
	return nil
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Close")
	return nil
}

// FakeBatch records calls and applies them to the fake on Execute. A
// failure queued under "Batch.Execute" fails the whole batch with no
// state applied.
type FakeBatch struct {
	f     *Fake
	group []Call
	apply []func() error
}

func (b *FakeBatch) add(name string, apply func() error, args ...any) {
	b.group = append(b.group, Call{Name: name, Args: args})
	b.apply = append(b.apply, apply)
}

func (b *FakeBatch) CreateBuffer(listed, scratch bool, out *backend.BufferID) {
	b.add("CreateBuffer", func() error {
		b.f.nextBuf++
		fb := newFakeBuffer()
		fb.listed = listed
		b.f.bufs[b.f.nextBuf] = fb
		*out = b.f.nextBuf
		return nil
	}, listed, scratch)
}

func (b *FakeBatch) SetBufferLines(buf backend.BufferID, start, end int, lines []string) {
	b.add("SetBufferLines", func() error {
		return b.f.applySetLines(buf, start, end, lines)
	}, buf, start, end, lines)
}

func (b *FakeBatch) SetBufferName(buf backend.BufferID, name string) {
	b.add("SetBufferName", func() error {
		fb, ok := b.f.bufs[buf]
		if !ok {
			return fmt.Errorf("%w: %d", backend.ErrUnknownBuffer, buf)
		}
		fb.name = name
		return nil
	}, buf, name)
}

func (b *FakeBatch) SetBufferOption(buf backend.BufferID, name string, value any) {
	b.add("SetBufferOption", func() error {
		fb, ok := b.f.bufs[buf]
		if !ok {
			return fmt.Errorf("%w: %d", backend.ErrUnknownBuffer, buf)
		}
		fb.opts[name] = value
		return nil
	}, buf, name, value)
}

func (b *FakeBatch) SetBufferVar(buf backend.BufferID, name string, value any) {
	b.add("SetBufferVar", func() error {
		fb, ok := b.f.bufs[buf]
		if !ok {
			return fmt.Errorf("%w: %d", backend.ErrUnknownBuffer, buf)
		}
		fb.vars[name] = value
		return nil
	}, buf, name, value)
}

func (b *FakeBatch) DeleteBuffer(buf backend.BufferID, force bool) {
	b.add("DeleteBuffer", func() error {
		if _, ok := b.f.bufs[buf]; !ok {
			return fmt.Errorf("%w: %d", backend.ErrUnknownBuffer, buf)
		}
		delete(b.f.bufs, buf)
		return nil
	}, buf, force)
}

func (b *FakeBatch) AttachBuffer(buf backend.BufferID, sendBuffer bool, out *bool) {
	b.add("AttachBuffer", func() error {
		fb, ok := b.f.bufs[buf]
		if !ok {
			return fmt.Errorf("%w: %d", backend.ErrUnknownBuffer, buf)
		}
		fb.attached = true
		*out = true
		return nil
	}, buf, sendBuffer)
}

func (b *FakeBatch) OpenWindow(buf backend.BufferID, enter bool, width, height int, out *backend.WindowID) {
	b.add("OpenWindow", func() error {
		win, err := b.f.applyOpenWindow(buf, enter, width, height)
		if err != nil {
			return err
		}
		*out = win
		return nil
	}, buf, enter, width, height)
}

func (b *FakeBatch) CloseWindow(win backend.WindowID, force bool) {
	b.add("CloseWindow", func() error {
		return b.f.applyCloseWindow(win)
	}, win, force)
}

func (b *FakeBatch) SetWindowBuffer(win backend.WindowID, buf backend.BufferID) {
	b.add("SetWindowBuffer", func() error {
		return b.f.applySetWindowBuffer(win, buf)
	}, win, buf)
}

func (b *FakeBatch) SetWindowCursor(win backend.WindowID, line, col int) {
	b.add("SetWindowCursor", func() error {
		return b.f.applySetWindowCursor(win, line, col)
	}, win, line, col)
}

func (b *FakeBatch) SetWindowOption(win backend.WindowID, name string, value any) {
	b.add("SetWindowOption", func() error {
		return b.f.applySetWindowOption(win, name, value)
	}, win, name, value)
}

func (b *FakeBatch) SetCurrentWindow(win backend.WindowID) {
	b.add("SetCurrentWindow", func() error {
		if _, ok := b.f.wins[win]; !ok {
			return fmt.Errorf("%w: %d", backend.ErrUnknownWindow, win)
		}
		b.f.current = win
		return nil
	}, win)
}

func (b *FakeBatch) Command(cmd string) {
	b.add("Command", func() error { return nil }, cmd)
}

func (b *FakeBatch) ExecLua(code string, args ...any) {
	b.add("ExecLua", func() error { return nil }, code, args)
}

func (b *FakeBatch) Execute() error {
	b.f.mu.Lock()
	defer b.f.mu.Unlock()

	names := make([]any, len(b.group))
	for i, c := range b.group {
		names[i] = c.Name
	}
	b.f.record("batch", names...)
	b.f.batches = append(b.f.batches, b.group)

	if err := b.f.takeFailure("Batch.Execute"); err != nil {
		b.group, b.apply = nil, nil
		return err
	}
	for _, apply := range b.apply {
		if err := apply(); err != nil {
			b.group, b.apply = nil, nil
			return err
		}
	}
	b.group, b.apply = nil, nil
	return nil
}
