package layout

import (
	"context"
	"sort"

	"github.com/SYK-08/vscode-neovim/internal/backend"
	"github.com/SYK-08/vscode-neovim/internal/host"
)

// undoClearChunk wipes a buffer's undo history so the initial content
// load cannot be undone into an empty buffer. It makes a no-op edit
// with undo disabled, which discards the existing tree.
const undoClearChunk = `
local buf = ...
local old = vim.api.nvim_buf_get_option(buf, 'undolevels')
vim.api.nvim_buf_set_option(buf, 'undolevels', -1)
vim.api.nvim_buf_set_lines(buf, 0, 0, true, {})
vim.api.nvim_buf_set_option(buf, 'undolevels', old)
`

func (r *Reconciler) syncLayout() {
	sig, tok := r.beginLayoutRun()
	err := r.runLayout(tok)
	if tok.Cancelled() {
		r.log.Debug("layout run superseded")
		return
	}
	if err != nil {
		r.log.Error("layout run: %v", err)
	}
	sig.Resolve(err)
}

// runLayout diffs the host's visible editors against the mapping tables
// and closes the gap: buffers for new documents, windows for new
// editors, buffer switches for reused windows, then bulk teardown of
// what the host no longer shows. The token is checked between steps so
// a superseded run stops issuing calls.
func (r *Reconciler) runLayout(tok *Token) error {
	visible := r.ui.VisibleEditors()

	seen := make(map[string]bool, len(visible))
	for _, ed := range visible {
		doc := ed.Document()
		if doc == nil || doc.Closed() || seen[doc.URI()] {
			continue
		}
		seen[doc.URI()] = true
		if _, ok := r.tables.BufferForDocument(doc.URI()); ok {
			continue
		}
		if tok.Cancelled() {
			return ErrSuperseded
		}
		if _, err := r.attachDocument(doc, ed); err != nil {
			r.log.Error("document attach %s: %v", doc.URI(), err)
		}
	}

	for _, ed := range visible {
		if tok.Cancelled() {
			return ErrSuperseded
		}
		doc := ed.Document()
		if doc == nil || doc.Closed() {
			continue
		}
		buf, ok := r.tables.BufferForDocument(doc.URI())
		if !ok {
			continue
		}
		win, ok := r.tables.WindowForEditor(ed.ID())
		if ok {
			if valid, err := r.client.IsWindowValid(win); err != nil || !valid {
				r.tables.DeleteEditor(ed.ID())
				r.tables.DeleteWindowGrid(win)
				ok = false
			}
		}
		if !ok {
			if _, err := r.openEditorWindow(ed, buf); err != nil {
				r.log.Error("window open for editor %d: %v", int(ed.ID()), err)
			}
			continue
		}
		cur, err := r.client.WindowBuffer(win)
		if err != nil {
			r.log.Warn("window %d buffer query: %v", int(win), err)
			continue
		}
		if cur != buf {
			if err := r.client.SetWindowBuffer(win, buf); err != nil {
				r.log.Error("window %d buffer switch: %v", int(win), err)
			}
		}
	}

	if tok.Cancelled() {
		return ErrSuperseded
	}
	r.teardown(visible)
	return nil
}

// attachDocument creates and initializes a backend buffer for doc. The
// initialization runs as one atomic batch so no redraw or change event
// can observe a half-initialized buffer. Indentation options are
// asserted a second time after the change feed attach because assigning
// the buffer name triggers filetype detection, whose ftplugin may have
// overridden them.
func (r *Reconciler) attachDocument(doc *host.Document, ed *host.Editor) (backend.BufferID, error) {
	// Unlisted and scratch at birth. The buffer surfaces in the list
	// only once the batch below has fully shaped it.
	buf, err := r.client.CreateBuffer(false, true)
	if err != nil {
		return 0, err
	}

	b := r.client.NewBatch()
	b.SetBufferLines(buf, 0, -1, doc.Lines())
	b.SetBufferVar(buf, "vscode_controlled", true)
	b.SetBufferName(buf, doc.URI())
	b.SetBufferOption(buf, "modifiable", !doc.External())
	b.SetBufferOption(buf, "buflisted", true)
	applyTabOptions(b, buf, ed.Tab())
	b.ExecLua(undoClearChunk, int(buf))
	if err := b.Execute(); err != nil {
		if derr := r.client.DeleteBuffer(buf, true); derr != nil {
			r.log.Warn("orphaned buffer %d cleanup: %v", int(buf), derr)
		}
		return 0, err
	}

	if _, err := r.client.AttachBuffer(buf, false); err != nil {
		r.log.Warn("change feed attach for buffer %d: %v", int(buf), err)
	}

	b = r.client.NewBatch()
	applyTabOptions(b, buf, ed.Tab())
	if err := b.Execute(); err != nil {
		r.log.Warn("option reassert for buffer %d: %v", int(buf), err)
	}

	r.tables.SetDocumentBuffer(doc, buf)
	r.log.Debug("document %s attached as buffer %d", doc.URI(), int(buf))
	return buf, nil
}

// openEditorWindow creates the external window for an editor and seeds
// its options and cursor in one batch.
func (r *Reconciler) openEditorWindow(ed *host.Editor, buf backend.BufferID) (backend.WindowID, error) {
	win, err := r.client.OpenWindow(buf, false, r.cfg.ViewportWidth, r.cfg.WindowHeight)
	if err != nil {
		return 0, err
	}
	r.tables.SetEditorWindow(ed, win)

	line, col := backendCursor(ed.Document(), ed.Cursor())
	b := r.client.NewBatch()
	applyNumberOptions(b, win, ed.Numbers())
	b.SetWindowCursor(win, line, col)
	if err := b.Execute(); err != nil {
		r.log.Warn("window %d init: %v", int(win), err)
	}
	r.log.Debug("editor %d bound to window %d", int(ed.ID()), int(win))
	return win, nil
}

// teardown reclaims windows of editors the host no longer shows and
// buffers of closed documents, in a single bulk batch. Mappings are
// dropped before the batch lands so no event handler resolves a dying
// window or buffer, and they stay dropped even when the batch fails;
// the resources are being discarded and the next run can retry.
func (r *Reconciler) teardown(visible []*host.Editor) {
	vis := make(map[host.EditorID]bool, len(visible))
	for _, ed := range visible {
		vis[ed.ID()] = true
	}

	var staleWins []backend.WindowID
	for _, ed := range r.tables.Editors() {
		if vis[ed.ID()] {
			continue
		}
		if win, ok := r.tables.WindowForEditor(ed.ID()); ok {
			staleWins = append(staleWins, win)
		}
	}
	sort.Slice(staleWins, func(i, j int) bool { return staleWins[i] < staleWins[j] })

	var deadDocs []string
	var deadBufs []backend.BufferID
	for _, doc := range r.tables.Documents() {
		if !doc.Closed() {
			continue
		}
		if buf, ok := r.tables.BufferForDocument(doc.URI()); ok {
			deadDocs = append(deadDocs, doc.URI())
			deadBufs = append(deadBufs, buf)
		}
	}
	sort.Slice(deadBufs, func(i, j int) bool { return deadBufs[i] < deadBufs[j] })
	sort.Strings(deadDocs)

	if len(staleWins) == 0 && len(deadBufs) == 0 {
		return
	}

	for _, win := range staleWins {
		if ed, ok := r.tables.EditorForWindow(win); ok {
			r.tables.DeleteEditor(ed.ID())
			r.forgetEditorOptions(ed.ID())
		}
		r.tables.DeleteWindowGrid(win)
	}
	for _, uri := range deadDocs {
		r.tables.DeleteDocument(uri)
		r.dropLock(uri)
	}

	b := r.client.NewBatch()
	for _, win := range staleWins {
		b.CloseWindow(win, true)
	}
	for _, buf := range deadBufs {
		b.DeleteBuffer(buf, true)
	}
	if err := b.Execute(); err != nil {
		r.log.Warn("layout teardown: %v", err)
	}
	r.log.Debug("tore down %d windows, %d buffers", len(staleWins), len(deadBufs))
}

func (r *Reconciler) forgetEditorOptions(id host.EditorID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lastOpts, id)
}

func (r *Reconciler) dropLock(uri string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.locks[uri]; ok {
		s.Resolve(nil)
		delete(r.locks, uri)
	}
}

func (r *Reconciler) syncActive() {
	sig, tok := r.beginActiveRun()
	err := r.runActive(tok)
	if tok.Cancelled() {
		r.log.Debug("active run superseded")
		return
	}
	if err != nil {
		r.log.Error("active editor sync: %v", err)
	}
	sig.Resolve(err)
}

// runActive focuses the backend window of the host's active editor and
// pushes its cursor. It queues behind any outstanding layout run so the
// editor-window mapping is settled first. A missing mapping is a
// desynchronization: reported, but the run still resolves so waiters
// are not stranded.
func (r *Reconciler) runActive(tok *Token) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.SyncWait)
	defer cancel()
	if err := r.layoutSignalRef().Wait(ctx); err != nil && ctx.Err() != nil {
		return ErrSyncTimeout
	}
	if tok.Cancelled() {
		return ErrSuperseded
	}

	ed := r.ui.ActiveEditor()
	if ed == nil {
		return nil
	}
	win, ok := r.tables.WindowForEditor(ed.ID())
	if !ok {
		return &DesyncError{Table: "editor-window", Key: ed.ID()}
	}

	line, col := backendCursor(ed.Document(), ed.Cursor())
	b := r.client.NewBatch()
	b.SetWindowCursor(win, line, col)
	b.SetCurrentWindow(win)
	return b.Execute()
}

// PushCursor writes ed's cursor to its mapped window immediately,
// outside the debounced active sync. The input router calls this when
// insert mode exits so the final host cursor lands before the exit key
// is sent.
func (r *Reconciler) PushCursor(ed *host.Editor) error {
	if ed == nil {
		return nil
	}
	win, ok := r.tables.WindowForEditor(ed.ID())
	if !ok {
		return &DesyncError{Table: "editor-window", Key: ed.ID()}
	}
	line, col := backendCursor(ed.Document(), ed.Cursor())
	return r.client.SetWindowCursor(win, line, col)
}

// syncOptions pushes an editor's indentation and line-number options
// when they differ from the last push.
func (r *Reconciler) syncOptions(ed *host.Editor) {
	doc := ed.Document()
	if doc == nil {
		return
	}
	buf, ok := r.tables.BufferForDocument(doc.URI())
	if !ok {
		return
	}
	opts := editorOptions{tab: ed.Tab(), num: ed.Numbers()}
	r.mu.Lock()
	if last, seen := r.lastOpts[ed.ID()]; seen && last == opts {
		r.mu.Unlock()
		return
	}
	r.lastOpts[ed.ID()] = opts
	r.mu.Unlock()

	b := r.client.NewBatch()
	applyTabOptions(b, buf, opts.tab)
	if win, ok := r.tables.WindowForEditor(ed.ID()); ok {
		applyNumberOptions(b, win, opts.num)
	}
	if err := b.Execute(); err != nil {
		r.log.Warn("option push for %s: %v", doc.URI(), err)
	}
}

func applyTabOptions(b backend.Batch, buf backend.BufferID, tab host.TabConfig) {
	b.SetBufferOption(buf, "expandtab", tab.InsertSpaces)
	b.SetBufferOption(buf, "tabstop", tab.TabSize)
	b.SetBufferOption(buf, "shiftwidth", tab.TabSize)
}

func applyNumberOptions(b backend.Batch, win backend.WindowID, n host.LineNumbers) {
	b.SetWindowOption(win, "number", n == host.NumbersAbsolute)
	b.SetWindowOption(win, "relativenumber", n == host.NumbersRelative)
}

// backendCursor converts a host cursor position to the backend's
// zero-indexed line and byte column, clamped to the document.
func backendCursor(doc *host.Document, p host.Position) (line, col int) {
	if doc == nil {
		return 0, 0
	}
	line = p.Line
	if n := doc.LineCount(); line >= n {
		line = n - 1
	}
	if line < 0 {
		line = 0
	}
	text, _ := doc.Line(line)
	return line, byteColumn(text, p.Col)
}

// byteColumn converts a character column to a byte offset within line.
func byteColumn(line string, charCol int) int {
	if charCol <= 0 {
		return 0
	}
	n := 0
	for i := range line {
		if n == charCol {
			return i
		}
		n++
	}
	return len(line)
}

// charColumn converts a byte offset within line to a character column.
func charColumn(line string, byteCol int) int {
	if byteCol <= 0 {
		return 0
	}
	n := 0
	for i := range line {
		if i >= byteCol {
			break
		}
		n++
	}
	return n
}
