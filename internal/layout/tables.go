package layout

import (
	"sync"

	"github.com/SYK-08/vscode-neovim/internal/backend"
	"github.com/SYK-08/vscode-neovim/internal/host"
)

// Tables holds the bidirectional mappings between host and backend
// resources. Every binding is one-to-one in both directions: rebinding
// either side of a pair silently drops the stale partner entry, so the
// maps can never disagree with each other.
//
// Tables also satisfies viewport.Lookup.
type Tables struct {
	mu sync.RWMutex

	bufByDoc map[string]backend.BufferID
	docByBuf map[backend.BufferID]*host.Document

	winByEd map[host.EditorID]backend.WindowID
	edByWin map[backend.WindowID]*host.Editor

	winByGrid map[backend.GridID]backend.WindowID
	gridByWin map[backend.WindowID]backend.GridID
}

// NewTables returns empty mapping tables.
func NewTables() *Tables {
	return &Tables{
		bufByDoc:  make(map[string]backend.BufferID),
		docByBuf:  make(map[backend.BufferID]*host.Document),
		winByEd:   make(map[host.EditorID]backend.WindowID),
		edByWin:   make(map[backend.WindowID]*host.Editor),
		winByGrid: make(map[backend.GridID]backend.WindowID),
		gridByWin: make(map[backend.WindowID]backend.GridID),
	}
}

// SetDocumentBuffer binds doc to buf, displacing any previous binding
// on either side.
func (t *Tables) SetDocumentBuffer(doc *host.Document, buf backend.BufferID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	uri := doc.URI()
	if old, ok := t.bufByDoc[uri]; ok {
		delete(t.docByBuf, old)
	}
	if old, ok := t.docByBuf[buf]; ok {
		delete(t.bufByDoc, old.URI())
	}
	t.bufByDoc[uri] = buf
	t.docByBuf[buf] = doc
}

// BufferForDocument returns the buffer bound to the document URI.
func (t *Tables) BufferForDocument(uri string) (backend.BufferID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	buf, ok := t.bufByDoc[uri]
	return buf, ok
}

// DocumentForBuffer returns the document bound to buf.
func (t *Tables) DocumentForBuffer(buf backend.BufferID) (*host.Document, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	doc, ok := t.docByBuf[buf]
	return doc, ok
}

// DeleteDocument removes the document's binding and returns the buffer
// it was bound to.
func (t *Tables) DeleteDocument(uri string) (backend.BufferID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	buf, ok := t.bufByDoc[uri]
	if !ok {
		return 0, false
	}
	delete(t.bufByDoc, uri)
	delete(t.docByBuf, buf)
	return buf, true
}

// Documents returns every mapped document.
func (t *Tables) Documents() []*host.Document {
	t.mu.RLock()
	defer t.mu.RUnlock()
	docs := make([]*host.Document, 0, len(t.docByBuf))
	for _, doc := range t.docByBuf {
		docs = append(docs, doc)
	}
	return docs
}

// SetEditorWindow binds ed to win, displacing any previous binding on
// either side.
func (t *Tables) SetEditorWindow(ed *host.Editor, win backend.WindowID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := ed.ID()
	if old, ok := t.winByEd[id]; ok {
		delete(t.edByWin, old)
	}
	if old, ok := t.edByWin[win]; ok {
		delete(t.winByEd, old.ID())
	}
	t.winByEd[id] = win
	t.edByWin[win] = ed
}

// WindowForEditor returns the window bound to the editor.
func (t *Tables) WindowForEditor(id host.EditorID) (backend.WindowID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	win, ok := t.winByEd[id]
	return win, ok
}

// EditorForWindow returns the editor bound to win.
func (t *Tables) EditorForWindow(win backend.WindowID) (*host.Editor, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ed, ok := t.edByWin[win]
	return ed, ok
}

// DeleteEditor removes the editor's binding and returns the window it
// was bound to.
func (t *Tables) DeleteEditor(id host.EditorID) (backend.WindowID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	win, ok := t.winByEd[id]
	if !ok {
		return 0, false
	}
	delete(t.winByEd, id)
	delete(t.edByWin, win)
	return win, true
}

// Editors returns every mapped editor.
func (t *Tables) Editors() []*host.Editor {
	t.mu.RLock()
	defer t.mu.RUnlock()
	eds := make([]*host.Editor, 0, len(t.edByWin))
	for _, ed := range t.edByWin {
		eds = append(eds, ed)
	}
	return eds
}

// SetGridWindow binds grid to win, displacing any previous binding on
// either side.
func (t *Tables) SetGridWindow(grid backend.GridID, win backend.WindowID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if old, ok := t.winByGrid[grid]; ok {
		delete(t.gridByWin, old)
	}
	if old, ok := t.gridByWin[win]; ok {
		delete(t.winByGrid, old)
	}
	t.winByGrid[grid] = win
	t.gridByWin[win] = grid
}

// WindowForGrid returns the window bound to grid.
func (t *Tables) WindowForGrid(grid backend.GridID) (backend.WindowID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	win, ok := t.winByGrid[grid]
	return win, ok
}

// GridForWindow returns the grid bound to win.
func (t *Tables) GridForWindow(win backend.WindowID) (backend.GridID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	grid, ok := t.gridByWin[win]
	return grid, ok
}

// DeleteGrid removes the grid's binding.
func (t *Tables) DeleteGrid(grid backend.GridID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if win, ok := t.winByGrid[grid]; ok {
		delete(t.gridByWin, win)
	}
	delete(t.winByGrid, grid)
}

// DeleteWindowGrid removes the grid binding for win, if any.
func (t *Tables) DeleteWindowGrid(win backend.WindowID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if grid, ok := t.gridByWin[win]; ok {
		delete(t.winByGrid, grid)
	}
	delete(t.gridByWin, win)
}
