package host

import "sync"

// EditorID is a host-assigned handle for an editor pane.
type EditorID int

// Position is a zero-indexed line and column within a document.
type Position struct {
	Line int
	Col  int
}

// LineRange is an inclusive zero-indexed span of document lines.
type LineRange struct {
	Start int
	End   int
}

// Lines returns the number of lines the range spans.
func (r LineRange) Lines() int {
	return r.End - r.Start + 1
}

// LineNumbers is an editor's line number display mode.
type LineNumbers int

const (
	NumbersOff LineNumbers = iota
	NumbersAbsolute
	NumbersRelative
)

// TabConfig is the per-editor indentation configuration mirrored into
// backend buffer options.
type TabConfig struct {
	// InsertSpaces reports whether the tab key inserts spaces.
	InsertSpaces bool
	// TabSize is the display width of a tab, and the indent width when
	// InsertSpaces is set.
	TabSize int
}

// Editor is the host-side view of an editor pane showing a document.
//
// Thread-safety: all methods are safe for concurrent use.
type Editor struct {
	mu      sync.RWMutex
	id      EditorID
	doc     *Document
	column  int
	tab     TabConfig
	numbers LineNumbers
	cursor  Position
	visible LineRange
	folded  int
}

// NewEditor creates an editor showing doc in the given view column.
func NewEditor(id EditorID, doc *Document, column int) *Editor {
	return &Editor{
		id:     id,
		doc:    doc,
		column: column,
		tab:    TabConfig{InsertSpaces: true, TabSize: 4},
	}
}

// ID returns the host-assigned editor handle.
func (e *Editor) ID() EditorID {
	return e.id
}

// Document returns the document the editor shows.
func (e *Editor) Document() *Document {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc
}

// Column returns the editor's view column in the host layout.
func (e *Editor) Column() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.column
}

// SetColumn records the editor's view column.
func (e *Editor) SetColumn(column int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.column = column
}

// Tab returns the editor's indentation configuration.
func (e *Editor) Tab() TabConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tab
}

// SetTab records the editor's indentation configuration.
func (e *Editor) SetTab(tab TabConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tab = tab
}

// Numbers returns the editor's line number display mode.
func (e *Editor) Numbers() LineNumbers {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.numbers
}

// SetNumbers records the editor's line number display mode.
func (e *Editor) SetNumbers(n LineNumbers) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.numbers = n
}

// Cursor returns the editor's cursor position.
func (e *Editor) Cursor() Position {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursor
}

// SetCursor records the editor's cursor position.
func (e *Editor) SetCursor(p Position) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursor = p
}

// VisibleRange returns the editor's visible line span.
func (e *Editor) VisibleRange() LineRange {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.visible
}

// SetVisibleRange records the editor's visible line span.
func (e *Editor) SetVisibleRange(r LineRange) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.visible = r
}

// FoldedLines returns the number of document lines hidden by folds
// inside the visible span.
func (e *Editor) FoldedLines() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.folded
}

// SetFoldedLines records the fold-hidden line count for the visible
// span. Hosts that fold regions report it alongside the visible range
// so scroll corrections can size the backend window to the real span.
func (e *Editor) SetFoldedLines(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.folded = n
}
