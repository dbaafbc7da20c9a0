package host

// UI is the surface the bridge uses to act on the host editor.
//
// Implementations belong to the embedding host (or to the headless
// harness in cmd/). Methods that cannot fail on a given host may return
// nil errors unconditionally; the bridge treats every error as
// recoverable and logs rather than aborts.
type UI interface {
	// VisibleEditors returns the editors currently visible, in host
	// layout order.
	VisibleEditors() []*Editor

	// ActiveEditor returns the focused editor, or nil when focus is
	// outside any text editor.
	ActiveEditor() *Editor

	// OpenDocument opens (or retrieves) the document for uri.
	OpenDocument(uri string) (*Document, error)

	// OpenScratch creates an untitled document with the given content.
	OpenScratch(content string) (*Document, error)

	// ShowDocument shows doc in the given view column (0 picks the
	// active column) and returns the editor. preserveFocus keeps the
	// current editor focused.
	ShowDocument(doc *Document, column int, preserveFocus bool) (*Editor, error)

	// CloseEditor closes the editor pane.
	CloseEditor(e *Editor) error

	// SetSelection moves the editor's primary selection to a caret at p.
	SetSelection(e *Editor, p Position)

	// RevealLine scrolls the editor so line is the top visible line.
	RevealLine(e *Editor, line int)

	// FocusOutput reveals doc in the host's output panel.
	FocusOutput(doc *Document) error

	// FocusNotebookCell focuses the notebook identified by notebookURI
	// and then the cell editor identified by cellURI.
	FocusNotebookCell(notebookURI, cellURI string) error

	// SmoothScrolling reports whether the host animates scrolling.
	// Scroll debouncing widens its window when it does.
	SmoothScrolling() bool
}

// Typer is the portion of the host that accepts synthesized typing. The
// input router replays buffered and failed keys through it.
type Typer interface {
	// TypeText inserts text at the caret as if the user typed it,
	// bypassing the bridge's own type interception.
	TypeText(text string) error

	// ReplacePrevChar rewrites the last count characters before the
	// caret with text, the way IME correction events do.
	ReplacePrevChar(text string, count int) error

	// DeleteLeft deletes one character before the caret.
	DeleteLeft() error
}
