// Package hosttest provides a scripted host UI for bridge tests.
package hosttest

import (
	"fmt"
	"sync"

	"github.com/SYK-08/vscode-neovim/internal/host"
)

// Op records a single UI action the bridge performed.
type Op struct {
	Name string
	Args []any
}

// UI is an in-memory host.UI implementation that records every action
// and lets tests stage editors, documents, and failures.
//
// Thread-safety: all methods are safe for concurrent use.
type UI struct {
	mu      sync.Mutex
	nextID  host.EditorID
	docs    map[string]*host.Document
	editors []*host.Editor
	active  *host.Editor
	ops     []Op
	typed   []string

	// Smooth toggles the smooth-scrolling report.
	Smooth bool
	// OpenErr, when set, is returned by OpenDocument.
	OpenErr error
	// ShowErr, when set, is returned by ShowDocument.
	ShowErr error
	// TypeErr, when set, is returned by TypeText.
	TypeErr error
}

// NewUI creates an empty fake host.
func NewUI() *UI {
	return &UI{docs: make(map[string]*host.Document)}
}

func (u *UI) record(name string, args ...any) {
	u.ops = append(u.ops, Op{Name: name, Args: args})
}

// Ops returns the recorded actions in order.
func (u *UI) Ops() []Op {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]Op, len(u.ops))
	copy(out, u.ops)
	return out
}

// OpNames returns just the recorded action names, for order assertions.
func (u *UI) OpNames() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	names := make([]string, len(u.ops))
	for i, op := range u.ops {
		names[i] = op.Name
	}
	return names
}

// Typed returns the text replayed through TypeText, in order.
func (u *UI) Typed() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]string, len(u.typed))
	copy(out, u.typed)
	return out
}

// AddEditor stages a visible editor showing a new document with the
// given URI and content, and returns it.
func (u *UI) AddEditor(uri, text string) *host.Editor {
	u.mu.Lock()
	defer u.mu.Unlock()
	doc, ok := u.docs[uri]
	if !ok {
		doc = host.NewDocument(uri, text)
		u.docs[uri] = doc
	}
	u.nextID++
	ed := host.NewEditor(u.nextID, doc, len(u.editors)+1)
	u.editors = append(u.editors, ed)
	if u.active == nil {
		u.active = ed
	}
	return ed
}

// RemoveEditor drops an editor from the visible set.
func (u *UI) RemoveEditor(ed *host.Editor) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for i, e := range u.editors {
		if e == ed {
			u.editors = append(u.editors[:i], u.editors[i+1:]...)
			break
		}
	}
	if u.active == ed {
		u.active = nil
		if len(u.editors) > 0 {
			u.active = u.editors[0]
		}
	}
}

// SetActive marks ed as the focused editor.
func (u *UI) SetActive(ed *host.Editor) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.active = ed
}

func (u *UI) VisibleEditors() []*host.Editor {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]*host.Editor, len(u.editors))
	copy(out, u.editors)
	return out
}

func (u *UI) ActiveEditor() *host.Editor {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.active
}

func (u *UI) OpenDocument(uri string) (*host.Document, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.record("OpenDocument", uri)
	if u.OpenErr != nil {
		return nil, u.OpenErr
	}
	if doc, ok := u.docs[uri]; ok {
		return doc, nil
	}
	doc := host.NewDocument(uri, "")
	u.docs[uri] = doc
	return doc, nil
}

func (u *UI) OpenScratch(content string) (*host.Document, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.record("OpenScratch", content)
	uri := fmt.Sprintf("untitled://%d", len(u.docs)+1)
	doc := host.NewDocument(uri, content)
	u.docs[uri] = doc
	return doc, nil
}

func (u *UI) ShowDocument(doc *host.Document, column int, preserveFocus bool) (*host.Editor, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.record("ShowDocument", doc.URI(), column, preserveFocus)
	if u.ShowErr != nil {
		return nil, u.ShowErr
	}
	for _, ed := range u.editors {
		if ed.Document() == doc {
			if !preserveFocus {
				u.active = ed
			}
			return ed, nil
		}
	}
	u.docs[doc.URI()] = doc
	u.nextID++
	ed := host.NewEditor(u.nextID, doc, column)
	u.editors = append(u.editors, ed)
	if !preserveFocus || u.active == nil {
		u.active = ed
	}
	return ed, nil
}

func (u *UI) CloseEditor(ed *host.Editor) error {
	u.mu.Lock()
	u.record("CloseEditor", ed.Document().URI())
	u.mu.Unlock()
	u.RemoveEditor(ed)
	return nil
}

func (u *UI) SetSelection(ed *host.Editor, p host.Position) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.record("SetSelection", ed.Document().URI(), p.Line, p.Col)
	ed.SetCursor(p)
}

func (u *UI) RevealLine(ed *host.Editor, line int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.record("RevealLine", ed.Document().URI(), line)
}

func (u *UI) FocusOutput(doc *host.Document) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.record("FocusOutput", doc.URI())
	return nil
}

func (u *UI) FocusNotebookCell(notebookURI, cellURI string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.record("FocusNotebookCell", notebookURI, cellURI)
	return nil
}

func (u *UI) SmoothScrolling() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.Smooth
}

func (u *UI) TypeText(text string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.record("TypeText", text)
	if u.TypeErr != nil {
		return u.TypeErr
	}
	u.typed = append(u.typed, text)
	return nil
}

func (u *UI) ReplacePrevChar(text string, count int) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.record("ReplacePrevChar", text, count)
	return nil
}

func (u *UI) DeleteLeft() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.record("DeleteLeft")
	return nil
}
