package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"sync"

	"github.com/SYK-08/vscode-neovim/internal/app"
	"github.com/SYK-08/vscode-neovim/internal/host"
)

// headlessHost is a host.UI that holds editors in memory and narrates
// every action on its writer. It stands in for the embedding editor,
// which makes the bridge's side of the reconciliation observable from
// a terminal.
type headlessHost struct {
	mu      sync.Mutex
	w       io.Writer
	bridge  *app.Bridge
	nextID  host.EditorID
	docs    map[string]*host.Document
	editors []*host.Editor
	active  *host.Editor
}

func newHeadlessHost(w io.Writer) *headlessHost {
	return &headlessHost{w: w, docs: make(map[string]*host.Document)}
}

// attach lets the host resolve adopted-buffer URIs through the content
// provider and echoes its change announcements.
func (h *headlessHost) attach(b *app.Bridge) {
	h.mu.Lock()
	h.bridge = b
	h.mu.Unlock()
	b.Provider().OnDidChange(func(uri string) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.say("changed %s", uri)
	})
}

// say is the narration channel; callers hold h.mu.
func (h *headlessHost) say(format string, args ...any) {
	fmt.Fprintf(h.w, "host: "+format+"\n", args...)
}

func (h *headlessHost) VisibleEditors() []*host.Editor {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*host.Editor, len(h.editors))
	copy(out, h.editors)
	return out
}

func (h *headlessHost) ActiveEditor() *host.Editor {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

func (h *headlessHost) OpenDocument(uri string) (*host.Document, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if doc, ok := h.docs[uri]; ok {
		return doc, nil
	}
	text, err := h.fetch(uri)
	if err != nil {
		return nil, err
	}
	doc := host.NewDocument(uri, text)
	h.docs[uri] = doc
	h.say("open %s", uri)
	return doc, nil
}

// fetch resolves a document's initial content: files come from disk,
// adopted buffers from the provider, everything else starts empty.
func (h *headlessHost) fetch(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	if u.Scheme == "file" {
		data, err := os.ReadFile(u.Path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	if h.bridge != nil {
		if content, ok := h.bridge.Provider().Provide(uri); ok {
			return content, nil
		}
	}
	return "", nil
}

func (h *headlessHost) OpenScratch(content string) (*host.Document, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	uri := fmt.Sprintf("untitled://%d", len(h.docs)+1)
	doc := host.NewDocument(uri, content)
	h.docs[uri] = doc
	h.say("open scratch %s", uri)
	return doc, nil
}

func (h *headlessHost) ShowDocument(doc *host.Document, column int, preserveFocus bool) (*host.Editor, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ed := range h.editors {
		if ed.Document() == doc {
			if !preserveFocus {
				h.active = ed
			}
			h.say("show %s (already visible)", doc.URI())
			return ed, nil
		}
	}
	if column == 0 {
		column = 1
		if h.active != nil {
			column = h.active.Column()
		}
	}
	h.docs[doc.URI()] = doc
	h.nextID++
	ed := host.NewEditor(h.nextID, doc, column)
	h.editors = append(h.editors, ed)
	if !preserveFocus || h.active == nil {
		h.active = ed
	}
	h.say("show %s in column %d", doc.URI(), column)
	return ed, nil
}

func (h *headlessHost) CloseEditor(ed *host.Editor) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, e := range h.editors {
		if e == ed {
			h.editors = append(h.editors[:i], h.editors[i+1:]...)
			break
		}
	}
	if h.active == ed {
		h.active = nil
		if len(h.editors) > 0 {
			h.active = h.editors[0]
		}
	}
	h.say("close %s", ed.Document().URI())
	return nil
}

func (h *headlessHost) SetSelection(ed *host.Editor, p host.Position) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ed.SetCursor(p)
	h.say("cursor %s -> %d:%d", ed.Document().URI(), p.Line, p.Col)
}

func (h *headlessHost) RevealLine(ed *host.Editor, line int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.say("reveal %s line %d", ed.Document().URI(), line)
}

func (h *headlessHost) FocusOutput(doc *host.Document) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.say("focus output %s", doc.URI())
	return nil
}

func (h *headlessHost) FocusNotebookCell(notebookURI, cellURI string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.say("focus notebook %s cell %s", notebookURI, cellURI)
	return nil
}

func (h *headlessHost) SmoothScrolling() bool { return false }

func (h *headlessHost) TypeText(text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.say("type %q", text)
	return nil
}

func (h *headlessHost) ReplacePrevChar(text string, count int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.say("replace prev %d with %q", count, text)
	return nil
}

func (h *headlessHost) DeleteLeft() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.say("delete left")
	return nil
}
