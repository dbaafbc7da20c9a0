package layout

import (
	"context"
	"net/url"
	"time"

	"github.com/SYK-08/vscode-neovim/internal/backend"
	"github.com/SYK-08/vscode-neovim/internal/host"
)

// NotebookCellScheme is the host's URI scheme for notebook cell
// documents. Cells cannot be focused with a plain document show; the
// containing notebook must be focused first.
const NotebookCellScheme = "vscode-notebook-cell"

// syncFocus mirrors a backend-side focus change back into the host. It
// pauses briefly so the host finishes its own focus transition, queues
// behind outstanding layout and active runs, then re-resolves the
// current window since focus may have moved again while waiting.
func (r *Reconciler) syncFocus(notified backend.WindowID) {
	time.Sleep(r.cfg.FocusSettleDelay)

	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.SyncWait)
	defer cancel()
	r.layoutSignalRef().Wait(ctx)
	r.activeSignalRef().Wait(ctx)

	win, err := r.client.CurrentWindow()
	if err != nil {
		r.log.Warn("current window query: %v", err)
		win = notified
	}

	active := r.ui.ActiveEditor()
	if ed, ok := r.tables.EditorForWindow(win); ok {
		if active != nil && ed.ID() == active.ID() {
			return
		}
		r.focusEditor(ed)
		return
	}

	if doc, ok := r.documentForWindowBuffer(win); ok {
		r.showDocument(doc, 0)
		return
	}

	// Unknown window. Report, and pull backend focus back to the host's
	// active editor so the two sides do not drift further.
	r.log.Error("focus sync: %v", &DesyncError{Table: "window-editor", Key: int(win)})
	if active == nil {
		return
	}
	if aw, ok := r.tables.WindowForEditor(active.ID()); ok {
		if err := r.client.SetCurrentWindow(aw); err != nil {
			r.log.Warn("focus restore to window %d: %v", int(aw), err)
		}
	}
}

// focusEditor gives ed host-side focus using the mechanism its
// document's scheme requires.
func (r *Reconciler) focusEditor(ed *host.Editor) {
	doc := ed.Document()
	if doc == nil {
		return
	}
	switch host.URIScheme(doc.URI()) {
	case "output":
		if err := r.ui.FocusOutput(doc); err != nil {
			r.log.Warn("output focus %s: %v", doc.URI(), err)
		}
	case NotebookCellScheme:
		if err := r.ui.FocusNotebookCell(notebookURI(doc.URI()), doc.URI()); err != nil {
			r.log.Warn("notebook focus %s: %v", doc.URI(), err)
		}
	default:
		r.showDocument(doc, ed.Column())
	}
}

func (r *Reconciler) showDocument(doc *host.Document, column int) {
	if _, err := r.ui.ShowDocument(doc, column, false); err != nil {
		r.log.Error("document show %s: %v", doc.URI(), err)
	}
}

// documentForWindowBuffer identifies the document behind an unmapped
// window by its buffer, falling back to a buffer-name match. Covers
// windows the backend re-bound before the grid events caught up.
func (r *Reconciler) documentForWindowBuffer(win backend.WindowID) (*host.Document, bool) {
	buf, err := r.client.WindowBuffer(win)
	if err != nil {
		return nil, false
	}
	if doc, ok := r.tables.DocumentForBuffer(buf); ok {
		return doc, true
	}
	name, err := r.client.BufferName(buf)
	if err != nil || name == "" {
		return nil, false
	}
	for _, doc := range r.tables.Documents() {
		if doc.URI() == name {
			return doc, true
		}
	}
	return nil, false
}

// notebookURI derives the containing notebook's URI from a cell URI by
// dropping the cell fragment and restoring the file scheme.
func notebookURI(cellURI string) string {
	u, err := url.Parse(cellURI)
	if err != nil {
		return cellURI
	}
	u.Scheme = "file"
	u.Fragment = ""
	return u.String()
}
