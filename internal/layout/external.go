package layout

import (
	"github.com/SYK-08/vscode-neovim/internal/backend"
	"github.com/SYK-08/vscode-neovim/internal/host"
)

// ExternalBuffer describes a buffer the backend created on its own,
// announced by the external-buffer notification.
type ExternalBuffer struct {
	ID        backend.BufferID
	Name      string
	ExpandTab bool
	TabSize   int
}

// HandleExternalBuffer surfaces a backend-created buffer in the host.
//
// Buffers named with a host-owned URI are opened as that document and
// bound to the announcing buffer. Anything else (help pages, plugin
// output) is wrapped in a read-only document under the bridge's own
// scheme, backed by the buffer's current content.
func (r *Reconciler) HandleExternalBuffer(eb ExternalBuffer) {
	if eb.ID == backend.ScratchBuffer {
		return
	}
	if doc, ok := r.tables.DocumentForBuffer(eb.ID); ok {
		r.showDocument(doc, 0)
		return
	}
	if host.IsHostURI(eb.Name, r.cfg.HostSchemes) {
		r.adoptHostDocument(eb)
		return
	}
	r.adoptForeignBuffer(eb)
}

// adoptHostDocument binds a backend-opened file (":e", "gf", quickfix
// jumps) to its host document. On the first sighting the backend's
// local indent options win over the host defaults for the new editor.
func (r *Reconciler) adoptHostDocument(eb ExternalBuffer) {
	doc, err := r.ui.OpenDocument(eb.Name)
	if err != nil {
		r.log.Error("external document open %s: %v", eb.Name, err)
		return
	}
	if _, ok := r.tables.BufferForDocument(doc.URI()); ok {
		// Already bridged through its own buffer; just surface it.
		r.showDocument(doc, 0)
		return
	}
	r.tables.SetDocumentBuffer(doc, eb.ID)
	if _, err := r.client.AttachBuffer(eb.ID, false); err != nil {
		r.log.Warn("change feed attach for buffer %d: %v", int(eb.ID), err)
	}
	ed, err := r.ui.ShowDocument(doc, 0, false)
	if err != nil {
		r.log.Error("external document show %s: %v", doc.URI(), err)
		return
	}
	ed.SetTab(host.TabConfig{InsertSpaces: eb.ExpandTab, TabSize: eb.TabSize})
	r.log.Debug("external document %s adopted as buffer %d", doc.URI(), int(eb.ID))
}

// adoptForeignBuffer snapshots an unnamed or backend-only buffer into a
// read-only host document. The backend's cursor is copied over once
// after a delay, and any window the backend opened for the buffer is
// closed once the host has taken over display.
func (r *Reconciler) adoptForeignBuffer(eb ExternalBuffer) {
	lines, err := r.client.BufferLines(eb.ID)
	if err != nil {
		r.log.Error("external buffer %d read: %v", int(eb.ID), err)
		return
	}
	uri := host.BufferURI(r.cfg.Scheme, int(eb.ID), eb.Name)
	doc := host.NewExternalDocument(uri, lines)
	r.tables.SetDocumentBuffer(doc, eb.ID)
	if _, err := r.client.AttachBuffer(eb.ID, false); err != nil {
		r.log.Warn("change feed attach for buffer %d: %v", int(eb.ID), err)
	}
	ed, err := r.ui.ShowDocument(doc, 0, false)
	if err != nil {
		r.log.Error("external buffer show %s: %v", uri, err)
		return
	}
	r.log.Debug("foreign buffer %d adopted as %s", int(eb.ID), uri)

	r.afterFunc(r.cfg.ExternalCursorDelay, func() {
		r.placeExternalCursor(eb.ID, doc, ed)
	})
	r.afterFunc(r.cfg.ExternalCloseDelay, func() {
		r.closeExternalWindows(eb.ID)
	})
}

// placeExternalCursor copies the backend cursor of a freshly adopted
// buffer to the host editor, once. The backend column is a byte offset
// and must be converted to characters.
func (r *Reconciler) placeExternalCursor(buf backend.BufferID, doc *host.Document, ed *host.Editor) {
	win, ok := r.untrackedWindowShowing(buf)
	if !ok {
		return
	}
	line, col, err := r.client.WindowCursor(win)
	if err != nil {
		r.log.Debug("external cursor query for window %d: %v", int(win), err)
		return
	}
	text, _ := doc.Line(line)
	r.ui.SetSelection(ed, host.Position{Line: line, Col: charColumn(text, col)})
}

// closeExternalWindows closes backend windows still showing an adopted
// buffer without an editor mapping. They are leftovers of whatever
// command created the buffer; the host displays it now.
func (r *Reconciler) closeExternalWindows(buf backend.BufferID) {
	wins, err := r.client.Windows()
	if err != nil {
		return
	}
	for _, win := range wins {
		shown, err := r.client.WindowBuffer(win)
		if err != nil || shown != buf {
			continue
		}
		if _, mapped := r.tables.EditorForWindow(win); mapped {
			continue
		}
		if err := r.client.CloseWindow(win, true); err != nil {
			r.log.Debug("external window %d close: %v", int(win), err)
		}
	}
}

func (r *Reconciler) untrackedWindowShowing(buf backend.BufferID) (backend.WindowID, bool) {
	wins, err := r.client.Windows()
	if err != nil {
		return 0, false
	}
	for _, win := range wins {
		shown, err := r.client.WindowBuffer(win)
		if err != nil || shown != buf {
			continue
		}
		if _, mapped := r.tables.EditorForWindow(win); !mapped {
			return win, true
		}
	}
	return 0, false
}
