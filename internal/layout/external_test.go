package layout

import (
	"testing"
	"time"

	"github.com/SYK-08/vscode-neovim/internal/backend"
	"github.com/SYK-08/vscode-neovim/internal/host"
)

func TestExternal_ScratchBufferIgnored(t *testing.T) {
	f := newFixture(t)

	f.rec.HandleExternalBuffer(ExternalBuffer{ID: backend.ScratchBuffer, Name: ""})

	if calls := f.fake.Calls(); len(calls) != 0 {
		t.Errorf("scratch buffer caused backend calls: %v", calls)
	}
	if ops := f.ui.Ops(); len(ops) != 0 {
		t.Errorf("scratch buffer caused host ops: %v", ops)
	}
}

func TestExternal_KnownBufferJustShows(t *testing.T) {
	f := newFixture(t)
	f.ui.AddEditor("file:///a.go", "alpha")
	f.rec.SyncVisibleNow()
	buf, _ := f.rec.Tables().BufferForDocument("file:///a.go")
	f.fake.ResetCalls()

	f.rec.HandleExternalBuffer(ExternalBuffer{ID: buf, Name: "file:///a.go"})

	ops := f.ui.Ops()
	if len(ops) != 1 || ops[0].Name != "ShowDocument" {
		t.Fatalf("ops = %v, want one ShowDocument", ops)
	}
	if got := len(f.fake.CallsNamed("CreateBuffer")); got != 0 {
		t.Errorf("known buffer re-created %d times", got)
	}
}

func TestExternal_HostDocumentAdopted(t *testing.T) {
	f := newFixture(t)
	bid := f.fake.StageBuffer("file:///new.go", []string{"x"})

	f.rec.HandleExternalBuffer(ExternalBuffer{
		ID: bid, Name: "file:///new.go", ExpandTab: true, TabSize: 2,
	})

	if got, ok := f.rec.Tables().BufferForDocument("file:///new.go"); !ok || got != bid {
		t.Fatalf("BufferForDocument = %d, %v, want %d", got, ok, bid)
	}
	bs, _ := f.fake.Buffer(bid)
	if !bs.Attached {
		t.Error("adopted buffer's change feed not attached")
	}

	var adopted *host.Editor
	for _, ed := range f.ui.VisibleEditors() {
		if ed.Document().URI() == "file:///new.go" {
			adopted = ed
		}
	}
	if adopted == nil {
		t.Fatal("no editor shows the adopted document")
	}
	if tab := adopted.Tab(); !tab.InsertSpaces || tab.TabSize != 2 {
		t.Errorf("editor tab = %+v, want backend options {true 2}", tab)
	}
}

func TestExternal_KnownDocumentNotRebound(t *testing.T) {
	f := newFixture(t)
	edA := f.ui.AddEditor("file:///a.go", "alpha")
	f.rec.SyncVisibleNow()
	bufA, _ := f.rec.Tables().BufferForDocument("file:///a.go")

	// The backend opened the same file again in a second buffer.
	rogue := f.fake.StageBuffer("file:///a.go", []string{"alpha"})
	f.rec.HandleExternalBuffer(ExternalBuffer{
		ID: rogue, Name: "file:///a.go", ExpandTab: false, TabSize: 8,
	})

	if got, _ := f.rec.Tables().BufferForDocument("file:///a.go"); got != bufA {
		t.Errorf("document rebound to %d, want %d kept", got, bufA)
	}
	if tab := edA.Tab(); !tab.InsertSpaces || tab.TabSize != 4 {
		t.Errorf("editor tab overwritten: %+v", tab)
	}
}

func TestExternal_ForeignBufferAdopted(t *testing.T) {
	f := newFixture(t)
	hb := f.fake.StageBuffer("help.txt", []string{"*help*", "line two"})
	hw := f.fake.StageWindow(hb)
	if err := f.fake.SetWindowCursor(hw, 1, 3); err != nil {
		t.Fatal(err)
	}
	f.fake.ResetCalls()

	f.rec.HandleExternalBuffer(ExternalBuffer{ID: hb, Name: "help.txt", ExpandTab: false, TabSize: 8})

	uri := host.BufferURI("vscode-neovim", int(hb), "help.txt")
	doc, ok := f.rec.Tables().DocumentForBuffer(hb)
	if !ok || doc.URI() != uri {
		t.Fatalf("DocumentForBuffer = %v, %v, want %s", doc, ok, uri)
	}
	if !doc.External() {
		t.Error("adopted foreign document not marked external")
	}
	if lines := doc.Lines(); len(lines) != 2 || lines[0] != "*help*" {
		t.Errorf("document lines = %v", lines)
	}

	// The backend cursor is copied over once, and the leftover backend
	// window is closed, both on delay.
	time.Sleep(80 * time.Millisecond)

	var selections int
	for _, op := range f.ui.Ops() {
		if op.Name == "SetSelection" {
			selections++
			if op.Args[0] != uri || op.Args[1] != 1 || op.Args[2] != 3 {
				t.Errorf("SetSelection args = %v, want [%s 1 3]", op.Args, uri)
			}
		}
	}
	if selections != 1 {
		t.Errorf("deferred cursor applied %d times, want exactly 1", selections)
	}

	if _, open := f.fake.Window(hw); open {
		t.Error("leftover backend window still open")
	}
}

func TestExternal_CloseSkipsTrackedWindows(t *testing.T) {
	f := newFixture(t)
	hb := f.fake.StageBuffer("scratchpad", []string{"note"})

	f.rec.HandleExternalBuffer(ExternalBuffer{ID: hb, Name: "scratchpad", ExpandTab: false, TabSize: 8})

	// The layout run binds an editor window to the adopted buffer
	// before the close delay elapses.
	f.rec.SyncVisibleNow()
	uri := host.BufferURI("vscode-neovim", int(hb), "scratchpad")
	doc, _ := f.rec.Tables().DocumentForBuffer(hb)
	if doc == nil || doc.URI() != uri {
		t.Fatalf("adoption did not map buffer %d", hb)
	}

	time.Sleep(80 * time.Millisecond)

	var ed *host.Editor
	for _, e := range f.ui.VisibleEditors() {
		if e.Document() == doc {
			ed = e
		}
	}
	if ed == nil {
		t.Fatal("no editor for adopted document")
	}
	win, ok := f.rec.Tables().WindowForEditor(ed.ID())
	if !ok {
		t.Fatal("adopted editor has no window")
	}
	if _, open := f.fake.Window(win); !open {
		t.Error("tracked window was closed by external cleanup")
	}
}
