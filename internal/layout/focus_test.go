package layout

import (
	"testing"
	"time"

	"github.com/SYK-08/vscode-neovim/internal/backend"
)

// focusWait covers the focus debounce plus the settle delay.
const focusWait = 60 * time.Millisecond

func TestFocus_MappedWindowShowsDocument(t *testing.T) {
	f := newFixture(t)
	edA := f.ui.AddEditor("file:///a.go", "alpha")
	edB := f.ui.AddEditor("file:///b.go", "beta")
	f.rec.SyncVisibleNow()
	f.ui.SetActive(edA)

	winB, _ := f.rec.Tables().WindowForEditor(edB.ID())
	f.fake.SetCurrent(winB)

	f.rec.HandleWindowChanged(winB)
	time.Sleep(focusWait)

	ops := f.ui.Ops()
	if len(ops) != 1 || ops[0].Name != "ShowDocument" {
		t.Fatalf("ops = %v, want one ShowDocument", ops)
	}
	if ops[0].Args[0] != "file:///b.go" || ops[0].Args[1] != edB.Column() || ops[0].Args[2] != false {
		t.Errorf("ShowDocument args = %v", ops[0].Args)
	}
	if f.ui.ActiveEditor() != edB {
		t.Error("host focus did not follow the backend window")
	}
}

func TestFocus_AlreadyAlignedIsNoOp(t *testing.T) {
	f := newFixture(t)
	edA := f.ui.AddEditor("file:///a.go", "alpha")
	f.rec.SyncVisibleNow()

	winA, _ := f.rec.Tables().WindowForEditor(edA.ID())
	f.fake.SetCurrent(winA)

	f.rec.HandleWindowChanged(winA)
	time.Sleep(focusWait)

	if ops := f.ui.Ops(); len(ops) != 0 {
		t.Errorf("aligned focus produced host ops: %v", ops)
	}
}

func TestFocus_RefocusesLatestWindow(t *testing.T) {
	f := newFixture(t)
	edA := f.ui.AddEditor("file:///a.go", "alpha")
	edB := f.ui.AddEditor("file:///b.go", "beta")
	f.rec.SyncVisibleNow()
	f.ui.SetActive(edA)

	winA, _ := f.rec.Tables().WindowForEditor(edA.ID())
	winB, _ := f.rec.Tables().WindowForEditor(edB.ID())

	// Focus bounced through B but settled back on A before the sync
	// ran; the stale notification must not steal host focus.
	f.rec.HandleWindowChanged(winB)
	f.fake.SetCurrent(winA)
	time.Sleep(focusWait)

	if f.ui.ActiveEditor() != edA {
		t.Error("stale focus notification moved host focus")
	}
}

func TestFocus_OutputSchemeUsesOutputPanel(t *testing.T) {
	f := newFixture(t)
	f.ui.AddEditor("file:///a.go", "alpha")
	edOut := f.ui.AddEditor("output://channel-3", "log text")
	f.rec.SyncVisibleNow()
	f.ui.SetActive(f.ui.VisibleEditors()[0])

	winOut, _ := f.rec.Tables().WindowForEditor(edOut.ID())
	f.fake.SetCurrent(winOut)

	f.rec.HandleWindowChanged(winOut)
	time.Sleep(focusWait)

	ops := f.ui.Ops()
	if len(ops) != 1 || ops[0].Name != "FocusOutput" {
		t.Fatalf("ops = %v, want one FocusOutput", ops)
	}
	if ops[0].Args[0] != "output://channel-3" {
		t.Errorf("FocusOutput args = %v", ops[0].Args)
	}
}

func TestFocus_NotebookCellFocusesNotebookFirst(t *testing.T) {
	f := newFixture(t)
	f.ui.AddEditor("file:///a.go", "alpha")
	edCell := f.ui.AddEditor("vscode-notebook-cell://auth/nb.ipynb#cell1", "print(1)")
	f.rec.SyncVisibleNow()
	f.ui.SetActive(f.ui.VisibleEditors()[0])

	winCell, _ := f.rec.Tables().WindowForEditor(edCell.ID())
	f.fake.SetCurrent(winCell)

	f.rec.HandleWindowChanged(winCell)
	time.Sleep(focusWait)

	ops := f.ui.Ops()
	if len(ops) != 1 || ops[0].Name != "FocusNotebookCell" {
		t.Fatalf("ops = %v, want one FocusNotebookCell", ops)
	}
	if ops[0].Args[0] != "file://auth/nb.ipynb" {
		t.Errorf("notebook uri = %v, want file://auth/nb.ipynb", ops[0].Args[0])
	}
	if ops[0].Args[1] != "vscode-notebook-cell://auth/nb.ipynb#cell1" {
		t.Errorf("cell uri = %v", ops[0].Args[1])
	}
}

func TestFocus_UnmappedWindowFallsBackToBufferName(t *testing.T) {
	f := newFixture(t)
	edA := f.ui.AddEditor("file:///a.go", "alpha")
	edB := f.ui.AddEditor("file:///b.go", "beta")
	f.rec.SyncVisibleNow()
	f.ui.SetActive(edB)
	_ = edA

	// A window the bridge never opened, showing a buffer whose name
	// matches a tracked document.
	rogue := f.fake.StageBuffer("file:///a.go", []string{"alpha"})
	win := f.fake.StageWindow(rogue)
	f.fake.SetCurrent(win)

	f.rec.HandleWindowChanged(win)
	time.Sleep(focusWait)

	ops := f.ui.Ops()
	if len(ops) != 1 || ops[0].Name != "ShowDocument" {
		t.Fatalf("ops = %v, want one ShowDocument", ops)
	}
	if ops[0].Args[0] != "file:///a.go" {
		t.Errorf("ShowDocument args = %v", ops[0].Args)
	}
}

func TestFocus_UnknownWindowRestoresBackendFocus(t *testing.T) {
	f := newFixture(t)
	edA := f.ui.AddEditor("file:///a.go", "alpha")
	f.rec.SyncVisibleNow()
	winA, _ := f.rec.Tables().WindowForEditor(edA.ID())

	rogue := f.fake.StageBuffer("", nil)
	win := f.fake.StageWindow(rogue)
	f.fake.SetCurrent(win)
	f.fake.ResetCalls()

	f.rec.HandleWindowChanged(win)
	time.Sleep(focusWait)

	if ops := f.ui.Ops(); len(ops) != 0 {
		t.Errorf("unknown window produced host ops: %v", ops)
	}
	restores := f.fake.CallsNamed("SetCurrentWindow")
	if len(restores) != 1 {
		t.Fatalf("SetCurrentWindow called %d times, want 1", len(restores))
	}
	if got := restores[0].Args[0].(backend.WindowID); got != winA {
		t.Errorf("focus restored to window %d, want %d", got, winA)
	}
}
