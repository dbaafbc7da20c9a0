package input

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SYK-08/vscode-neovim/internal/backend/backendtest"
	"github.com/SYK-08/vscode-neovim/internal/host"
	"github.com/SYK-08/vscode-neovim/internal/host/hosttest"
	"github.com/SYK-08/vscode-neovim/internal/layout"
	"github.com/SYK-08/vscode-neovim/internal/redraw"
)

// fakeGate stages a change lock and counts the router's coordination
// calls. WaitPendingSync blocks on the staged lock when one is set.
type fakeGate struct {
	mu      sync.Mutex
	lock    *layout.Signal
	waits   int
	pushes  int
	pushErr error
}

func (g *fakeGate) setLock(s *layout.Signal) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lock = s
}

func (g *fakeGate) DocumentLock(uri string) (*layout.Signal, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lock == nil || g.lock.Resolved() {
		return nil, false
	}
	return g.lock, true
}

func (g *fakeGate) WaitPendingSync(ctx context.Context) error {
	g.mu.Lock()
	g.waits++
	lk := g.lock
	g.mu.Unlock()
	if lk == nil {
		return nil
	}
	return lk.Wait(ctx)
}

func (g *fakeGate) PushCursor(ed *host.Editor) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pushes++
	return g.pushErr
}

func (g *fakeGate) waitCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.waits
}

func (g *fakeGate) pushCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pushes
}

type fixture struct {
	fake *backendtest.Fake
	ui   *hosttest.UI
	gate *fakeGate
	r    *Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fake := backendtest.New()
	ui := hosttest.NewUI()
	ui.AddEditor("file:///a.go", "alpha\nbeta")
	gate := &fakeGate{}
	cfg := DefaultConfig()
	cfg.LockWait = time.Second
	cfg.CompositeWindow = 2 * time.Second
	r := NewRouter(fake, ui, ui, gate, cfg, nil)
	t.Cleanup(r.Shutdown)
	return &fixture{fake: fake, ui: ui, gate: gate, r: r}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestRouter_NormalModeForwards(t *testing.T) {
	f := newFixture(t)

	if err := f.r.TypeText("x"); err != nil {
		t.Fatalf("TypeText: %v", err)
	}
	if err := f.r.TypeText("a<b\n"); err != nil {
		t.Fatalf("TypeText: %v", err)
	}

	got := f.fake.Inputs()
	want := []string{"x", "a<LT>b<CR>"}
	if len(got) != len(want) {
		t.Fatalf("inputs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("inputs[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if typed := f.ui.Typed(); len(typed) != 0 {
		t.Errorf("host received %v, want nothing", typed)
	}
}

func TestRouter_InsertModeHandsBack(t *testing.T) {
	f := newFixture(t)

	f.r.HandleModeChange("insert")
	if st := f.r.State(); st != StateInsert {
		t.Fatalf("state = %v, want %v", st, StateInsert)
	}
	if err := f.r.TypeText("x"); err != nil {
		t.Fatalf("TypeText: %v", err)
	}

	if typed := f.ui.Typed(); len(typed) != 1 || typed[0] != "x" {
		t.Errorf("typed = %v, want [x]", typed)
	}
	if got := f.fake.Inputs(); len(got) != 0 {
		t.Errorf("inputs = %v, want none", got)
	}
}

func TestRouter_EntryBuffersBehindLock(t *testing.T) {
	f := newFixture(t)
	lock := layout.NewSignal()
	f.gate.setLock(lock)

	f.r.HandleModeChange("insert")
	if st := f.r.State(); st != StateEnteringInsert {
		t.Fatalf("state = %v, want %v", st, StateEnteringInsert)
	}
	f.r.TypeText("a")
	f.r.TypeText("b")
	if typed := f.ui.Typed(); len(typed) != 0 {
		t.Fatalf("keys leaked to host before lock release: %v", typed)
	}

	lock.Resolve(nil)
	waitFor(t, "insert entry", func() bool { return f.r.State() == StateInsert })

	typed := f.ui.Typed()
	if len(typed) != 1 || typed[0] != "ab" {
		t.Errorf("typed = %v, want [ab]", typed)
	}
	if got := f.fake.Inputs(); len(got) != 0 {
		t.Errorf("inputs = %v, want none", got)
	}
}

func TestRouter_EntryAbandonedWhenModeReturns(t *testing.T) {
	f := newFixture(t)
	lock := layout.NewSignal()
	f.gate.setLock(lock)

	f.r.HandleModeChange("insert")
	f.r.TypeText("a")
	f.r.TypeText("b")

	// Insert was left before the lock released: the keys belong to
	// normal mode and go to the backend.
	f.r.HandleModeChange("normal")
	if st := f.r.State(); st != StateNormal {
		t.Fatalf("state = %v, want %v", st, StateNormal)
	}
	got := f.fake.Inputs()
	if len(got) != 1 || got[0] != "ab" {
		t.Fatalf("inputs = %v, want [ab]", got)
	}

	lock.Resolve(nil)
	time.Sleep(20 * time.Millisecond)
	if typed := f.ui.Typed(); len(typed) != 0 {
		t.Errorf("stale entry waiter replayed %v", typed)
	}
	if st := f.r.State(); st != StateNormal {
		t.Errorf("state = %v, want %v", st, StateNormal)
	}
}

func TestRouter_EscapeSettlesThenSendsExitKey(t *testing.T) {
	f := newFixture(t)

	f.r.HandleModeChange("insert")
	if err := f.r.Escape(); err != nil {
		t.Fatalf("Escape: %v", err)
	}

	if n := f.gate.waitCount(); n != 1 {
		t.Errorf("pending sync waits = %d, want 1", n)
	}
	if n := f.gate.pushCount(); n != 1 {
		t.Errorf("cursor pushes = %d, want 1", n)
	}
	got := f.fake.Inputs()
	if len(got) != 1 || got[0] != "<Esc>" {
		t.Fatalf("inputs = %v, want [<Esc>]", got)
	}
	if st := f.r.State(); st != StateExitingInsert {
		t.Errorf("state = %v, want %v", st, StateExitingInsert)
	}

	f.r.HandleModeChange("normal")
	if st := f.r.State(); st != StateNormal {
		t.Errorf("state = %v, want %v", st, StateNormal)
	}
}

func TestRouter_EscapeCarriesBufferedKeys(t *testing.T) {
	f := newFixture(t)
	lock := layout.NewSignal()
	f.gate.setLock(lock)

	f.r.HandleModeChange("insert")
	f.r.TypeText("a")
	f.r.TypeText("b")

	done := make(chan error, 1)
	go func() { done <- f.r.Escape() }()
	waitFor(t, "escape to reach the sync gate", func() bool { return f.gate.waitCount() > 0 })
	lock.Resolve(nil)
	if err := <-done; err != nil {
		t.Fatalf("Escape: %v", err)
	}

	got := f.fake.Inputs()
	if len(got) != 1 || got[0] != "<Esc>ab" {
		t.Fatalf("inputs = %v, want [<Esc>ab]", got)
	}
	if typed := f.ui.Typed(); len(typed) != 0 {
		t.Errorf("stale entry waiter replayed %v", typed)
	}
}

func TestRouter_ExitBuffersUntilModeChange(t *testing.T) {
	f := newFixture(t)

	f.r.HandleModeChange("insert")
	if err := f.r.Escape(); err != nil {
		t.Fatalf("Escape: %v", err)
	}
	f.r.TypeText("dd")

	if got := f.fake.Inputs(); len(got) != 1 {
		t.Fatalf("inputs before mode change = %v, want just the escape", got)
	}

	f.r.HandleModeChange("normal")
	got := f.fake.Inputs()
	want := []string{"<Esc>", "dd"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("inputs = %v, want %v", got, want)
	}
}

func TestRouter_EscapeFromNormalForwards(t *testing.T) {
	f := newFixture(t)

	if err := f.r.Escape(); err != nil {
		t.Fatalf("Escape: %v", err)
	}
	got := f.fake.Inputs()
	if len(got) != 1 || got[0] != "<Esc>" {
		t.Fatalf("inputs = %v, want [<Esc>]", got)
	}
	if n := f.gate.waitCount(); n != 0 {
		t.Errorf("normal-mode escape waited on sync %d times", n)
	}
}

func TestRouter_SendBlockingKeyFallsBackToTyping(t *testing.T) {
	f := newFixture(t)
	f.fake.FailNext("Input", errors.New("prompt rejected input"))

	if err := f.r.SendBlockingKey("<CR>"); err != nil {
		t.Fatalf("SendBlockingKey: %v", err)
	}
	typed := f.ui.Typed()
	if len(typed) != 1 || typed[0] != "<CR>" {
		t.Errorf("typed = %v, want [<CR>]", typed)
	}
}

func TestRouter_SendKeyForwardsVerbatim(t *testing.T) {
	f := newFixture(t)

	if err := f.r.SendKey("<C-w>"); err != nil {
		t.Fatalf("SendKey: %v", err)
	}
	got := f.fake.Inputs()
	if len(got) != 1 || got[0] != "<C-w>" {
		t.Fatalf("inputs = %v, want [<C-w>]", got)
	}
}

func TestRouter_DisableStopsInsertAndHandsKeysBack(t *testing.T) {
	f := newFixture(t)

	f.r.HandleModeChange("insert")
	if err := f.r.Disable(); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if f.r.Enabled() {
		t.Fatal("router still enabled after Disable")
	}
	cmds := f.fake.CallsNamed("Command")
	if len(cmds) != 1 || cmds[0].Args[0] != "stopinsert" {
		t.Fatalf("commands = %v, want [stopinsert]", cmds)
	}

	f.r.TypeText("x")
	if typed := f.ui.Typed(); len(typed) != 1 || typed[0] != "x" {
		t.Errorf("typed = %v, want [x]", typed)
	}
	if err := f.r.Escape(); err != nil {
		t.Fatalf("Escape: %v", err)
	}
	if got := f.fake.Inputs(); len(got) != 0 {
		t.Errorf("disabled escape still sent %v", got)
	}
}

func TestRouter_ToggleFlipsEnabled(t *testing.T) {
	f := newFixture(t)

	if !f.r.Enabled() {
		t.Fatal("router should start enabled")
	}
	f.r.Toggle()
	if f.r.Enabled() {
		t.Fatal("first toggle should disable")
	}
	f.r.Toggle()
	if !f.r.Enabled() {
		t.Fatal("second toggle should re-enable")
	}
}

func TestRouter_ModeEventsFromDecoder(t *testing.T) {
	f := newFixture(t)
	d := redraw.NewDecoder(nil)
	f.r.Register(d)

	d.Dispatch([][]any{{"mode_change", []any{"insert", int64(1)}}})
	if st := f.r.State(); st != StateInsert {
		t.Fatalf("state = %v, want %v", st, StateInsert)
	}
	d.Dispatch([][]any{{"mode_change", []any{"normal", int64(0)}}})
	if st := f.r.State(); st != StateNormal {
		t.Fatalf("state = %v, want %v", st, StateNormal)
	}
}

func TestRouter_ShutdownDropsKeys(t *testing.T) {
	f := newFixture(t)
	f.r.Shutdown()

	f.r.TypeText("x")
	f.r.HandleModeChange("insert")
	if got := f.fake.Inputs(); len(got) != 0 {
		t.Errorf("inputs after shutdown = %v", got)
	}
	if typed := f.ui.Typed(); len(typed) != 0 {
		t.Errorf("typed after shutdown = %v", typed)
	}
	if st := f.r.State(); st != StateNormal {
		t.Errorf("state = %v, want %v", st, StateNormal)
	}
}
