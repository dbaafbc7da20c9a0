package app

import (
	"sync"
	"testing"
	"time"

	"github.com/SYK-08/vscode-neovim/internal/backend"
	"github.com/SYK-08/vscode-neovim/internal/backend/backendtest"
	"github.com/SYK-08/vscode-neovim/internal/host"
)

const testScheme = "vscode-neovim"

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

type feedRecorder struct {
	mu       sync.Mutex
	lines    []backend.BufferLinesEvent
	detached []backend.BufferID
}

func (r *feedRecorder) BufferLinesChanged(ev backend.BufferLinesEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, ev)
}

func (r *feedRecorder) BufferDetached(buf backend.BufferID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detached = append(r.detached, buf)
}

type changeCounter struct {
	mu   sync.Mutex
	uris []string
}

func (c *changeCounter) add(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uris = append(c.uris, uri)
}

func (c *changeCounter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.uris)
}

func TestProvider_ProvideFetchesAndCaches(t *testing.T) {
	fake := backendtest.New()
	buf := fake.StageBuffer("scratch", []string{"alpha", "beta"})
	p := NewProvider(fake, testScheme, nil)
	t.Cleanup(p.Close)

	uri := host.BufferURI(testScheme, int(buf), "scratch")
	content, ok := p.Provide(uri)
	if !ok || content != "alpha\nbeta" {
		t.Fatalf("Provide = %q, %v", content, ok)
	}

	if _, ok := p.Provide(uri); !ok {
		t.Fatal("second Provide failed")
	}
	if n := len(fake.CallsNamed("BufferLines")); n != 1 {
		t.Errorf("BufferLines calls = %d, want 1 (cached)", n)
	}
}

func TestProvider_IgnoresForeignSchemes(t *testing.T) {
	fake := backendtest.New()
	p := NewProvider(fake, testScheme, nil)
	t.Cleanup(p.Close)

	if _, ok := p.Provide("file:///tmp/x.txt"); ok {
		t.Error("provided content for a file uri")
	}
	if _, ok := p.Provide(testScheme + "://nope/x"); ok {
		t.Error("provided content for a malformed authority")
	}
}

func TestProvider_UnknownBufferYieldsNothing(t *testing.T) {
	fake := backendtest.New()
	p := NewProvider(fake, testScheme, nil)
	t.Cleanup(p.Close)

	uri := host.BufferURI(testScheme, 99, "gone")
	if content, ok := p.Provide(uri); ok {
		t.Errorf("Provide = %q for unknown buffer, want none", content)
	}
}

func TestProvider_EmptyBufferYieldsNothing(t *testing.T) {
	fake := backendtest.New()
	buf := fake.StageBuffer("scratch", []string{""})
	p := NewProvider(fake, testScheme, nil)
	t.Cleanup(p.Close)

	uri := host.BufferURI(testScheme, int(buf), "scratch")
	if content, ok := p.Provide(uri); ok {
		t.Errorf("Provide = %q for empty buffer, want none", content)
	}

	// The buffer stays cached, so a fill announces itself and the
	// content resolves on the next ask.
	var calls changeCounter
	p.OnDidChange(calls.add)
	fake.EmitBufferLines(backend.BufferLinesEvent{
		Buffer: buf, FirstLine: 0, LastLine: -1, Lines: []string{"filled"},
	})
	waitFor(t, "change announcement", func() bool { return calls.count() == 1 })
	if content, ok := p.Provide(uri); !ok || content != "filled" {
		t.Errorf("Provide after fill = %q, %v", content, ok)
	}
}

func TestProvider_ChangeUpdatesContentAndNotifies(t *testing.T) {
	fake := backendtest.New()
	buf := fake.StageBuffer("scratch", []string{"alpha", "beta"})
	p := NewProvider(fake, testScheme, nil)
	t.Cleanup(p.Close)

	uri := host.BufferURI(testScheme, int(buf), "scratch")
	p.Provide(uri)

	var cc changeCounter
	unsub := p.OnDidChange(cc.add)
	defer unsub()

	p.handleLines(backend.BufferLinesEvent{
		Buffer: buf, FirstLine: 1, LastLine: 2, Lines: []string{"BETA", "gamma"},
	})

	waitFor(t, "change announcement", func() bool { return cc.count() > 0 })
	cc.mu.Lock()
	got := cc.uris[0]
	cc.mu.Unlock()
	if got != uri {
		t.Errorf("announced %q, want %q", got, uri)
	}

	content, ok := p.Provide(uri)
	if !ok || content != "alpha\nBETA\ngamma" {
		t.Errorf("Provide = %q, %v", content, ok)
	}
	if n := len(fake.CallsNamed("BufferLines")); n != 1 {
		t.Errorf("BufferLines calls = %d, want 1 (spliced in place)", n)
	}
}

func TestProvider_CoalescesBursts(t *testing.T) {
	fake := backendtest.New()
	buf := fake.StageBuffer("scratch", []string{"one"})
	p := NewProvider(fake, testScheme, nil)
	t.Cleanup(p.Close)

	uri := host.BufferURI(testScheme, int(buf), "scratch")
	p.Provide(uri)

	var cc changeCounter
	unsub := p.OnDidChange(cc.add)
	defer unsub()

	for i := 0; i < 3; i++ {
		p.handleLines(backend.BufferLinesEvent{
			Buffer: buf, FirstLine: 0, LastLine: 1, Lines: []string{"one"},
		})
	}

	waitFor(t, "coalesced announcement", func() bool { return cc.count() > 0 })
	time.Sleep(3 * changeCoalesce)
	if n := cc.count(); n != 1 {
		t.Errorf("announcements = %d, want 1", n)
	}
}

func TestProvider_WholeBufferEventReplaces(t *testing.T) {
	fake := backendtest.New()
	buf := fake.StageBuffer("scratch", []string{"old"})
	p := NewProvider(fake, testScheme, nil)
	t.Cleanup(p.Close)

	uri := host.BufferURI(testScheme, int(buf), "scratch")
	p.Provide(uri)

	p.handleLines(backend.BufferLinesEvent{
		Buffer: buf, FirstLine: 0, LastLine: -1, Lines: []string{"new", "content"},
	})

	content, ok := p.Provide(uri)
	if !ok || content != "new\ncontent" {
		t.Errorf("Provide = %q, %v", content, ok)
	}
}

func TestProvider_MismatchedSpliceRefetches(t *testing.T) {
	fake := backendtest.New()
	buf := fake.StageBuffer("scratch", []string{"alpha", "beta"})
	p := NewProvider(fake, testScheme, nil)
	t.Cleanup(p.Close)

	uri := host.BufferURI(testScheme, int(buf), "scratch")
	p.Provide(uri)

	// An event range beyond the held copy means we lost an update
	// somewhere; the cache entry goes and the next read refetches.
	p.handleLines(backend.BufferLinesEvent{
		Buffer: buf, FirstLine: 10, LastLine: 12, Lines: []string{"x"},
	})

	content, ok := p.Provide(uri)
	if !ok || content != "alpha\nbeta" {
		t.Errorf("Provide = %q, %v", content, ok)
	}
	if n := len(fake.CallsNamed("BufferLines")); n != 2 {
		t.Errorf("BufferLines calls = %d, want 2 (refetched)", n)
	}
}

func TestProvider_DetachDropsCache(t *testing.T) {
	fake := backendtest.New()
	buf := fake.StageBuffer("scratch", []string{"alpha"})
	p := NewProvider(fake, testScheme, nil)
	t.Cleanup(p.Close)

	uri := host.BufferURI(testScheme, int(buf), "scratch")
	p.Provide(uri)

	var cc changeCounter
	unsub := p.OnDidChange(cc.add)
	defer unsub()

	p.handleDetach(buf)

	waitFor(t, "detach announcement", func() bool { return cc.count() > 0 })
	if _, ok := p.Provide(uri); !ok {
		t.Fatal("Provide after detach failed")
	}
	if n := len(fake.CallsNamed("BufferLines")); n != 2 {
		t.Errorf("BufferLines calls = %d, want 2 (cache dropped)", n)
	}
}

func TestProvider_ListenerGetsFeedVerbatim(t *testing.T) {
	fake := backendtest.New()
	p := NewProvider(fake, testScheme, nil)
	t.Cleanup(p.Close)

	var rec feedRecorder
	p.SetChangeListener(&rec)

	ev := backend.BufferLinesEvent{Buffer: 9, Tick: 4, FirstLine: 0, LastLine: 1, Lines: []string{"x"}}
	p.handleLines(ev)
	p.handleDetach(9)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.lines) != 1 || rec.lines[0].Tick != 4 {
		t.Errorf("lines feed = %+v, want the one event", rec.lines)
	}
	if len(rec.detached) != 1 || rec.detached[0] != 9 {
		t.Errorf("detach feed = %v, want [9]", rec.detached)
	}
}

func TestProvider_UnprovidedBufferStaysQuiet(t *testing.T) {
	fake := backendtest.New()
	buf := fake.StageBuffer("scratch", []string{"alpha"})
	p := NewProvider(fake, testScheme, nil)
	t.Cleanup(p.Close)

	var cc changeCounter
	unsub := p.OnDidChange(cc.add)
	defer unsub()

	p.handleLines(backend.BufferLinesEvent{
		Buffer: buf, FirstLine: 0, LastLine: 1, Lines: []string{"beta"},
	})

	time.Sleep(3 * changeCoalesce)
	if n := cc.count(); n != 0 {
		t.Errorf("announcements = %d for a never-provided buffer, want 0", n)
	}
}

func TestProvider_CloseStopsServing(t *testing.T) {
	fake := backendtest.New()
	buf := fake.StageBuffer("scratch", []string{"alpha"})
	p := NewProvider(fake, testScheme, nil)

	uri := host.BufferURI(testScheme, int(buf), "scratch")
	p.Provide(uri)
	p.Close()

	if _, ok := p.Provide(uri); ok {
		t.Error("Provide served after Close")
	}
}
