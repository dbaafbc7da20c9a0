package app

import (
	"strings"
	"sync"
	"time"

	"github.com/SYK-08/vscode-neovim/internal/backend"
	"github.com/SYK-08/vscode-neovim/internal/debounce"
	"github.com/SYK-08/vscode-neovim/internal/host"
	"github.com/SYK-08/vscode-neovim/internal/logging"
)

// changeCoalesce is the quiet period that folds a burst of line events
// on one buffer into a single change announcement.
const changeCoalesce = 10 * time.Millisecond

// ChangeListener receives the attached buffers' change feed verbatim.
// The layer that applies backend edits to host documents registers
// here; while a write is in flight it should hold the document's
// change lock on the reconciler so typing stays gated.
type ChangeListener interface {
	BufferLinesChanged(ev backend.BufferLinesEvent)
	BufferDetached(buf backend.BufferID)
}

// Provider serves backend buffer content to the host for URIs minted
// under the bridge's scheme. Content is cached per buffer and kept
// current from the change feed; hosts subscribe to OnDidChange to
// learn when a provided URI must be fetched again.
type Provider struct {
	client backend.Client
	scheme string
	log    *logging.Logger
	flush  *debounce.Debouncer

	mu       sync.Mutex
	cache    map[backend.BufferID]*bufferContent
	subs     map[uint64]func(uri string)
	nextSub  uint64
	pending  map[backend.BufferID]string
	listener ChangeListener
	closed   bool
}

type bufferContent struct {
	uri   string
	lines []string
}

// NewProvider creates a provider over the given connection. A nil
// logger disables logging.
func NewProvider(client backend.Client, scheme string, log *logging.Logger) *Provider {
	if log == nil {
		log = logging.Null
	}
	p := &Provider{
		client:  client,
		scheme:  scheme,
		log:     log.WithComponent("provider"),
		cache:   make(map[backend.BufferID]*bufferContent),
		subs:    make(map[uint64]func(uri string)),
		pending: make(map[backend.BufferID]string),
	}
	p.flush = debounce.New(changeCoalesce, p.flushPending)
	return p
}

// Provide returns the content behind a bridge-scheme URI, the lines
// joined by newlines. URIs outside the scheme, unknown buffer ids and
// fetch failures yield no content, not an error; the host renders an
// empty document and the log carries the reason.
func (p *Provider) Provide(uri string) (string, bool) {
	if host.URIScheme(uri) != p.scheme {
		return "", false
	}
	id, _, err := host.ParseBufferURI(uri)
	if err != nil {
		p.log.Debug("provide %q: %v", uri, err)
		return "", false
	}
	buf := backend.BufferID(id)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return "", false
	}
	if c, ok := p.cache[buf]; ok {
		content := strings.Join(c.lines, "\n")
		p.mu.Unlock()
		return content, content != ""
	}
	p.mu.Unlock()

	lines, err := p.client.BufferLines(buf)
	if err != nil {
		p.log.Debug("provide %q: %v", uri, err)
		return "", false
	}

	p.mu.Lock()
	if !p.closed {
		p.cache[buf] = &bufferContent{uri: uri, lines: lines}
	}
	p.mu.Unlock()
	// An empty buffer has nothing to show yet. It stays cached so a
	// later fill announces a change and the host asks again.
	content := strings.Join(lines, "\n")
	return content, content != ""
}

// OnDidChange registers fn to run with the URI of each provided buffer
// whose content changed. Bursts on one buffer coalesce into a single
// call. The returned function unsubscribes.
func (p *Provider) OnDidChange(fn func(uri string)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.mu.Unlock()
	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// SetChangeListener registers the verbatim change feed consumer. Only
// one listener is held; a nil value detaches it.
func (p *Provider) SetChangeListener(l ChangeListener) {
	p.mu.Lock()
	p.listener = l
	p.mu.Unlock()
}

// Close stops announcements and drops the cache.
func (p *Provider) Close() {
	p.flush.Cancel()
	p.mu.Lock()
	p.closed = true
	p.cache = make(map[backend.BufferID]*bufferContent)
	p.subs = make(map[uint64]func(uri string))
	p.pending = make(map[backend.BufferID]string)
	p.mu.Unlock()
}

// handleLines is the buffer change feed entry point.
func (p *Provider) handleLines(ev backend.BufferLinesEvent) {
	p.mu.Lock()
	l := p.listener
	c, cached := p.cache[ev.Buffer]
	if cached {
		lines, ok := splice(c.lines, ev.FirstLine, ev.LastLine, ev.Lines)
		if ok {
			c.lines = lines
		} else {
			// The event does not fit what we hold; refetch on demand.
			delete(p.cache, ev.Buffer)
		}
		p.pending[ev.Buffer] = c.uri
	}
	closed := p.closed
	p.mu.Unlock()

	if l != nil {
		l.BufferLinesChanged(ev)
	}
	if cached && !closed {
		p.flush.Call()
	}
}

// handleDetach is the buffer detach feed entry point.
func (p *Provider) handleDetach(buf backend.BufferID) {
	p.mu.Lock()
	l := p.listener
	c, cached := p.cache[buf]
	if cached {
		delete(p.cache, buf)
		p.pending[buf] = c.uri
	}
	closed := p.closed
	p.mu.Unlock()

	if l != nil {
		l.BufferDetached(buf)
	}
	if cached && !closed {
		p.flush.Call()
	}
}

// flushPending announces the coalesced changes.
func (p *Provider) flushPending() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	uris := make([]string, 0, len(p.pending))
	for _, uri := range p.pending {
		uris = append(uris, uri)
	}
	p.pending = make(map[backend.BufferID]string)
	fns := make([]func(uri string), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, uri := range uris {
		for _, fn := range fns {
			fn(uri)
		}
	}
}

// splice applies one line event to a cached copy. A LastLine of -1 is
// the whole-buffer form. The bool is false when the range does not fit
// the held content.
func splice(lines []string, first, last int, repl []string) ([]string, bool) {
	if last == -1 {
		return append([]string(nil), repl...), true
	}
	if first < 0 || first > len(lines) || last < first {
		return nil, false
	}
	if last > len(lines) {
		last = len(lines)
	}
	out := make([]string, 0, len(lines)-(last-first)+len(repl))
	out = append(out, lines[:first]...)
	out = append(out, repl...)
	out = append(out, lines[last:]...)
	return out, true
}
