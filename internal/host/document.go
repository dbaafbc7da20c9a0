package host

import (
	"strings"
	"sync"
)

// EOL identifies a document's line ending convention.
type EOL int

const (
	EOLUnix    EOL = iota // \n
	EOLWindows            // \r\n
)

// String returns the literal line ending sequence.
func (e EOL) String() string {
	if e == EOLWindows {
		return "\r\n"
	}
	return "\n"
}

// DetectEOL picks the line ending convention used by text. The first
// line break decides; text without line breaks defaults to Unix.
func DetectEOL(text string) EOL {
	if i := strings.IndexByte(text, '\n'); i > 0 && text[i-1] == '\r' {
		return EOLWindows
	}
	return EOLUnix
}

// SplitLines splits text into lines, accepting both line ending
// conventions. Empty text yields a single empty line, matching how both
// sides of the bridge represent an empty document.
func SplitLines(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(normalized, "\n")
}

// Document is the host-side view of an open text document.
//
// Thread-safety: all methods are safe for concurrent use.
type Document struct {
	mu       sync.RWMutex
	uri      string
	lines    []string
	eol      EOL
	version  int
	dirty    bool
	closed   bool
	external bool
}

// NewDocument creates a host-owned document from its full text.
func NewDocument(uri, text string) *Document {
	return &Document{
		uri:   uri,
		lines: SplitLines(text),
		eol:   DetectEOL(text),
	}
}

// NewExternalDocument creates a read-only document mirroring a
// backend-originated buffer.
func NewExternalDocument(uri string, lines []string) *Document {
	d := &Document{
		uri:      uri,
		eol:      EOLUnix,
		external: true,
	}
	d.lines = append(d.lines, lines...)
	if len(d.lines) == 0 {
		d.lines = []string{""}
	}
	return d
}

// URI returns the document's identity.
func (d *Document) URI() string {
	return d.uri
}

// External reports whether the document mirrors a backend-originated
// buffer and is read-only on the host side.
func (d *Document) External() bool {
	return d.external
}

// EOL returns the document's line ending convention.
func (d *Document) EOL() EOL {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.eol
}

// Lines returns a copy of the document's lines.
func (d *Document) Lines() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// Line returns line i and whether it exists.
func (d *Document) Line(i int) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if i < 0 || i >= len(d.lines) {
		return "", false
	}
	return d.lines[i], true
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.lines)
}

// Text returns the full document text joined with its line ending.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return strings.Join(d.lines, d.eol.String())
}

// SetLines replaces the document content and bumps the version.
func (d *Document) SetLines(lines []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines = make([]string, len(lines))
	copy(d.lines, lines)
	if len(d.lines) == 0 {
		d.lines = []string{""}
	}
	d.version++
}

// Version returns the content revision counter.
func (d *Document) Version() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// SetDirty records whether the host reports unsaved changes.
func (d *Document) SetDirty(dirty bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dirty = dirty
}

// Dirty reports whether the host has unsaved changes for the document.
func (d *Document) Dirty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dirty
}

// Close marks the document closed. Closed documents are skipped by
// reconciliation and their backend resources reclaimed.
func (d *Document) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
}

// Closed reports whether the document has been closed by the host.
func (d *Document) Closed() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.closed
}
