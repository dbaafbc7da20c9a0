package backend

// BufferID is the backend's handle for a buffer.
type BufferID int

// WindowID is the backend's handle for a window.
type WindowID int

// GridID is the backend's handle for a character grid. Grids exist only
// in the multigrid UI protocol; they are bound to windows by redraw
// events and are never created or destroyed by the bridge.
type GridID int

// ScratchBuffer is the buffer the backend starts with. It is never
// adopted as an external buffer.
const ScratchBuffer BufferID = 1

// Mode is the backend's reported editing mode.
type Mode struct {
	// Name is the short mode code ("n", "i", "v", ...).
	Name string
	// Blocking reports whether the backend is waiting on a prompt and
	// cannot service requests.
	Blocking bool
}

// Insert reports whether the mode is an insert-family mode.
func (m Mode) Insert() bool {
	return len(m.Name) > 0 && m.Name[0] == 'i'
}

// BufferLinesEvent is one change notification from an attached buffer.
// Lines replace the zero-indexed half-open range [FirstLine, LastLine);
// LastLine is -1 on the initial whole-buffer notification.
type BufferLinesEvent struct {
	Buffer    BufferID
	Tick      int64
	FirstLine int
	LastLine  int
	Lines     []string
	More      bool
}
