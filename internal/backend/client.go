package backend

// Client is the RPC surface the bridge consumes. All lines and columns
// are zero-indexed; implementations convert to the wire convention.
//
// Methods are safe for concurrent use. Calls made from notification
// handlers must not block on the handler's own channel; use a goroutine
// or a batch when in doubt.
type Client interface {
	// CreateBuffer creates a buffer and returns its handle.
	CreateBuffer(listed, scratch bool) (BufferID, error)

	// BufferLines returns the buffer's full content.
	BufferLines(buf BufferID) ([]string, error)

	// SetBufferLines replaces the zero-indexed half-open line range
	// [start, end) with lines. end == -1 addresses the buffer end.
	SetBufferLines(buf BufferID, start, end int, lines []string) error

	// BufferLineCount returns the buffer's line count.
	BufferLineCount(buf BufferID) (int, error)

	// BufferName returns the buffer's full name.
	BufferName(buf BufferID) (string, error)

	// SetBufferName renames the buffer.
	SetBufferName(buf BufferID, name string) error

	// SetBufferOption sets a buffer-local option.
	SetBufferOption(buf BufferID, name string, value any) error

	// BufferOption reads a buffer-local option into result.
	BufferOption(buf BufferID, name string, result any) error

	// SetBufferVar sets a buffer-scoped variable.
	SetBufferVar(buf BufferID, name string, value any) error

	// Buffers lists all buffer handles.
	Buffers() ([]BufferID, error)

	// DeleteBuffer wipes the buffer.
	DeleteBuffer(buf BufferID, force bool) error

	// AttachBuffer subscribes to the buffer's change feed. With
	// sendBuffer set, the first notification carries the whole content.
	AttachBuffer(buf BufferID, sendBuffer bool) (bool, error)

	// DetachBuffer unsubscribes from the buffer's change feed.
	DetachBuffer(buf BufferID) (bool, error)

	// IsBufferLoaded reports whether the buffer exists and is loaded.
	IsBufferLoaded(buf BufferID) (bool, error)

	// OpenWindow creates an external window showing buf, sized in
	// cells, with window autocommands suppressed.
	OpenWindow(buf BufferID, enter bool, width, height int) (WindowID, error)

	// CloseWindow closes the window.
	CloseWindow(win WindowID, force bool) error

	// Windows lists all window handles.
	Windows() ([]WindowID, error)

	// WindowBuffer returns the buffer the window shows.
	WindowBuffer(win WindowID) (BufferID, error)

	// SetWindowBuffer switches the window to show buf.
	SetWindowBuffer(win WindowID, buf BufferID) error

	// CurrentWindow returns the focused window.
	CurrentWindow() (WindowID, error)

	// SetCurrentWindow focuses the window.
	SetCurrentWindow(win WindowID) error

	// WindowCursor returns the window's cursor position.
	WindowCursor(win WindowID) (line, col int, err error)

	// SetWindowCursor moves the window's cursor.
	SetWindowCursor(win WindowID, line, col int) error

	// IsWindowValid reports whether the window still exists.
	IsWindowValid(win WindowID) (bool, error)

	// SetWindowOption sets a window-local option.
	SetWindowOption(win WindowID, name string, value any) error

	// SetViewport scrolls the window so topLine is its first visible
	// line, growing the window when the topLine..bottomLine span does
	// not fit. The cursor stays put when it remains visible.
	SetViewport(win WindowID, topLine, bottomLine int) error

	// Command executes an ex command.
	Command(cmd string) error

	// ExecLua runs a Lua chunk with args, decoding the chunk's return
	// value into result when result is non-nil.
	ExecLua(code string, result any, args ...any) error

	// Input queues raw keys, as if typed. Termcodes like <Esc> are
	// translated.
	Input(keys string) error

	// SetVar sets a global variable.
	SetVar(name string, value any) error

	// ChannelID returns the RPC channel id of this connection. Lua run
	// through ExecLua uses it to rpcnotify the bridge back.
	ChannelID() int

	// Mode returns the current mode and blocking state.
	Mode() (Mode, error)

	// AttachUI attaches the multigrid UI, enabling the redraw stream.
	AttachUI(width, height int) error

	// NewBatch starts an atomic batch. Calls recorded on the batch are
	// sent as one request when Execute runs.
	NewBatch() Batch

	// OnRedraw registers the handler for redraw batches. Each batch is
	// the raw update list: one entry per event name, the name at index
	// zero followed by argument tuples.
	OnRedraw(fn func(updates [][]any)) error

	// OnBufferLines registers the handler for buffer change events.
	OnBufferLines(fn func(ev BufferLinesEvent)) error

	// OnBufferDetach registers the handler for buffer detach events.
	OnBufferDetach(fn func(buf BufferID)) error

	// OnNotify registers a handler for a named broadcast notification.
	OnNotify(name string, fn func(args []any)) error

	// Close tears down the connection. For spawned instances the child
	// process is terminated.
	Close() error
}

// Batch records calls for atomic execution. Result pointers are filled
// in by Execute; they must not be read before Execute returns. A failed
// call aborts the remainder of the batch and Execute returns its error;
// calls before the failure stay applied.
type Batch interface {
	CreateBuffer(listed, scratch bool, out *BufferID)
	SetBufferLines(buf BufferID, start, end int, lines []string)
	SetBufferName(buf BufferID, name string)
	SetBufferOption(buf BufferID, name string, value any)
	SetBufferVar(buf BufferID, name string, value any)
	DeleteBuffer(buf BufferID, force bool)
	AttachBuffer(buf BufferID, sendBuffer bool, out *bool)
	OpenWindow(buf BufferID, enter bool, width, height int, out *WindowID)
	CloseWindow(win WindowID, force bool)
	SetWindowBuffer(win WindowID, buf BufferID)
	SetWindowCursor(win WindowID, line, col int)
	SetWindowOption(win WindowID, name string, value any)
	SetCurrentWindow(win WindowID)
	Command(cmd string)
	ExecLua(code string, args ...any)

	// Execute sends the recorded calls as one atomic request.
	Execute() error
}
