// Package backend defines the bridge's view of the Neovim instance.
//
// Components never touch the RPC client directly. They speak through the
// Client interface, which covers exactly the slice of the API the bridge
// consumes: buffer and window lifecycle, cursor and viewport control,
// atomic batches, and the push notification feed. NvimClient adapts
// github.com/neovim/go-client to that interface; backendtest provides a
// scripted in-memory implementation for tests.
//
// # Identity
//
// BufferID, WindowID, and GridID are the backend's integer handles.
// Handles are opaque: the bridge never derives meaning from their values
// beyond equality, with one exception (buffer 1, the startup scratch
// buffer, is ignored during external buffer adoption).
//
// # Coordinates
//
// The RPC protocol mixes 1-based lines with 0-based columns. Client
// normalizes all of it: lines and columns crossing this interface are
// zero-indexed, and NvimClient converts at the wire.
//
// # Notifications
//
// Redraw batches, buffer change events, and the bridge's own autocommand
// notifications (window-changed, window-scroll, external-buffer,
// mode-changed) arrive on the RPC channel. Handlers are registered
// through OnRedraw, OnBufferLines, OnBufferDetach, and OnNotify before
// the UI is attached, and run on the client's dispatch goroutine.
package backend
