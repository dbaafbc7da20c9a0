// Package command exposes the bridge's host-facing command surface.
//
// Every operation the host (or the headless harness) can invoke on the
// bridge is registered under a "vscode-neovim."-prefixed name in a
// Registry. The backend reaches the same surface: the app layer
// translates its custom notifications into Execute calls, so window
// focus, external buffers, and viewport scrolls arrive through the one
// dispatch path regardless of origin.
//
// Handlers receive positional arguments exactly as the transport
// delivered them. Decoding, including the loose integer encodings
// msgpack produces, happens inside each handler; a handler that cannot
// decode its arguments returns ErrBadArgs rather than panicking.
package command
