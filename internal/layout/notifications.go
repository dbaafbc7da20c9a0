package layout

import (
	"fmt"

	"github.com/SYK-08/vscode-neovim/internal/backend"
)

// DecodeWindowChanged decodes the window-changed notification payload:
// the id of the window that gained focus.
func DecodeWindowChanged(args []any) (backend.WindowID, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("window-changed: empty payload")
	}
	win, ok := notifyInt(args[0])
	if !ok {
		return 0, fmt.Errorf("window-changed: window id %T", args[0])
	}
	return backend.WindowID(win), nil
}

// DecodeExternalBuffer decodes the external-buffer notification
// payload: buffer id, buffer name, expandtab flag, and tabstop.
func DecodeExternalBuffer(args []any) (ExternalBuffer, error) {
	if len(args) < 4 {
		return ExternalBuffer{}, fmt.Errorf("external-buffer: %d of 4 fields", len(args))
	}
	id, ok := notifyInt(args[0])
	if !ok {
		return ExternalBuffer{}, fmt.Errorf("external-buffer: buffer id %T", args[0])
	}
	name, ok := args[1].(string)
	if !ok {
		return ExternalBuffer{}, fmt.Errorf("external-buffer: name %T", args[1])
	}
	expand, ok := notifyBool(args[2])
	if !ok {
		return ExternalBuffer{}, fmt.Errorf("external-buffer: expandtab %T", args[2])
	}
	tabSize, ok := notifyInt(args[3])
	if !ok {
		return ExternalBuffer{}, fmt.Errorf("external-buffer: tabstop %T", args[3])
	}
	return ExternalBuffer{
		ID:        backend.BufferID(id),
		Name:      name,
		ExpandTab: expand,
		TabSize:   tabSize,
	}, nil
}

// notifyInt coerces the integer encodings msgpack delivers.
func notifyInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case int32:
		return int(n), true
	case uint32:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// notifyBool accepts both booleans and vimscript's 0/1 convention.
func notifyBool(v any) (bool, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	if n, ok := notifyInt(v); ok {
		return n != 0, true
	}
	return false, false
}
