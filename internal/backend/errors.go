package backend

import "errors"

var (
	// ErrUnknownBuffer indicates a handle that no longer names a buffer.
	ErrUnknownBuffer = errors.New("backend: unknown buffer")

	// ErrUnknownWindow indicates a handle that no longer names a window.
	ErrUnknownWindow = errors.New("backend: unknown window")
)
