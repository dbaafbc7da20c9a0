package app

import "errors"

// Lifecycle errors.
var (
	// ErrAlreadyRunning is returned by Start on a running bridge.
	ErrAlreadyRunning = errors.New("app: bridge already running")

	// ErrNotRunning is returned by operations that need a running
	// bridge.
	ErrNotRunning = errors.New("app: bridge not running")

	// ErrMissingHost is returned by New when the host surfaces are
	// absent.
	ErrMissingHost = errors.New("app: host UI and typer are required")
)

// InitError reports which component failed during Start. The bridge
// components started before it are torn down again before Start
// returns.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
