package command

import "errors"

var (
	// ErrNoHandler is returned by Execute when nothing is registered
	// under the requested name.
	ErrNoHandler = errors.New("command: no handler registered")

	// ErrBadArgs is returned by handlers whose positional arguments do
	// not decode.
	ErrBadArgs = errors.New("command: bad arguments")
)
