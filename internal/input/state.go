package input

// State is the router's key-routing state.
type State int

const (
	// StateNormal forwards keys to the backend.
	StateNormal State = iota

	// StateEnteringInsert buffers keys while insert-mode entry waits
	// for a pending document change to land.
	StateEnteringInsert

	// StateInsert hands keys back to the host, which edits natively.
	StateInsert

	// StateExitingInsert buffers keys while an escape is in flight.
	StateExitingInsert

	// StateComposing accumulates keys into an IME composition.
	StateComposing
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateEnteringInsert:
		return "entering-insert"
	case StateInsert:
		return "insert"
	case StateExitingInsert:
		return "exiting-insert"
	case StateComposing:
		return "composing"
	}
	return "unknown"
}
