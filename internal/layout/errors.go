package layout

import (
	"errors"
	"fmt"
)

// Sentinel errors for synchronization outcomes.
var (
	// ErrSuperseded reports that a run was abandoned because a newer
	// run invalidated its token.
	ErrSuperseded = errors.New("layout: run superseded")

	// ErrSyncTimeout reports that waiting on a completion signal
	// exceeded the configured bound.
	ErrSyncTimeout = errors.New("layout: synchronization wait timed out")
)

// DesyncError reports a mapping lookup that should have succeeded. It
// is logged rather than propagated: the next full layout run rebuilds
// the tables and heals the gap.
type DesyncError struct {
	Table string
	Key   interface{}
}

func (e *DesyncError) Error() string {
	return fmt.Sprintf("layout: desynchronized %s mapping for %v", e.Table, e.Key)
}
