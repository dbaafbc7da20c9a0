// Package layout reconciles the host editor's layout with the backend.
//
// The host owns which documents are open, which editors are visible,
// and which one is focused. The backend owns buffers, windows, and
// grids. The Reconciler keeps the two worlds consistent by diffing the
// host's state against four bidirectional mapping tables and issuing
// the backend calls that close the gap:
//
//	document URI  ↔  buffer handle
//	editor id     →  window handle
//	window handle →  editor
//	grid id       ↔  window handle
//
// The grid table is populated exclusively from redraw events; the
// bridge never invents a grid binding.
//
// # Synchronization runs
//
// Layout changes arrive in bursts, so every entry point is debounced.
// A full layout run carries a Token from a shared TokenSource: starting
// a new run invalidates every older token, and a run checks its token
// between steps, abandoning quietly when superseded. Completion is
// published through a Signal that later stages (active-editor sync,
// reverse focus sync, input routing) await. A superseded run never
// resolves the Signal; the winning run does.
//
// # Directions
//
// Host to backend: full layout sync, active-editor sync, tab option
// propagation, teardown of windows and buffers in bulk batches.
// Backend to host: reverse focus sync from window-changed
// notifications and adoption of backend-originated buffers announced by
// the external-buffer notification.
//
// # Failure policy
//
// Nothing here is fatal. Mapping gaps are desynchronization errors:
// logged, skipped, and healed by the next full run. Backend errors on
// teardown are ignored beyond logging since the resources are being
// discarded anyway.
package layout
