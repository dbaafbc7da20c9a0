// Package viewport tracks what each backend grid is showing.
//
// The backend reports viewport movement per grid through the redraw
// stream; the host reports visible-range changes per editor. The
// Tracker sits between them: it caches the authoritative backend state
// (cursor, top and bottom line, horizontal columns) and converts host
// scrolling into debounced scroll corrections pushed back to the
// backend window.
//
// Corrections are suppressed while the backend is in insert mode, for
// single-line ranges, and whenever the tracked cursor line disagrees
// with the host cursor line. The last guard keeps host-initiated
// scrolling from fighting a cursor-driven scroll already in flight on
// the backend side.
//
// Horizontal state (left column, skip column) never appears in the
// redraw stream; it arrives only through the window-scroll autocommand
// notification and is merged into the same per-grid record.
package viewport
