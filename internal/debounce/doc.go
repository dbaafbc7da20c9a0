// Package debounce provides trailing-edge call coalescing for the bridge.
//
// Nearly every reconciliation trigger in the bridge is debounced: layout
// changes, active-editor changes, backend focus notifications, host scroll
// events, and tab option updates all arrive in rapid bursts and must fold
// into a single trailing action. All of those sites share the two types
// here instead of carrying their own timers.
//
// Two variants are provided:
//
//   - Debouncer: coalesces parameterless triggers
//   - Latest: coalesces triggers that carry a value, delivering only the
//     most recent one
//
// Both rearm an explicit timer on every call and use a sequence number to
// invalidate timer callbacks that lost the race with a newer call, a
// cancel, or an immediate flush. Delays are adjustable at runtime because
// several of them are configuration-driven.
package debounce
