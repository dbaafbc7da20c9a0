// Package redraw decodes the backend's redraw stream into typed events.
//
// The backend pushes UI state as batched redraw notifications. Each
// batch is a list of updates; each update names an event and carries
// one or more positional argument tuples. The Decoder turns every tuple
// into a typed event and fans it out to listeners subscribed by event
// kind.
//
// # Ordering
//
// Dispatch preserves the batch: events are delivered in tuple order
// across the whole batch, and listeners for the same kind run in
// registration order. Dispatch is synchronous; listeners run on the
// dispatching goroutine and must not block.
//
// # Forward compatibility
//
// The event schema is versioned by the backend. Updates with unknown
// names are skipped, and tuples that fail to decode are logged and
// dropped without aborting the batch. Decoded events tolerate trailing
// tuple elements added by newer backends.
package redraw
