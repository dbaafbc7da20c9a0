// Package host models the host editor side of the bridge.
//
// The bridge core never talks to a concrete editor. It sees documents,
// editors, and tab configuration through the types here, and performs
// editor actions through the UI interface. A real host (or the headless
// harness in cmd/) implements UI and feeds host events into the bridge;
// everything else in the repository stays host-agnostic.
//
// # Identity
//
// Documents are identified by their URI string. Editors are identified by
// a host-assigned EditorID; the id is a plain handle with no ordering or
// ownership semantics. Backend-originated buffers surface on the host
// side as external documents, with synthetic URIs built by BufferURI that
// carry the backend buffer id as the authority component.
//
// # Coordinates
//
// All positions are zero-indexed lines and columns. Visible ranges are
// inclusive on both ends.
package host
