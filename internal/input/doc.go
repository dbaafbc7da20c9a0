// Package input decides where host keystrokes go.
//
// The host intercepts typing and hands each chunk of text to the
// Router. In normal mode the text is forwarded to the backend, which
// owns all editing; in insert mode the host edits natively and the
// Router hands the text straight back; around the edges of insert mode
// the text is buffered until the bridge's document state settles.
//
// # States
//
//   - StateNormal: keys are forwarded to the backend as input.
//   - StateEnteringInsert: insert mode was entered while a document
//     change was still being applied; keys are buffered and replayed
//     once the change lock and cursor settle.
//   - StateInsert: the host edits natively; keys are handed back.
//   - StateExitingInsert: an escape is in flight; keys are buffered
//     and follow the exit key to the backend.
//   - StateComposing: an IME composition is active; keys accumulate
//     into the composed string instead of being routed.
//
// State transitions are driven by the backend's mode-change events,
// not by the router's own commands: the router marks entry and exit as
// pending and trusts the backend to confirm them.
//
// # Escape handling
//
// Escape flushes pending document-change locks and pushes the final
// host cursor before the exit key is sent, so the backend leaves
// insert mode operating on the text and cursor the user last saw. A
// composite escape (double-tapping a key like "j" within a short
// window) deletes the first tap's character from the host and then
// escapes.
//
// # Usage
//
//	router := input.NewRouter(client, harness, harness, reconciler,
//		input.DefaultConfig(), logger)
//	router.Register(decoder)
//
//	// The host's type interception calls:
//	router.TypeText(text)
package input
