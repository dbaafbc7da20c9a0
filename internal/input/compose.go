package input

import "strings"

// CompositionStart opens an IME composition session. Keys accumulate
// until CompositionEnd instead of being routed.
func (r *Router) CompositionStart() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.composing = true
	r.composeBuf = ""
}

// CompositionEnd closes the composition session. Outside insert mode
// the composed text is forwarded to the backend; in insert mode the
// host owns typing and the text is handed back. The accumulator is
// cleared either way.
func (r *Router) CompositionEnd() error {
	r.mu.Lock()
	text := r.composeBuf
	r.composeBuf = ""
	r.composing = false
	inInsert := r.state == StateInsert || r.state == StateEnteringInsert
	r.mu.Unlock()

	if text == "" {
		return nil
	}
	if inInsert {
		return r.typer.TypeText(text)
	}
	return r.client.Input(escapeKeys(text))
}

// ReplacePrevChar handles the host's replace-previous-character event,
// sent by IMEs that rewrite recently committed text. During
// composition it edits the accumulator; in insert mode the host edits
// natively; otherwise backspaces and the replacement are forwarded to
// the backend.
func (r *Router) ReplacePrevChar(text string, count int) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	if r.composing {
		r.composeBuf = trimGraphemes(r.composeBuf, count) + text
		r.mu.Unlock()
		return nil
	}
	st := r.state
	r.mu.Unlock()

	if st == StateInsert {
		return r.typer.ReplacePrevChar(text, count)
	}
	return r.client.Input(strings.Repeat("<BS>", count) + escapeKeys(text))
}
