package input

import (
	"context"
	"time"
)

// Escape sends the insert-exit key. Leaving insert first settles
// pending document changes and pushes the final host cursor, so the
// backend exits insert operating on the text and cursor the user last
// saw. From normal mode the key is forwarded directly, clearing any
// pending operator backend-side.
func (r *Router) Escape() error {
	r.mu.Lock()
	if r.closed || !r.enabledLocked() {
		r.mu.Unlock()
		return nil
	}
	if r.composing {
		// Escape cancels the composition.
		r.composing = false
		r.composeBuf = ""
	}
	wasInsert := r.state == StateInsert || r.state == StateEnteringInsert
	if wasInsert {
		r.state = StateExitingInsert
		r.entrySeq++
	}
	text := r.takePending()
	r.mu.Unlock()

	if wasInsert {
		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.LockWait)
		defer cancel()
		if err := r.gate.WaitPendingSync(ctx); err != nil {
			r.log.Warn("escape: pending sync: %v", err)
		}
		if ed := r.ui.ActiveEditor(); ed != nil {
			if err := r.gate.PushCursor(ed); err != nil {
				r.log.Warn("escape: cursor push: %v", err)
			}
		}
	}
	return r.client.Input("<Esc>" + escapeKeys(text))
}

// CompositeEscapeFirst handles the first key of a composite escape
// pair. Tapping it twice inside the window deletes the character the
// first tap inserted and escapes; otherwise the key is typed normally
// and the tap is remembered.
func (r *Router) CompositeEscapeFirst(key string) error {
	return r.compositeEscape(key, true)
}

// CompositeEscapeSecond handles the second key of a composite escape
// pair: escape when the first key was tapped inside the window, plain
// typing otherwise.
func (r *Router) CompositeEscapeSecond(key string) error {
	return r.compositeEscape(key, false)
}

func (r *Router) compositeEscape(key string, first bool) error {
	r.mu.Lock()
	if r.closed || !r.enabledLocked() {
		r.mu.Unlock()
		return nil
	}
	if r.state != StateInsert && r.state != StateEnteringInsert {
		// Composite keys only mean escape while inserting.
		r.mu.Unlock()
		return nil
	}
	now := time.Now()
	fired := !r.firstTap.IsZero() && now.Sub(r.firstTap) <= r.cfg.CompositeWindow
	if fired {
		r.firstTap = time.Time{}
	} else if first {
		r.firstTap = now
	}
	r.mu.Unlock()

	if !fired {
		return r.typer.TypeText(key)
	}
	if err := r.typer.DeleteLeft(); err != nil {
		r.log.Warn("composite escape delete: %v", err)
	}
	return r.Escape()
}

// SendKey forwards a bound key, already in termcode notation.
func (r *Router) SendKey(keys string) error {
	if !r.Enabled() {
		return nil
	}
	return r.client.Input(keys)
}

// SendBlockingKey forwards a key while the backend is blocked on a
// prompt. A key the backend will not take is typed into the host
// instead so the user's input is not swallowed.
func (r *Router) SendBlockingKey(keys string) error {
	if !r.Enabled() {
		return nil
	}
	if err := r.client.Input(keys); err != nil {
		r.log.Warn("blocking key %q not accepted: %v", keys, err)
		return r.typer.TypeText(keys)
	}
	return nil
}
