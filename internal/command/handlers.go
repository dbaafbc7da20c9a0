package command

import (
	"fmt"

	"github.com/SYK-08/vscode-neovim/internal/layout"
	"github.com/SYK-08/vscode-neovim/internal/viewport"
)

func badArgs(name, detail string) error {
	return fmt.Errorf("%w: %s: %s", ErrBadArgs, name, detail)
}

func (b *binder) attachExternalBuffer(args []any) error {
	eb, err := layout.DecodeExternalBuffer(args)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadArgs, err)
	}
	b.Reconciler.HandleExternalBuffer(eb)
	return nil
}

func (b *binder) windowFocusChanged(args []any) error {
	win, err := layout.DecodeWindowChanged(args)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadArgs, err)
	}
	b.Reconciler.HandleWindowChanged(win)
	return nil
}

func (b *binder) scrollViewport(args []any) error {
	ws, err := viewport.DecodeWindowScroll(args)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadArgs, err)
	}
	b.Tracker.ApplyWindowScroll(ws)
	return nil
}

func (b *binder) send(args []any) error {
	keys, ok := argString(args, 0)
	if !ok {
		return badArgs(Send, "keys")
	}
	return b.Router.SendKey(keys)
}

func (b *binder) sendBlocking(args []any) error {
	keys, ok := argString(args, 0)
	if !ok {
		return badArgs(SendBlocking, "keys")
	}
	return b.Router.SendBlockingKey(keys)
}

func (b *binder) escape(args []any) error {
	return b.Router.Escape()
}

func (b *binder) enable(args []any) error {
	return b.Router.Enable()
}

func (b *binder) disable(args []any) error {
	return b.Router.Disable()
}

func (b *binder) toggle(args []any) error {
	return b.Router.Toggle()
}

func (b *binder) compositeEscape1(args []any) error {
	key, ok := argString(args, 0)
	if !ok {
		return badArgs(CompositeEscape1, "key")
	}
	return b.Router.CompositeEscapeFirst(key)
}

func (b *binder) compositeEscape2(args []any) error {
	key, ok := argString(args, 0)
	if !ok {
		return badArgs(CompositeEscape2, "key")
	}
	return b.Router.CompositeEscapeSecond(key)
}

func (b *binder) compositionStart(args []any) error {
	b.Router.CompositionStart()
	return nil
}

func (b *binder) compositionEnd(args []any) error {
	return b.Router.CompositionEnd()
}

func (b *binder) replacePrevChar(args []any) error {
	text, ok := argString(args, 0)
	if !ok {
		return badArgs(ReplacePrevChar, "text")
	}
	count, ok := argInt(args, 1)
	if !ok {
		return badArgs(ReplacePrevChar, "count")
	}
	return b.Router.ReplacePrevChar(text, count)
}

func (b *binder) typeText(args []any) error {
	text, ok := argString(args, 0)
	if !ok {
		return badArgs(Type, "text")
	}
	return b.Router.TypeText(text)
}
