package command

import (
	"github.com/SYK-08/vscode-neovim/internal/host"
	"github.com/SYK-08/vscode-neovim/internal/input"
	"github.com/SYK-08/vscode-neovim/internal/layout"
	"github.com/SYK-08/vscode-neovim/internal/logging"
	"github.com/SYK-08/vscode-neovim/internal/viewport"
)

// Prefix namespaces every command the bridge registers.
const Prefix = "vscode-neovim."

// Command names. The backend invokes the first four through its
// notification channel; the rest are host keybinding targets.
const (
	OpenFile             = Prefix + "open-file"
	AttachExternalBuffer = Prefix + "attach-external-buffer"
	WindowFocusChanged   = Prefix + "window-focus-changed"
	ScrollViewport       = Prefix + "scroll-viewport"
	Send                 = Prefix + "send"
	SendBlocking         = Prefix + "send-blocking"
	Escape               = Prefix + "escape"
	Enable               = Prefix + "enable"
	Disable              = Prefix + "disable"
	Toggle               = Prefix + "toggle"
	CompositeEscape1     = Prefix + "composite-escape1"
	CompositeEscape2     = Prefix + "composite-escape2"
	CompositionStart     = Prefix + "composition-start"
	CompositionEnd       = Prefix + "composition-end"
	ReplacePrevChar      = Prefix + "replace-prev-char"
	Type                 = Prefix + "type"
)

// Deps are the bridge components the handlers act on.
type Deps struct {
	Router     *input.Router
	Reconciler *layout.Reconciler
	Tracker    *viewport.Tracker
	UI         host.UI
	Log        *logging.Logger
}

// Bind registers the full command surface on reg, every handler closed
// over deps. A nil Log disables logging.
func Bind(reg *Registry, deps Deps) {
	b := &binder{Deps: deps}
	if b.Log == nil {
		b.Log = logging.Null
	}
	b.Log = b.Log.WithComponent("command")

	reg.Register(OpenFile, b.openFile)
	reg.Register(AttachExternalBuffer, b.attachExternalBuffer)
	reg.Register(WindowFocusChanged, b.windowFocusChanged)
	reg.Register(ScrollViewport, b.scrollViewport)
	reg.Register(Send, b.send)
	reg.Register(SendBlocking, b.sendBlocking)
	reg.Register(Escape, b.escape)
	reg.Register(Enable, b.enable)
	reg.Register(Disable, b.disable)
	reg.Register(Toggle, b.toggle)
	reg.Register(CompositeEscape1, b.compositeEscape1)
	reg.Register(CompositeEscape2, b.compositeEscape2)
	reg.Register(CompositionStart, b.compositionStart)
	reg.Register(CompositionEnd, b.compositionEnd)
	reg.Register(ReplacePrevChar, b.replacePrevChar)
	reg.Register(Type, b.typeText)
}

type binder struct {
	Deps
}
