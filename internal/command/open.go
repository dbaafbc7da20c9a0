package command

import (
	"github.com/SYK-08/vscode-neovim/internal/host"
)

// ScratchName is the open-file target that creates an untitled
// document instead of opening a path.
const ScratchName = "__new__"

type closeMode int

const (
	closeNone closeMode = iota
	closeCurrent
	closeAll
)

// decodeCloseMode reads open-file's optional second argument: a truthy
// value closes the prior editor, the string "all" closes every other
// editor once the target is shown.
func decodeCloseMode(args []any, i int) closeMode {
	if i >= len(args) {
		return closeNone
	}
	switch v := args[i].(type) {
	case bool:
		if v {
			return closeCurrent
		}
	case string:
		if v == "all" {
			return closeAll
		}
	default:
		if n, ok := argInt(args, i); ok && n != 0 {
			return closeCurrent
		}
	}
	return closeNone
}

func (b *binder) openFile(args []any) error {
	name, ok := argString(args, 0)
	if !ok {
		return badArgs(OpenFile, "file name")
	}
	mode := decodeCloseMode(args, 1)

	prior := b.UI.ActiveEditor()
	var (
		doc *host.Document
		err error
	)
	if name == ScratchName {
		doc, err = b.UI.OpenScratch("")
	} else {
		doc, err = b.UI.OpenDocument(host.FileURI(name))
	}
	if err != nil {
		b.Log.Warn("open %q: %v", name, err)
		return nil
	}

	column := 0
	if mode == closeCurrent && prior != nil {
		column = prior.Column()
		if err := b.UI.CloseEditor(prior); err != nil {
			b.Log.Warn("close %s: %v", prior.Document().URI(), err)
		}
	}
	shown, err := b.UI.ShowDocument(doc, column, false)
	if err != nil {
		b.Log.Warn("show %q: %v", name, err)
		return nil
	}
	if mode == closeAll {
		for _, ed := range b.UI.VisibleEditors() {
			if ed == shown || ed.Document() == doc {
				continue
			}
			if err := b.UI.CloseEditor(ed); err != nil {
				b.Log.Warn("close %s: %v", ed.Document().URI(), err)
			}
		}
	}

	// The open changed the layout without a host event; schedule the
	// sync directly.
	b.Reconciler.NotifyVisibleChanged()
	return nil
}
