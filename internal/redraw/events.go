package redraw

import "github.com/SYK-08/vscode-neovim/internal/backend"

// Kind names a redraw event, matching the wire name.
type Kind string

const (
	KindWinPos         Kind = "win_pos"
	KindWinExternalPos Kind = "win_external_pos"
	KindWinClose       Kind = "win_close"
	KindGridResize     Kind = "grid_resize"
	KindGridLine       Kind = "grid_line"
	KindGridScroll     Kind = "grid_scroll"
	KindGridCursorGoto Kind = "grid_cursor_goto"
	KindGridDestroy    Kind = "grid_destroy"
	KindWinViewport    Kind = "win_viewport"
	KindHLAttrDefine   Kind = "hl_attr_define"
	KindModeChange     Kind = "mode_change"
	KindMsgShow        Kind = "msg_show"
	KindMsgClear       Kind = "msg_clear"
	KindCmdlineShow    Kind = "cmdline_show"
	KindCmdlineHide    Kind = "cmdline_hide"
	KindFlush          Kind = "flush"
)

// Event is a decoded redraw event.
type Event interface {
	Kind() Kind
}

// WinPos binds a grid to a window at a position in the global layout.
type WinPos struct {
	Grid     backend.GridID
	Window   backend.WindowID
	StartRow int
	StartCol int
	Width    int
	Height   int
}

func (WinPos) Kind() Kind { return KindWinPos }

// WinExternalPos binds a grid to an externally positioned window.
type WinExternalPos struct {
	Grid   backend.GridID
	Window backend.WindowID
}

func (WinExternalPos) Kind() Kind { return KindWinExternalPos }

// WinClose reports that the window owning a grid closed.
type WinClose struct {
	Grid backend.GridID
}

func (WinClose) Kind() Kind { return KindWinClose }

// GridResize reports a grid's new dimensions in cells.
type GridResize struct {
	Grid   backend.GridID
	Width  int
	Height int
}

func (GridResize) Kind() Kind { return KindGridResize }

// GridCell is one run of cells in a GridLine event. HLID is -1 when the
// cell inherits the previous run's highlight.
type GridCell struct {
	Text   string
	HLID   int
	Repeat int
}

// GridLine carries redrawn cell content for part of a grid row.
type GridLine struct {
	Grid     backend.GridID
	Row      int
	ColStart int
	Cells    []GridCell
}

func (GridLine) Kind() Kind { return KindGridLine }

// GridScroll reports a rectangular scroll within a grid. Rows is
// positive when content moved up.
type GridScroll struct {
	Grid  backend.GridID
	Top   int
	Bot   int
	Left  int
	Right int
	Rows  int
	Cols  int
}

func (GridScroll) Kind() Kind { return KindGridScroll }

// GridCursorGoto reports the cursor's new cell within a grid.
type GridCursorGoto struct {
	Grid backend.GridID
	Row  int
	Col  int
}

func (GridCursorGoto) Kind() Kind { return KindGridCursorGoto }

// GridDestroy reports that a grid was destroyed.
type GridDestroy struct {
	Grid backend.GridID
}

func (GridDestroy) Kind() Kind { return KindGridDestroy }

// WinViewport reports a window's viewport in buffer coordinates. Lines
// are zero-indexed; BottomLine is one past the last displayed line.
type WinViewport struct {
	Grid       backend.GridID
	Window     backend.WindowID
	TopLine    int
	BottomLine int
	CurLine    int
	CurCol     int
}

func (WinViewport) Kind() Kind { return KindWinViewport }

// HLAttrDefine defines a highlight attribute id.
type HLAttrDefine struct {
	ID   int
	RGB  map[string]any
	Term map[string]any
}

func (HLAttrDefine) Kind() Kind { return KindHLAttrDefine }

// ModeChange reports the backend's new editing mode.
type ModeChange struct {
	Mode  string
	Index int
}

func (ModeChange) Kind() Kind { return KindModeChange }

// MsgShow carries a message for the host to surface.
type MsgShow struct {
	Category    string
	Content     string
	ReplaceLast bool
}

func (MsgShow) Kind() Kind { return KindMsgShow }

// MsgClear clears previously shown messages.
type MsgClear struct{}

func (MsgClear) Kind() Kind { return KindMsgClear }

// CmdlineShow reports the command line's content and cursor.
type CmdlineShow struct {
	Content string
	Pos     int
	FirstC  string
	Prompt  string
	Indent  int
	Level   int
}

func (CmdlineShow) Kind() Kind { return KindCmdlineShow }

// CmdlineHide reports that the command line was dismissed.
type CmdlineHide struct {
	Level int
}

func (CmdlineHide) Kind() Kind { return KindCmdlineHide }

// Flush marks the end of a consistent redraw pass. State accumulated
// from earlier events in the batch may be acted on when it arrives.
type Flush struct{}

func (Flush) Kind() Kind { return KindFlush }
