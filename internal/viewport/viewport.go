package viewport

import (
	"fmt"

	"github.com/SYK-08/vscode-neovim/internal/backend"
)

// Viewport is the tracked display state of one grid. All values are
// zero-indexed; BottomLine is one past the last displayed line.
type Viewport struct {
	// Line and Col are the cursor position within the buffer.
	Line int
	Col  int
	// TopLine and BottomLine span the displayed lines.
	TopLine    int
	BottomLine int
	// LeftCol is the first displayed column; SkipCol is the horizontal
	// offset within a wrapped first line.
	LeftCol int
	SkipCol int
}

// WindowScroll is a decoded window-scroll autocommand notification.
type WindowScroll struct {
	Window  backend.WindowID
	LeftCol int
	SkipCol int
}

// DecodeWindowScroll decodes the notification's arguments: the window
// id followed by the saved-view dictionary.
func DecodeWindowScroll(args []any) (WindowScroll, error) {
	if len(args) < 2 {
		return WindowScroll{}, fmt.Errorf("window-scroll: want 2 arguments, have %d", len(args))
	}
	win, ok := asInt(args[0])
	if !ok {
		return WindowScroll{}, fmt.Errorf("window-scroll: window id is not a number: %v", args[0])
	}
	view := asMap(args[1])
	if view == nil {
		return WindowScroll{}, fmt.Errorf("window-scroll: view is not a dictionary: %v", args[1])
	}
	ws := WindowScroll{Window: backend.WindowID(win)}
	if v, ok := asInt(view["leftcol"]); ok {
		ws.LeftCol = v
	}
	if v, ok := asInt(view["skipcol"]); ok {
		ws.SkipCol = v
	}
	return ws, nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func asMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out
	}
	return nil
}
