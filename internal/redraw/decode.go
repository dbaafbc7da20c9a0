package redraw

import (
	"fmt"
	"strings"

	"github.com/SYK-08/vscode-neovim/internal/backend"
)

// decode turns one positional argument tuple into a typed event.
// Tuples may carry trailing elements added by newer backends; those are
// ignored. A nil event with a nil error means the kind is unknown.
func decode(name string, tuple []any) (Event, error) {
	switch Kind(name) {
	case KindWinPos:
		nums, err := ints(tuple, 6)
		if err != nil {
			return nil, err
		}
		return WinPos{
			Grid:     backend.GridID(nums[0]),
			Window:   backend.WindowID(nums[1]),
			StartRow: nums[2],
			StartCol: nums[3],
			Width:    nums[4],
			Height:   nums[5],
		}, nil

	case KindWinExternalPos:
		nums, err := ints(tuple, 2)
		if err != nil {
			return nil, err
		}
		return WinExternalPos{
			Grid:   backend.GridID(nums[0]),
			Window: backend.WindowID(nums[1]),
		}, nil

	case KindWinClose:
		nums, err := ints(tuple, 1)
		if err != nil {
			return nil, err
		}
		return WinClose{Grid: backend.GridID(nums[0])}, nil

	case KindGridResize:
		nums, err := ints(tuple, 3)
		if err != nil {
			return nil, err
		}
		return GridResize{
			Grid:   backend.GridID(nums[0]),
			Width:  nums[1],
			Height: nums[2],
		}, nil

	case KindGridLine:
		return decodeGridLine(tuple)

	case KindGridScroll:
		nums, err := ints(tuple, 7)
		if err != nil {
			return nil, err
		}
		return GridScroll{
			Grid:  backend.GridID(nums[0]),
			Top:   nums[1],
			Bot:   nums[2],
			Left:  nums[3],
			Right: nums[4],
			Rows:  nums[5],
			Cols:  nums[6],
		}, nil

	case KindGridCursorGoto:
		nums, err := ints(tuple, 3)
		if err != nil {
			return nil, err
		}
		return GridCursorGoto{
			Grid: backend.GridID(nums[0]),
			Row:  nums[1],
			Col:  nums[2],
		}, nil

	case KindGridDestroy:
		nums, err := ints(tuple, 1)
		if err != nil {
			return nil, err
		}
		return GridDestroy{Grid: backend.GridID(nums[0])}, nil

	case KindWinViewport:
		nums, err := ints(tuple, 6)
		if err != nil {
			return nil, err
		}
		return WinViewport{
			Grid:       backend.GridID(nums[0]),
			Window:     backend.WindowID(nums[1]),
			TopLine:    nums[2],
			BottomLine: nums[3],
			CurLine:    nums[4],
			CurCol:     nums[5],
		}, nil

	case KindHLAttrDefine:
		return decodeHLAttrDefine(tuple)

	case KindModeChange:
		if len(tuple) < 2 {
			return nil, tupleError(name, tuple, "want 2 elements")
		}
		mode, ok := tuple[0].(string)
		if !ok {
			return nil, tupleError(name, tuple, "mode is not a string")
		}
		idx, ok := asInt(tuple[1])
		if !ok {
			return nil, tupleError(name, tuple, "index is not a number")
		}
		return ModeChange{Mode: mode, Index: idx}, nil

	case KindMsgShow:
		if len(tuple) < 3 {
			return nil, tupleError(name, tuple, "want 3 elements")
		}
		category, ok := tuple[0].(string)
		if !ok {
			return nil, tupleError(name, tuple, "category is not a string")
		}
		replace, _ := tuple[2].(bool)
		return MsgShow{
			Category:    category,
			Content:     flattenChunks(tuple[1]),
			ReplaceLast: replace,
		}, nil

	case KindMsgClear:
		return MsgClear{}, nil

	case KindCmdlineShow:
		if len(tuple) < 6 {
			return nil, tupleError(name, tuple, "want 6 elements")
		}
		pos, ok := asInt(tuple[1])
		if !ok {
			return nil, tupleError(name, tuple, "pos is not a number")
		}
		firstc, _ := tuple[2].(string)
		prompt, _ := tuple[3].(string)
		indent, _ := asInt(tuple[4])
		level, _ := asInt(tuple[5])
		return CmdlineShow{
			Content: flattenChunks(tuple[0]),
			Pos:     pos,
			FirstC:  firstc,
			Prompt:  prompt,
			Indent:  indent,
			Level:   level,
		}, nil

	case KindCmdlineHide:
		level := 0
		if len(tuple) > 0 {
			level, _ = asInt(tuple[0])
		}
		return CmdlineHide{Level: level}, nil

	case KindFlush:
		return Flush{}, nil
	}

	return nil, nil
}

func decodeGridLine(tuple []any) (Event, error) {
	nums, err := ints(tuple, 3)
	if err != nil {
		return nil, err
	}
	ev := GridLine{
		Grid:     backend.GridID(nums[0]),
		Row:      nums[1],
		ColStart: nums[2],
	}
	if len(tuple) < 4 {
		return nil, tupleError("grid_line", tuple, "want 4 elements")
	}
	rawCells, ok := tuple[3].([]any)
	if !ok {
		return nil, tupleError("grid_line", tuple, "cells is not a list")
	}
	ev.Cells = make([]GridCell, 0, len(rawCells))
	for _, rc := range rawCells {
		cell, ok := rc.([]any)
		if !ok || len(cell) == 0 {
			return nil, tupleError("grid_line", tuple, "malformed cell")
		}
		text, ok := cell[0].(string)
		if !ok {
			return nil, tupleError("grid_line", tuple, "cell text is not a string")
		}
		gc := GridCell{Text: text, HLID: -1, Repeat: 1}
		if len(cell) > 1 {
			if hl, ok := asInt(cell[1]); ok {
				gc.HLID = hl
			}
		}
		if len(cell) > 2 {
			if rep, ok := asInt(cell[2]); ok {
				gc.Repeat = rep
			}
		}
		ev.Cells = append(ev.Cells, gc)
	}
	return ev, nil
}

func decodeHLAttrDefine(tuple []any) (Event, error) {
	if len(tuple) < 3 {
		return nil, tupleError("hl_attr_define", tuple, "want 3 elements")
	}
	id, ok := asInt(tuple[0])
	if !ok {
		return nil, tupleError("hl_attr_define", tuple, "id is not a number")
	}
	return HLAttrDefine{
		ID:   id,
		RGB:  asMap(tuple[1]),
		Term: asMap(tuple[2]),
	}, nil
}

// ints coerces the first n tuple elements to ints.
func ints(tuple []any, n int) ([]int, error) {
	if len(tuple) < n {
		return nil, fmt.Errorf("tuple %v: want %d elements, have %d", tuple, n, len(tuple))
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		v, ok := asInt(tuple[i])
		if !ok {
			return nil, fmt.Errorf("tuple %v: element %d is not a number", tuple, i)
		}
		out[i] = v
	}
	return out, nil
}

func tupleError(name string, tuple []any, why string) error {
	return fmt.Errorf("%s tuple %v: %s", name, tuple, why)
}

// asInt coerces the numeric types the msgpack decoder produces.
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

// flattenChunks joins highlight-attributed text chunks into plain text.
// A chunk is [attr_id, text, ...]; anything unrecognized is skipped.
func flattenChunks(v any) string {
	chunks, ok := v.([]any)
	if !ok {
		return ""
	}
	var b strings.Builder
	for _, c := range chunks {
		chunk, ok := c.([]any)
		if !ok || len(chunk) < 2 {
			continue
		}
		if text, ok := chunk[1].(string); ok {
			b.WriteString(text)
		}
	}
	return b.String()
}
