package backend

import (
	"context"
	"fmt"

	"github.com/neovim/go-client/nvim"
)

// setViewportChunk scrolls a window without entering it. The window
// grows when the requested span exceeds its height, so folds on the
// host side do not clip the backend's view. winrestview only touches
// the fields present in its argument, so the cursor stays put whenever
// it remains visible.
const setViewportChunk = `local win, top, bottom = ...
local span = bottom - top + 1
if span > vim.api.nvim_win_get_height(win) then
  vim.api.nvim_win_set_height(win, span)
end
vim.api.nvim_win_call(win, function()
  vim.fn.winrestview({ topline = top })
end)`

// NvimClient adapts a go-client connection to the Client interface.
type NvimClient struct {
	v *nvim.Nvim
}

// Spawn starts an embedded headless Neovim child process and connects
// to it. The process is terminated by Close.
func Spawn(ctx context.Context, path string, args ...string) (*NvimClient, error) {
	v, err := nvim.NewChildProcess(
		nvim.ChildProcessCommand(path),
		nvim.ChildProcessArgs(args...),
		nvim.ChildProcessContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("backend: spawn %s: %w", path, err)
	}
	return &NvimClient{v: v}, nil
}

// Dial connects to an already running instance listening on addr.
func Dial(addr string) (*NvimClient, error) {
	v, err := nvim.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("backend: dial %s: %w", addr, err)
	}
	return &NvimClient{v: v}, nil
}

func (c *NvimClient) CreateBuffer(listed, scratch bool) (BufferID, error) {
	buf, err := c.v.CreateBuffer(listed, scratch)
	return BufferID(buf), err
}

func (c *NvimClient) BufferLines(buf BufferID) ([]string, error) {
	raw, err := c.v.BufferLines(nvim.Buffer(buf), 0, -1, true)
	if err != nil {
		return nil, err
	}
	lines := make([]string, len(raw))
	for i, b := range raw {
		lines[i] = string(b)
	}
	return lines, nil
}

func (c *NvimClient) SetBufferLines(buf BufferID, start, end int, lines []string) error {
	return c.v.SetBufferLines(nvim.Buffer(buf), start, end, false, byteLines(lines))
}

func (c *NvimClient) BufferLineCount(buf BufferID) (int, error) {
	return c.v.BufferLineCount(nvim.Buffer(buf))
}

func (c *NvimClient) BufferName(buf BufferID) (string, error) {
	return c.v.BufferName(nvim.Buffer(buf))
}

func (c *NvimClient) SetBufferName(buf BufferID, name string) error {
	return c.v.SetBufferName(nvim.Buffer(buf), name)
}

func (c *NvimClient) SetBufferOption(buf BufferID, name string, value any) error {
	return c.v.SetBufferOption(nvim.Buffer(buf), name, value)
}

func (c *NvimClient) BufferOption(buf BufferID, name string, result any) error {
	return c.v.BufferOption(nvim.Buffer(buf), name, result)
}

func (c *NvimClient) SetBufferVar(buf BufferID, name string, value any) error {
	return c.v.SetBufferVar(nvim.Buffer(buf), name, value)
}

func (c *NvimClient) Buffers() ([]BufferID, error) {
	bufs, err := c.v.Buffers()
	if err != nil {
		return nil, err
	}
	ids := make([]BufferID, len(bufs))
	for i, b := range bufs {
		ids[i] = BufferID(b)
	}
	return ids, nil
}

func (c *NvimClient) DeleteBuffer(buf BufferID, force bool) error {
	return c.v.DeleteBuffer(nvim.Buffer(buf), map[string]bool{"force": force})
}

func (c *NvimClient) AttachBuffer(buf BufferID, sendBuffer bool) (bool, error) {
	return c.v.AttachBuffer(nvim.Buffer(buf), sendBuffer, map[string]interface{}{})
}

func (c *NvimClient) DetachBuffer(buf BufferID) (bool, error) {
	return c.v.DetachBuffer(nvim.Buffer(buf))
}

func (c *NvimClient) IsBufferLoaded(buf BufferID) (bool, error) {
	return c.v.IsBufferLoaded(nvim.Buffer(buf))
}

func (c *NvimClient) OpenWindow(buf BufferID, enter bool, width, height int) (WindowID, error) {
	win, err := c.v.OpenWindow(nvim.Buffer(buf), enter, &nvim.WindowConfig{
		External:  true,
		Width:     width,
		Height:    height,
		NoAutocmd: true,
	})
	return WindowID(win), err
}

func (c *NvimClient) CloseWindow(win WindowID, force bool) error {
	return c.v.CloseWindow(nvim.Window(win), force)
}

func (c *NvimClient) Windows() ([]WindowID, error) {
	wins, err := c.v.Windows()
	if err != nil {
		return nil, err
	}
	ids := make([]WindowID, len(wins))
	for i, w := range wins {
		ids[i] = WindowID(w)
	}
	return ids, nil
}

func (c *NvimClient) WindowBuffer(win WindowID) (BufferID, error) {
	buf, err := c.v.WindowBuffer(nvim.Window(win))
	return BufferID(buf), err
}

func (c *NvimClient) SetWindowBuffer(win WindowID, buf BufferID) error {
	return c.v.SetBufferToWindow(nvim.Window(win), nvim.Buffer(buf))
}

func (c *NvimClient) CurrentWindow() (WindowID, error) {
	win, err := c.v.CurrentWindow()
	return WindowID(win), err
}

func (c *NvimClient) SetCurrentWindow(win WindowID) error {
	return c.v.SetCurrentWindow(nvim.Window(win))
}

func (c *NvimClient) WindowCursor(win WindowID) (line, col int, err error) {
	pos, err := c.v.WindowCursor(nvim.Window(win))
	if err != nil {
		return 0, 0, err
	}
	return pos[0] - 1, pos[1], nil
}

func (c *NvimClient) SetWindowCursor(win WindowID, line, col int) error {
	return c.v.SetWindowCursor(nvim.Window(win), [2]int{line + 1, col})
}

func (c *NvimClient) IsWindowValid(win WindowID) (bool, error) {
	return c.v.IsWindowValid(nvim.Window(win))
}

func (c *NvimClient) SetWindowOption(win WindowID, name string, value any) error {
	return c.v.SetWindowOption(nvim.Window(win), name, value)
}

func (c *NvimClient) SetViewport(win WindowID, topLine, bottomLine int) error {
	return c.v.ExecLua(setViewportChunk, nil, int(win), topLine+1, bottomLine+1)
}

func (c *NvimClient) Command(cmd string) error {
	return c.v.Command(cmd)
}

func (c *NvimClient) ExecLua(code string, result any, args ...any) error {
	return c.v.ExecLua(code, result, args...)
}

func (c *NvimClient) Input(keys string) error {
	_, err := c.v.Input(keys)
	return err
}

func (c *NvimClient) SetVar(name string, value any) error {
	return c.v.SetVar(name, value)
}

func (c *NvimClient) ChannelID() int {
	return c.v.ChannelID()
}

func (c *NvimClient) Mode() (Mode, error) {
	m, err := c.v.Mode()
	if err != nil {
		return Mode{}, err
	}
	return Mode{Name: m.Mode, Blocking: m.Blocking}, nil
}

func (c *NvimClient) AttachUI(width, height int) error {
	return c.v.AttachUI(width, height, map[string]interface{}{
		"ext_linegrid":  true,
		"ext_multigrid": true,
		"ext_messages":  true,
	})
}

func (c *NvimClient) NewBatch() Batch {
	return &nvimBatch{b: c.v.NewBatch()}
}

func (c *NvimClient) OnRedraw(fn func(updates [][]any)) error {
	err := c.v.RegisterHandler("redraw", func(updates ...[]interface{}) {
		batch := make([][]any, len(updates))
		for i, u := range updates {
			normalize(u)
			batch[i] = u
		}
		fn(batch)
	})
	if err != nil {
		return err
	}
	return c.v.Subscribe("redraw")
}

// normalize rewrites msgpack extension handles inside a decoded update
// to plain ints, in place, so consumers never see wire types.
func normalize(v []interface{}) {
	for i, e := range v {
		switch x := e.(type) {
		case []interface{}:
			normalize(x)
		case nvim.Window:
			v[i] = int(x)
		case nvim.Buffer:
			v[i] = int(x)
		case nvim.Tabpage:
			v[i] = int(x)
		}
	}
}

func (c *NvimClient) OnBufferLines(fn func(ev BufferLinesEvent)) error {
	return c.v.RegisterHandler("nvim_buf_lines_event",
		func(buf nvim.Buffer, tick int64, first, last int64, lines []string, more bool) {
			fn(BufferLinesEvent{
				Buffer:    BufferID(buf),
				Tick:      tick,
				FirstLine: int(first),
				LastLine:  int(last),
				Lines:     lines,
				More:      more,
			})
		})
}

func (c *NvimClient) OnBufferDetach(fn func(buf BufferID)) error {
	return c.v.RegisterHandler("nvim_buf_detach_event", func(buf nvim.Buffer) {
		fn(BufferID(buf))
	})
}

func (c *NvimClient) OnNotify(name string, fn func(args []any)) error {
	err := c.v.RegisterHandler(name, func(args ...interface{}) {
		fn(args)
	})
	if err != nil {
		return err
	}
	return c.v.Subscribe(name)
}

func (c *NvimClient) Close() error {
	return c.v.Close()
}

func byteLines(lines []string) [][]byte {
	out := make([][]byte, len(lines))
	for i, l := range lines {
		out[i] = []byte(l)
	}
	return out
}
