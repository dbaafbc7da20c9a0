package backend

import "github.com/neovim/go-client/nvim"

// nvimBatch adapts go-client's batch. Result pointers use the wire
// types; conversions into bridge handles run after a successful
// Execute.
type nvimBatch struct {
	b    *nvim.Batch
	post []func()
}

func (nb *nvimBatch) CreateBuffer(listed, scratch bool, out *BufferID) {
	res := new(nvim.Buffer)
	nb.b.CreateBuffer(listed, scratch, res)
	nb.post = append(nb.post, func() { *out = BufferID(*res) })
}

func (nb *nvimBatch) SetBufferLines(buf BufferID, start, end int, lines []string) {
	nb.b.SetBufferLines(nvim.Buffer(buf), start, end, false, byteLines(lines))
}

func (nb *nvimBatch) SetBufferName(buf BufferID, name string) {
	nb.b.SetBufferName(nvim.Buffer(buf), name)
}

func (nb *nvimBatch) SetBufferOption(buf BufferID, name string, value any) {
	nb.b.SetBufferOption(nvim.Buffer(buf), name, value)
}

func (nb *nvimBatch) SetBufferVar(buf BufferID, name string, value any) {
	nb.b.SetBufferVar(nvim.Buffer(buf), name, value)
}

func (nb *nvimBatch) DeleteBuffer(buf BufferID, force bool) {
	nb.b.DeleteBuffer(nvim.Buffer(buf), map[string]bool{"force": force})
}

func (nb *nvimBatch) AttachBuffer(buf BufferID, sendBuffer bool, out *bool) {
	nb.b.AttachBuffer(nvim.Buffer(buf), sendBuffer, map[string]interface{}{}, out)
}

func (nb *nvimBatch) OpenWindow(buf BufferID, enter bool, width, height int, out *WindowID) {
	res := new(nvim.Window)
	nb.b.OpenWindow(nvim.Buffer(buf), enter, &nvim.WindowConfig{
		External:  true,
		Width:     width,
		Height:    height,
		NoAutocmd: true,
	}, res)
	nb.post = append(nb.post, func() { *out = WindowID(*res) })
}

func (nb *nvimBatch) CloseWindow(win WindowID, force bool) {
	nb.b.CloseWindow(nvim.Window(win), force)
}

func (nb *nvimBatch) SetWindowBuffer(win WindowID, buf BufferID) {
	nb.b.SetBufferToWindow(nvim.Window(win), nvim.Buffer(buf))
}

func (nb *nvimBatch) SetWindowCursor(win WindowID, line, col int) {
	nb.b.SetWindowCursor(nvim.Window(win), [2]int{line + 1, col})
}

func (nb *nvimBatch) SetWindowOption(win WindowID, name string, value any) {
	nb.b.SetWindowOption(nvim.Window(win), name, value)
}

func (nb *nvimBatch) SetCurrentWindow(win WindowID) {
	nb.b.SetCurrentWindow(nvim.Window(win))
}

func (nb *nvimBatch) Command(cmd string) {
	nb.b.Command(cmd)
}

func (nb *nvimBatch) ExecLua(code string, args ...any) {
	nb.b.ExecLua(code, nil, args...)
}

func (nb *nvimBatch) Execute() error {
	if err := nb.b.Execute(); err != nil {
		nb.post = nil
		return err
	}
	for _, f := range nb.post {
		f()
	}
	nb.post = nil
	return nil
}
