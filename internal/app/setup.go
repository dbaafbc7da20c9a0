package app

import "github.com/SYK-08/vscode-neovim/internal/command"

// setupChunk installs the autocommand bridge. The backend pushes layout
// and scroll facts over rpcnotify because the UI protocol alone cannot
// name the window behind a grid event at the time the bridge needs it.
//
// Buffers the reconciler created carry b:vscode_controlled; everything
// else entering a window is announced as an external buffer.
const setupChunk = `
local chan = ...
local group = vim.api.nvim_create_augroup("VSCodeNeovimBridge", { clear = true })

vim.api.nvim_create_autocmd("WinEnter", {
	group = group,
	callback = function()
		vim.rpcnotify(chan, "window-changed", vim.api.nvim_get_current_win())
	end,
})

vim.api.nvim_create_autocmd("WinScrolled", {
	group = group,
	callback = function(ev)
		local win = tonumber(ev.match)
		if not win or not vim.api.nvim_win_is_valid(win) then
			return
		end
		local view = vim.api.nvim_win_call(win, vim.fn.winsaveview)
		vim.rpcnotify(chan, "window-scroll", win, view)
	end,
})

vim.api.nvim_create_autocmd("BufWinEnter", {
	group = group,
	callback = function(ev)
		local buf = ev.buf
		if vim.b[buf].vscode_controlled then
			return
		end
		vim.rpcnotify(chan, "external-buffer", buf,
			vim.api.nvim_buf_get_name(buf),
			vim.bo[buf].expandtab, vim.bo[buf].tabstop)
	end,
})
`

// initAttach registers the event feeds, publishes the session, attaches
// the UI and installs the autocommand bridge. Feed registration comes
// first so nothing emitted during the attach is lost.
func (b *Bridge) initAttach() error {
	if err := b.client.OnRedraw(b.decoder.Dispatch); err != nil {
		return err
	}
	if err := b.client.OnBufferLines(b.provider.handleLines); err != nil {
		return err
	}
	if err := b.client.OnBufferDetach(b.provider.handleDetach); err != nil {
		return err
	}
	for name, cmd := range map[string]string{
		"window-changed":  command.WindowFocusChanged,
		"window-scroll":   command.ScrollViewport,
		"external-buffer": command.AttachExternalBuffer,
	} {
		if err := b.client.OnNotify(name, b.notifyRoute(cmd)); err != nil {
			return err
		}
	}

	if err := b.client.SetVar("vscode_session", b.session); err != nil {
		return err
	}
	s := b.cfg.Settings()
	if err := b.client.AttachUI(s.ViewportWidth, s.WindowHeight); err != nil {
		return err
	}
	if err := b.client.ExecLua(setupChunk, nil, b.client.ChannelID()); err != nil {
		return err
	}

	b.rec.SyncVisibleNow()
	return nil
}

// notifyRoute adapts a backend notification into a command dispatch, so
// backend pushes and host keybindings travel the same path.
func (b *Bridge) notifyRoute(cmd string) func(args []any) {
	return func(args []any) {
		if err := b.registry.Execute(cmd, args...); err != nil {
			b.log.Warn("notification %s: %v", cmd, err)
		}
	}
}
