// Package app assembles the bridge. It connects the backend, installs
// the autocommand bridge, and wires the redraw decoder, viewport
// tracker, layout reconciler, input router and command registry
// together, in a fixed startup order with reverse-order shutdown.
//
// The embedding host supplies a host.UI and a host.Typer; everything
// else is built here from configuration. cmd/vscode-neovim carries a
// headless host for running the bridge standalone.
package app
