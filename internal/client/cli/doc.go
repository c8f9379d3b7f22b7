// Package cli provides the interactive sign-in console for the hospital admin
// area.
//
// It wires configuration, the user backend, the session store and the auth
// service, then drives the login/reset form from a terminal. On start it
// restores a still-valid session or asks for credentials, starts a
// background connectivity watcher, and runs a small REPL.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
