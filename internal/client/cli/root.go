package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := ""
	if u := a.currentUser(); u != nil {
		s = u.Username + " "
	}
	if m := a.getMode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// restore picks up a session left by a previous run.
func (a *App) restore(ctx context.Context) bool {
	s, err := a.authService.CurrentUser(ctx)
	if err != nil {
		a.log.Warn(ctx, "session restore failed", "error", err)
		return false
	}
	if s == nil {
		return false
	}
	a.setUser(s)
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", s.Username, s.Role)
	return true
}

// Root prints the banner, restores or asks for a session, starts the
// connectivity watcher and runs the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Hospital admin console (type 'help' for commands)")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.checkOnline(ctx)
	if !a.restore(ctx) {
		_ = a.Login(ctx)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
