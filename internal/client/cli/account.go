package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/hospitaladmin/internal/client/repositories/users"
)

// WhoAmI prints the stored session.
func (a *App) WhoAmI(ctx context.Context) error {
	s, err := a.authService.CurrentUser(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err.Error())
		return err
	}
	if s == nil {
		a.setUser(nil)
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	fmt.Fprintf(a.out, "id:       %s\n", s.ID)
	fmt.Fprintf(a.out, "username: %s\n", s.Username)
	fmt.Fprintf(a.out, "role:     %s\n", s.Role)
	if s.Email != "" {
		fmt.Fprintf(a.out, "email:    %s\n", s.Email)
	}
	if !s.CreatedAt.IsZero() {
		fmt.Fprintf(a.out, "created:  %s\n", s.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// Profile updates the signed-in user's username and/or email.
func (a *App) Profile(ctx context.Context) error {
	u := a.currentUser()
	if u == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	username, err := getSimpleText(a.reader, "New username (empty to keep)", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "New email (empty to keep)", a.out)
	if err != nil {
		return err
	}

	var patch users.Patch
	if username != "" && username != u.Username {
		patch.Username = &username
	}
	if email != "" && email != u.Email {
		patch.Email = &email
	}
	if patch.Empty() {
		fmt.Fprintln(a.out, "Nothing to update")
		return nil
	}

	opCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	if _, err := a.authService.UpdateUser(opCtx, u.ID, patch); err != nil {
		fmt.Fprintln(a.out, "Error:", err.Error())
		return err
	}

	if s, err := a.authService.CurrentUser(ctx); err == nil && s != nil {
		a.setUser(s)
	}
	fmt.Fprintln(a.out, "Profile updated")
	return nil
}

// Status prints connectivity and whether the users table is provisioned.
func (a *App) Status(ctx context.Context) error {
	opCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	table := "missing (run the setup tool)"
	if a.authService.InitializeAuthTable(opCtx) {
		table = "ready"
	}

	mode := a.getMode()
	if mode == "" {
		mode = "unknown"
	}

	fmt.Fprintf(a.out, "backend:  %s (%s)\n", a.config.Backend, mode)
	fmt.Fprintf(a.out, "sessions: %s\n", a.config.SessionBackend)
	fmt.Fprintf(a.out, "users:    %s\n", table)
	return nil
}
