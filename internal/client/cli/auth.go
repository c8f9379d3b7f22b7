package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/hospitaladmin/internal/client/form"
	"github.com/dmitrijs2005/hospitaladmin/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login asks for credentials and submits the form in login mode. On
// success the form's OnLogin callback records the session.
func (a *App) Login(ctx context.Context) error {
	if a.form.State().Mode != form.ModeLogin {
		a.form.Toggle()
	}

	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	a.form.SetField(form.FieldUsername, username)
	a.form.SetField(form.FieldPassword, string(password))

	return a.submit(ctx)
}

// Forgot switches the form to reset mode and sets a new password for the
// given username. The form returns to login mode by itself after the
// configured delay.
func (a *App) Forgot(ctx context.Context) error {
	if a.form.State().Mode != form.ModeReset {
		a.form.Toggle()
	}

	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword(a.reader, "Confirm new password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	a.form.SetField(form.FieldUsername, username)
	a.form.SetField(form.FieldPassword, string(password))
	a.form.SetField(form.FieldConfirmPassword, string(confirm))

	if err := a.submit(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.form.State().Message)
	return nil
}

// Back leaves reset mode.
func (a *App) Back(ctx context.Context) error {
	if a.form.State().Mode == form.ModeReset {
		a.form.Toggle()
	}
	fmt.Fprintln(a.out, "Back to login")
	return nil
}

func (a *App) submit(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.form.Submit(ctx); err != nil {
		fmt.Fprintln(a.out, "Error:", err.Error())
		return err
	}
	return nil
}

// Signup creates an account and signs it in.
func (a *App) Signup(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	email, err := getSimpleText(a.reader, "Email (optional)", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	res, err := a.authService.Signup(ctx, username, string(password), email)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err.Error())
		return err
	}

	a.setUser(res.User)
	fmt.Fprintln(a.out, res.Message)
	return nil
}

// Logout clears the local session and resets the form.
func (a *App) Logout(ctx context.Context) error {
	res, err := a.authService.Logout(ctx)
	if err != nil {
		return err
	}
	a.setUser(nil)
	a.form.Reset()
	fmt.Fprintln(a.out, res.Message)
	return nil
}
