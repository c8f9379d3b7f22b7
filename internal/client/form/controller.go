// Package form holds the sign-in form state machine: a login mode and a
// password reset mode, input validation, and the calls into the auth
// service. It has no rendering; the console drives it.
package form

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/hospitaladmin/internal/client/services"
	"github.com/dmitrijs2005/hospitaladmin/internal/client/session"
	"github.com/dmitrijs2005/hospitaladmin/internal/common"
)

type Mode int

const (
	ModeLogin Mode = iota
	ModeReset
)

func (m Mode) String() string {
	if m == ModeReset {
		return "reset"
	}
	return "login"
}

type Field int

const (
	FieldUsername Field = iota
	FieldPassword
	FieldConfirmPassword
)

const (
	DefaultResetDelay = 2 * time.Second
	MinPasswordLength = 6

	msgUsernameRequired    = "Username is required"
	msgPasswordRequired    = "Password is required"
	msgNewPasswordRequired = "New password is required"
	msgPasswordTooShort    = "Password must be at least 6 characters long"
	msgPasswordMismatch    = "Passwords do not match"
	msgResetDone           = "Password updated successfully! You can now login with your new password."
)

var ErrSubmitInFlight = errors.New("a submission is already in progress")

// Authenticator is the part of services.AuthService the form needs.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
	ForgotPassword(ctx context.Context, username, newPassword string) (*services.Result, error)
}

// State is a snapshot of what the form shows.
type State struct {
	Mode            Mode
	Username        string
	Password        string
	ConfirmPassword string
	Loading         bool
	Error           string
	Message         string
}

type timer interface {
	Stop() bool
}

type Option func(*Controller)

// WithResetDelay sets how long the reset success message stays before the
// form returns to login mode.
func WithResetDelay(d time.Duration) Option {
	return func(c *Controller) { c.resetDelay = d }
}

// WithOnLogin registers the callback invoked after a successful login. It
// runs on the submitting goroutine without the controller lock held.
func WithOnLogin(fn func(*session.Session)) Option {
	return func(c *Controller) { c.onLogin = fn }
}

// Controller is safe for concurrent use.
type Controller struct {
	mu    sync.Mutex
	auth  Authenticator
	state State

	onLogin    func(*session.Session)
	resetDelay time.Duration
	afterFunc  func(d time.Duration, f func()) timer

	// generation changes on every Toggle so a stale auto-transition can
	// tell it has been superseded.
	generation uint64
	pending    timer
}

func New(auth Authenticator, opts ...Option) *Controller {
	c := &Controller{
		auth:       auth,
		resetDelay: DefaultResetDelay,
		afterFunc: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetField updates one input and clears any displayed error or message.
func (c *Controller) SetField(f Field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch f {
	case FieldUsername:
		c.state.Username = value
	case FieldPassword:
		c.state.Password = value
	case FieldConfirmPassword:
		c.state.ConfirmPassword = value
	}
	c.state.Error = ""
	c.state.Message = ""
}

// Toggle switches between login and reset mode, clearing inputs and
// messages and cancelling a pending return to login mode.
func (c *Controller) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopPending()
	c.generation++

	if c.state.Mode == ModeLogin {
		c.state.Mode = ModeReset
	} else {
		c.state.Mode = ModeLogin
	}
	c.clearInputs()
	c.state.Error = ""
	c.state.Message = ""
}

// Reset puts the form back into an empty login mode.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopPending()
	c.generation++
	c.clearInputs()
	c.state.Mode = ModeLogin
	c.state.Error = ""
	c.state.Message = ""
}

// Submit validates the inputs of the current mode and calls the auth
// service. The returned error is the one displayed in State().Error.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Loading {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	if msg := c.validate(); msg != "" {
		c.state.Error = msg
		c.state.Message = ""
		c.mu.Unlock()
		return common.NewAuthError(common.KindValidation, msg, nil)
	}

	mode := c.state.Mode
	username, password := c.state.Username, c.state.Password
	gen := c.generation
	c.state.Loading = true
	c.state.Error = ""
	c.state.Message = ""
	c.mu.Unlock()

	if mode == ModeLogin {
		return c.submitLogin(ctx, username, password, gen)
	}
	return c.submitReset(ctx, username, password, gen)
}

// submitLogin drops a failure that arrives after the user left login mode.
// A success is still reported: the session has already been stored.
func (c *Controller) submitLogin(ctx context.Context, username, password string, gen uint64) error {
	res, err := c.auth.Login(ctx, username, password)

	c.mu.Lock()
	c.state.Loading = false
	if err != nil {
		if c.generation != gen {
			c.mu.Unlock()
			return nil
		}
		c.state.Error = err.Error()
		c.mu.Unlock()
		return err
	}
	onLogin := c.onLogin
	c.mu.Unlock()

	if onLogin != nil {
		onLogin(res.User)
	}
	return nil
}

func (c *Controller) submitReset(ctx context.Context, username, password string, gen uint64) error {
	_, err := c.auth.ForgotPassword(ctx, username, password)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Loading = false
	if err != nil {
		c.state.Error = err.Error()
		return err
	}
	if c.generation != gen {
		// the user left reset mode while the request was running
		return nil
	}

	c.state.Message = msgResetDone
	c.stopPending()
	c.pending = c.afterFunc(c.resetDelay, func() { c.finishReset(gen) })
	return nil
}

// finishReset returns to login mode, keeping the success message visible.
func (c *Controller) finishReset(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		return
	}
	c.pending = nil
	c.generation++
	c.clearInputs()
	c.state.Mode = ModeLogin
}

func (c *Controller) validate() string {
	s := c.state
	if common.IsBlank(s.Username) {
		return msgUsernameRequired
	}
	if s.Mode == ModeLogin {
		if s.Password == "" {
			return msgPasswordRequired
		}
		return ""
	}
	if s.Password == "" {
		return msgNewPasswordRequired
	}
	if utf8.RuneCountInString(s.Password) < MinPasswordLength {
		return msgPasswordTooShort
	}
	if s.Password != s.ConfirmPassword {
		return msgPasswordMismatch
	}
	return ""
}

func (c *Controller) clearInputs() {
	c.state.Username = ""
	c.state.Password = ""
	c.state.ConfirmPassword = ""
}

func (c *Controller) stopPending() {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}
