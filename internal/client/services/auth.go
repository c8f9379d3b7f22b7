// Package services contains application services for the hospital admin
// client. This file defines the authentication service: login, signup,
// password changes, profile updates and the local session lifecycle.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/hospitaladmin/internal/client/credentials"
	"github.com/dmitrijs2005/hospitaladmin/internal/client/repositories/users"
	"github.com/dmitrijs2005/hospitaladmin/internal/client/session"
	"github.com/dmitrijs2005/hospitaladmin/internal/common"
	"github.com/dmitrijs2005/hospitaladmin/internal/logging"
	"github.com/go-playground/validator"
)

const (
	msgCredentialsRequired = "Username and password are required"
	msgInvalidCredentials  = "Invalid username or password"
	msgNotInitialized      = "Authentication system not initialized. Please contact administrator."
	msgInactive            = "Account is inactive. Please contact administrator."
	msgDuplicate           = "Username already exists"
	msgInvalidEmail        = "Invalid email address"
	msgSignupFailed        = "Signup failed"
	msgInvalidUsername     = "Invalid username"
	msgNewPasswordRequired = "Username and new password are required"
	msgUpdateNoUser        = "Password update failed. User not found."
	msgUpdatePassword      = "Failed to update password"
	msgTokenReset          = "Password reset with token not implemented"
	msgUserNotFound        = "User not found"
	msgUpdateUser          = "Failed to update user"

	msgLoginOK  = "Login successful"
	msgSignupOK = "Account created successfully"
	msgPasswdOK = "Password updated successfully"
	msgLogoutOK = "Logged out successfully"
)

// LoginResult is returned by Login and Signup.
type LoginResult struct {
	Success bool
	User    *session.Session
	Message string
}

type Result struct {
	Success bool
	Message string
}

type UpdateResult struct {
	Success bool
	User    *users.User
}

// SignupInput is validated before any remote call.
type SignupInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
	Email    string `validate:"omitempty,email"`
}

// AuthService defines authentication operations for the console.
//
// Every failure is a *common.AuthError whose Error() is safe to display;
// match on the kind with errors.Is(err, common.ErrInactiveAccount) etc.
// All methods honor context cancellation.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Signup(ctx context.Context, username, password, email string) (*LoginResult, error)
	ForgotPassword(ctx context.Context, username, newPassword string) (*Result, error)
	ResetPassword(ctx context.Context, token, newPassword string) (*Result, error)
	Logout(ctx context.Context) (*Result, error)
	CurrentUser(ctx context.Context) (*session.Session, error)
	IsAuthenticated(ctx context.Context) bool
	UpdateUser(ctx context.Context, id string, patch users.Patch) (*UpdateResult, error)
	InitializeAuthTable(ctx context.Context) bool
	Ping(ctx context.Context) error
}

type Option func(*authService)

// WithClock overrides the time source used for last_login stamps.
func WithClock(now func() time.Time) Option {
	return func(a *authService) { a.now = now }
}

type authService struct {
	repo     users.Repository
	sessions *session.Store
	log      logging.Logger
	validate *validator.Validate
	now      func() time.Time
}

func NewAuthService(repo users.Repository, sessions *session.Store, log logging.Logger, opts ...Option) AuthService {
	a := &authService{
		repo:     repo,
		sessions: sessions,
		log:      log.With("component", "auth"),
		validate: validator.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Login checks the credentials against the stored user row and, on
// success, records last_login and persists a session.
func (a *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, common.NewAuthError(common.KindValidation, msgCredentialsRequired, nil)
	}

	user, err := a.repo.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, users.ErrNoRows):
		return nil, common.NewAuthError(common.KindNotFound, msgInvalidCredentials, err)
	case errors.Is(err, users.ErrTableMissing):
		a.log.Info(ctx, "users table is missing", "error", err)
		return nil, common.NewAuthError(common.KindSchema, msgNotInitialized, err)
	case err != nil:
		a.log.Error(ctx, "user lookup failed", "username", username, "error", err)
		return nil, common.NewAuthError(common.KindRemote, msgInvalidCredentials, err)
	}

	if !user.IsActive {
		return nil, common.NewAuthError(common.KindInactiveAccount, msgInactive, nil)
	}
	if !credentials.Verify(password, user.Password) {
		return nil, common.NewAuthError(common.KindInvalidCredentials, msgInvalidCredentials, nil)
	}

	now := a.now()
	if _, err := a.repo.Update(ctx, user.ID, users.Patch{LastLogin: &now}); err != nil {
		a.log.Warn(ctx, "failed to update last_login", "user_id", user.ID, "error", err)
	}

	s := session.FromUser(user)
	if err := a.sessions.Save(ctx, s); err != nil {
		return nil, a.storageError(ctx, err)
	}

	return &LoginResult{Success: true, User: s, Message: msgLoginOK}, nil
}

// Signup creates a user with the encoded password and the default role,
// then signs it in.
func (a *authService) Signup(ctx context.Context, username, password, email string) (*LoginResult, error) {
	in := SignupInput{Username: username, Password: password, Email: email}
	if err := a.validate.Struct(in); err != nil {
		return nil, common.NewAuthError(common.KindValidation, signupValidationMessage(err), err)
	}

	_, err := a.repo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, common.NewAuthError(common.KindDuplicateUser, msgDuplicate, nil)
	case errors.Is(err, users.ErrTableMissing):
		a.log.Info(ctx, "users table is missing", "error", err)
		return nil, common.NewAuthError(common.KindSchema, msgNotInitialized, err)
	case !errors.Is(err, users.ErrNoRows):
		a.log.Error(ctx, "user lookup failed", "username", username, "error", err)
		return nil, common.NewAuthError(common.KindRemote, remoteMessage(err, msgSignupFailed), err)
	}

	created, err := a.repo.Create(ctx, &users.User{
		Username: username,
		Password: credentials.Encode(password),
		Email:    email,
		Role:     common.DefaultRole,
		IsActive: true,
	})
	switch {
	case errors.Is(err, users.ErrDuplicate):
		return nil, common.NewAuthError(common.KindDuplicateUser, msgDuplicate, err)
	case err != nil:
		a.log.Error(ctx, "user insert failed", "username", username, "error", err)
		return nil, common.NewAuthError(common.KindRemote, remoteMessage(err, msgSignupFailed), err)
	}

	s := session.FromUser(created)
	if err := a.sessions.Save(ctx, s); err != nil {
		return nil, a.storageError(ctx, err)
	}

	return &LoginResult{Success: true, User: s, Message: msgSignupOK}, nil
}

// ForgotPassword overwrites the stored password of an active user. The new
// value is stored as given, without encoding; Verify accepts it through its
// plaintext path.
func (a *authService) ForgotPassword(ctx context.Context, username, newPassword string) (*Result, error) {
	if username == "" || newPassword == "" {
		return nil, common.NewAuthError(common.KindValidation, msgNewPasswordRequired, nil)
	}

	user, err := a.repo.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, users.ErrNoRows):
		return nil, common.NewAuthError(common.KindNotFound, msgInvalidUsername, err)
	case errors.Is(err, users.ErrTableMissing):
		return nil, common.NewAuthError(common.KindSchema, msgNotInitialized, err)
	case err != nil:
		a.log.Error(ctx, "user lookup failed", "username", username, "error", err)
		return nil, common.NewAuthError(common.KindRemote, remoteMessage(err, msgInvalidUsername), err)
	}

	if !user.IsActive {
		return nil, common.NewAuthError(common.KindInactiveAccount, msgInactive, nil)
	}

	_, err = a.repo.Update(ctx, user.ID, users.Patch{Password: &newPassword})
	switch {
	case errors.Is(err, users.ErrNoRows):
		return nil, common.NewAuthError(common.KindNotFound, msgUpdateNoUser, err)
	case err != nil:
		a.log.Error(ctx, "password update failed", "user_id", user.ID, "error", err)
		return nil, common.NewAuthError(common.KindRemote, remoteMessage(err, msgUpdatePassword), err)
	}

	a.log.Info(ctx, "password updated", "username", username)
	return &Result{Success: true, Message: msgPasswdOK}, nil
}

// ResetPassword is the token-based flow. There is no token system yet.
func (a *authService) ResetPassword(ctx context.Context, token, newPassword string) (*Result, error) {
	return nil, common.NewAuthError(common.KindNotImplemented, msgTokenReset, nil)
}

// Logout clears the local session. It always succeeds; a storage failure
// is only logged.
func (a *authService) Logout(ctx context.Context) (*Result, error) {
	if err := a.sessions.Clear(ctx); err != nil {
		a.log.Warn(ctx, "failed to clear session", "error", err)
	}
	return &Result{Success: true, Message: msgLogoutOK}, nil
}

func (a *authService) CurrentUser(ctx context.Context) (*session.Session, error) {
	s, err := a.sessions.Load(ctx)
	if err != nil {
		return nil, a.storageError(ctx, err)
	}
	return s, nil
}

// IsAuthenticated looks at the local session only; it never asks the
// backend whether the account is still active.
func (a *authService) IsAuthenticated(ctx context.Context) bool {
	s, err := a.CurrentUser(ctx)
	return err == nil && s != nil && s.IsAuthenticated
}

// UpdateUser applies patch to the user row. When the signed-in session
// belongs to the same user, its username, email and role follow the patch.
func (a *authService) UpdateUser(ctx context.Context, id string, patch users.Patch) (*UpdateResult, error) {
	updated, err := a.repo.Update(ctx, id, patch)
	switch {
	case errors.Is(err, users.ErrNoRows):
		return nil, common.NewAuthError(common.KindNotFound, msgUserNotFound, err)
	case errors.Is(err, users.ErrDuplicate):
		return nil, common.NewAuthError(common.KindDuplicateUser, msgDuplicate, err)
	case err != nil:
		a.log.Error(ctx, "user update failed", "user_id", id, "error", err)
		return nil, common.NewAuthError(common.KindRemote, remoteMessage(err, msgUpdateUser), err)
	}

	current, err := a.sessions.Load(ctx)
	if err != nil {
		a.log.Warn(ctx, "could not read session after profile update", "error", err)
	} else if current != nil && current.ID == id {
		mergePatch(current, patch)
		if err := a.sessions.Save(ctx, current); err != nil {
			a.log.Warn(ctx, "could not save session after profile update", "error", err)
		}
	}

	return &UpdateResult{Success: true, User: updated}, nil
}

// InitializeAuthTable reports whether the users table exists. It does not
// create it; see cmd/setup.
func (a *authService) InitializeAuthTable(ctx context.Context) bool {
	err := a.repo.Probe(ctx)
	switch {
	case errors.Is(err, users.ErrTableMissing):
		a.log.Info(ctx, "users table does not exist, run the setup tool to create it")
		return false
	case err != nil:
		a.log.Warn(ctx, "users table probe failed", "error", err)
	}
	return true
}

// Ping reports whether the backend answers. A missing table still counts
// as reachable.
func (a *authService) Ping(ctx context.Context) error {
	if err := a.repo.Probe(ctx); err != nil && !errors.Is(err, users.ErrTableMissing) {
		return err
	}
	return nil
}

func (a *authService) storageError(ctx context.Context, err error) error {
	a.log.Error(ctx, "session storage failure", "error", err)
	return common.NewAuthError(common.KindRemote, "Session storage unavailable", err)
}

func mergePatch(s *session.Session, p users.Patch) {
	if p.Username != nil {
		s.Username = *p.Username
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.Role != nil {
		s.Role = *p.Role
	}
}

func remoteMessage(err error, fallback string) string {
	var re *users.RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return fallback
}

func signupValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "Email" {
				return msgInvalidEmail
			}
		}
	}
	return msgCredentialsRequired
}
