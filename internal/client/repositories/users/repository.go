package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// User is one row of the remote users table.
type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Password  string     `json:"password"`
	Email     string     `json:"email,omitempty"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// UnmarshalJSON treats a null or absent is_active as active; only an
// explicit false disables the account.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	aux := struct {
		*plain
		IsActive *bool `json:"is_active"`
	}{plain: (*plain)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	u.IsActive = aux.IsActive == nil || *aux.IsActive
	return nil
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Username  *string    `json:"username,omitempty"`
	Email     *string    `json:"email,omitempty"`
	Role      *string    `json:"role,omitempty"`
	Password  *string    `json:"password,omitempty"`
	IsActive  *bool      `json:"is_active,omitempty"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Username == nil && p.Email == nil && p.Role == nil &&
		p.Password == nil && p.IsActive == nil && p.LastLogin == nil
}

// Apply copies the set fields of p onto u.
func (p Patch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.LastLogin != nil {
		t := *p.LastLogin
		u.LastLogin = &t
	}
}

type Repository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, id string, patch Patch) (*User, error)
	// Probe runs the cheapest possible read against the table.
	Probe(ctx context.Context) error
}

var (
	ErrNoRows       = errors.New("no matching row")
	ErrTableMissing = errors.New("users table does not exist")
	ErrDuplicate    = errors.New("duplicate key")
)

// RemoteError is any backend failure that has no normalized counterpart.
type RemoteError struct {
	Status  int
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("remote error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("remote error (status %d, code %s): %s", e.Status, e.Code, e.Message)
}

// errorForCode maps Postgres SQLSTATE and PostgREST codes onto the
// normalized errors. Unknown codes yield nil.
func errorForCode(code string) error {
	switch code {
	case "PGRST116", "22P02":
		// 22P02: the id filter is not a valid uuid, so nothing can match
		return ErrNoRows
	case "PGRST205", "42P01":
		return ErrTableMissing
	case "23505":
		return ErrDuplicate
	}
	return nil
}
