package session

import (
	"time"

	"github.com/dmitrijs2005/hospitaladmin/internal/client/repositories/users"
	"github.com/dmitrijs2005/hospitaladmin/internal/common"
)

// Session is the client-held proof of login.
type Session struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Role            string    `json:"role"`
	Email           string    `json:"email"`
	CreatedAt       time.Time `json:"createdAt"`
	IsAuthenticated bool      `json:"isAuthenticated"`
}

// Valid reports whether s may be treated as a signed-in session.
func (s *Session) Valid() bool {
	return s != nil && s.IsAuthenticated && (s.ID != "" || s.Username != "")
}

// FromUser builds an authenticated session for u.
func FromUser(u *users.User) *Session {
	role := u.Role
	if role == "" {
		role = common.DefaultRole
	}
	return &Session{
		ID:              u.ID,
		Username:        u.Username,
		Role:            role,
		Email:           u.Email,
		CreatedAt:       u.CreatedAt,
		IsAuthenticated: true,
	}
}
