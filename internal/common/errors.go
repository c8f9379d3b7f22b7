package common

import "errors"

// ErrorKind classifies failures surfaced by the auth service so callers can
// branch on the kind instead of the message text.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindNotFound
	KindInvalidCredentials
	KindInactiveAccount
	KindSchema
	KindDuplicateUser
	KindRemote
	KindNotImplemented
)

var kindNames = map[ErrorKind]string{
	KindUnknown:            "unknown",
	KindValidation:         "validation",
	KindNotFound:           "not_found",
	KindInvalidCredentials: "invalid_credentials",
	KindInactiveAccount:    "inactive_account",
	KindSchema:             "schema",
	KindDuplicateUser:      "duplicate_user",
	KindRemote:             "remote",
	KindNotImplemented:     "not_implemented",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// AuthError is the error type returned by every auth service operation.
//
// Error returns only the human-readable Message, which is safe to show in a
// form. Err keeps the underlying cause (backend or storage failure) for logs
// and errors.Is / errors.As chains.
type AuthError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is matches kind sentinels such as ErrNotFound: any *AuthError of the same
// kind is considered equal to a sentinel (a value with an empty Message).
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	if t.Message == "" && t.Err == nil {
		return t.Kind == e.Kind
	}
	return t == e
}

// NewAuthError builds an AuthError of the given kind.
func NewAuthError(kind ErrorKind, msg string, cause error) *AuthError {
	return &AuthError{Kind: kind, Message: msg, Err: cause}
}

// Kind sentinels, match with errors.Is.
var (
	ErrValidation         = &AuthError{Kind: KindValidation}
	ErrNotFound           = &AuthError{Kind: KindNotFound}
	ErrInvalidCredentials = &AuthError{Kind: KindInvalidCredentials}
	ErrInactiveAccount    = &AuthError{Kind: KindInactiveAccount}
	ErrSchema             = &AuthError{Kind: KindSchema}
	ErrDuplicateUser      = &AuthError{Kind: KindDuplicateUser}
	ErrRemote             = &AuthError{Kind: KindRemote}
	ErrNotImplemented     = &AuthError{Kind: KindNotImplemented}
)

// KindOf reports the kind of err, or KindUnknown when err is not an AuthError.
func KindOf(err error) ErrorKind {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}
