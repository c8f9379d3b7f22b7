// Package common contains shared constants and the error taxonomy used
// across the hospital admin client components.
package common

// SessionStorageKey is the single storage slot that holds the serialized
// authenticated-session record.
const SessionStorageKey = "user_session"

// DefaultRole is assigned to accounts that carry no explicit role.
const DefaultRole = "user"
