// Package users is the boundary to the remote user records.
//
// Every implementation returns *User values and reports failures through the
// small set of errors declared in repository.go, so callers never look at
// backend specific response shapes.
package users
