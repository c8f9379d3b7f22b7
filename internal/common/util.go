package common

import "strings"

// WipeByteArray overwrites b with zeros. Used for password buffers read
// from the terminal once they have been handed to the auth service.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// IsBlank reports whether s is empty after trimming surrounding whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
