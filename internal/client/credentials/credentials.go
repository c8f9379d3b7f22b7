// Package credentials encodes passwords for storage and checks submitted
// passwords against stored values.
//
// The default encoding is plain base64. It is reversible and offers no
// protection; it is kept because existing rows are stored that way. Stored
// values carrying a bcrypt prefix are also tried as bcrypt hashes.
package credentials

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// Encode returns the legacy storage form of password.
func Encode(password string) string {
	return base64.StdEncoding.EncodeToString([]byte(password))
}

// Verify reports whether submitted matches stored. A stored value matches
// either its encoded form or, for rows written before encoding was
// introduced, the plaintext itself. A bcrypt-looking value is checked as a
// hash first; a plaintext password may carry the same prefix, so a failed
// hash check still falls through. An empty stored value never matches.
func Verify(submitted, stored string) bool {
	if stored == "" {
		return false
	}
	if IsBcrypt(stored) && bcrypt.CompareHashAndPassword([]byte(stored), []byte(submitted)) == nil {
		return true
	}

	encoded := equal(Encode(submitted), stored)
	plain := equal(submitted, stored)
	return encoded || plain
}

// HashBcrypt hashes password with bcrypt at the default cost.
func HashBcrypt(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// IsBcrypt reports whether stored looks like a bcrypt hash.
func IsBcrypt(stored string) bool {
	for _, p := range bcryptPrefixes {
		if strings.HasPrefix(stored, p) {
			return true
		}
	}
	return false
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
