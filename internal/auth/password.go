package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashPassword returns the SHA-256 hex digest of password. Account passwords
// are stored and compared only in this form.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// CheckPassword reports whether password hashes to hash. The comparison is
// constant-time.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(hash), []byte(HashPassword(password))) == 1
}
