// Package cryptox implements hashing of account passwords at rest.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length in bytes of per-account password salts.
const SaltSize = 16

// NewSalt returns a fresh random salt for password hashing.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// HashPassword derives a 32-byte Argon2id digest of the password and salt.
// Parameters follow the argon2 package recommendations for interactive use.
func HashPassword(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// VerifyPassword reports whether password hashes to the stored digest.
// The comparison is constant-time.
func VerifyPassword(password, salt, hash []byte) bool {
	derived := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(derived, hash) == 1
}
