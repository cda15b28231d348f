// Package cryptox hashes account passwords with argon2id.
package cryptox

import (
	"crypto/subtle"
	"errors"

	"github.com/myreport/reportcycle/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	SaltSize = 16
	KeySize  = 32
)

var ErrEmptyPassword = errors.New("empty password")

// DeriveKey stretches password with salt using argon2id.
func DeriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

// PasswordHash is what gets stored instead of a password.
type PasswordHash struct {
	Salt []byte
	Key  []byte
}

// HashPassword derives a key for password under a fresh random salt.
func HashPassword(password string) (PasswordHash, error) {
	if password == "" {
		return PasswordHash{}, ErrEmptyPassword
	}
	pw := []byte(password)
	defer common.WipeByteArray(pw)

	salt := common.GenerateRandByteArray(SaltSize)
	return PasswordHash{Salt: salt, Key: DeriveKey(pw, salt)}, nil
}

// Verify reports whether password derives to h.Key. The comparison runs in
// constant time.
func (h PasswordHash) Verify(password string) bool {
	if len(h.Key) == 0 {
		return false
	}
	pw := []byte(password)
	defer common.WipeByteArray(pw)

	return subtle.ConstantTimeCompare(DeriveKey(pw, h.Salt), h.Key) == 1
}
