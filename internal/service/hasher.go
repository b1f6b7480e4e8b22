package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/Rogue-Bear-Innovations/schoolhouse-back/internal/config"
)

// PasswordHasher turns a clear password into its stored form and checks a
// candidate against a stored hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// LegacyHasher is the unsalted sha256 hex digest found in existing data
// files. Weak, but switching the default would lock out every stored user.
type LegacyHasher struct{}

func (LegacyHasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (h LegacyHasher) Compare(hash, password string) bool {
	computed, _ := h.Hash(password)
	return subtle.ConstantTimeCompare([]byte(hash), []byte(computed)) == 1
}

// BcryptHasher is the opt-in scheme for fresh installs.
type BcryptHasher struct{}

func (BcryptHasher) Hash(password string) (string, error) {
	passwordHashB, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		return "", errors.Wrap(err, "generate password hash")
	}
	return string(passwordHashB), nil
}

func (BcryptHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func NewPasswordHasher(cfg *config.Config) PasswordHasher {
	if cfg.PasswordScheme == config.SchemeBcrypt {
		return BcryptHasher{}
	}
	return LegacyHasher{}
}
