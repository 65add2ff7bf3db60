// Package crypt hashes and verifies player passwords. New hashes are bcrypt;
// records imported from older servers may still carry DES crypt(3) hashes,
// which verify here and should be rehashed by the caller.
package crypt

import (
	"errors"
	"fmt"
	"strings"

	descrypt "github.com/digitive/crypt"
	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned when a password does not match its hash.
var ErrMismatch = errors.New("crypt: password mismatch")

// legacyMaxLen is how many password characters a DES hash covers.
const legacyMaxLen = 8

// Hash returns a bcrypt hash of password.
func Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("crypt: hash: %w", err)
	}
	return string(h), nil
}

// IsLegacy reports whether hash is a DES crypt(3) hash.
func IsLegacy(hash string) bool {
	return len(hash) == 13 && !strings.HasPrefix(hash, "$")
}

// Crypt performs traditional Unix DES crypt(3).
func Crypt(password, salt string) string {
	result, err := descrypt.Crypt(password, salt)
	if err != nil {
		return ""
	}
	return result
}

// Check verifies password against a bcrypt or legacy DES hash.
func Check(password, hash string) error {
	if hash == "" || password == "" {
		return ErrMismatch
	}
	if IsLegacy(hash) {
		if len(password) > legacyMaxLen {
			password = password[:legacyMaxLen]
		}
		if c := Crypt(password, hash[:2]); c == "" || c != hash {
			return ErrMismatch
		}
		return nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	if err != nil {
		return fmt.Errorf("crypt: check: %w", err)
	}
	return nil
}
