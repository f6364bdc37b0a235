// Package auth provides the authentication primitives: bcrypt password
// hashing and JWT token issue/verify, plus the HTTP middleware that gates
// protected routes.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor. Cost 12 takes roughly 250ms on a
// modern server — negligible for a login, expensive for a brute-forcer.
const defaultCost = 12

// ErrPasswordMismatch is returned by Verify when the plaintext does not match
// the stored digest, or when the digest itself is malformed. Callers map it
// to an invalid-credentials outcome; they never see which case it was.
var ErrPasswordMismatch = errors.New("auth: password mismatch")

// PasswordService provides bcrypt hashing and verification.
//
// It is a struct rather than free functions so the cost can be injected:
// tests use the bcrypt minimum (4) to avoid paying ~250ms per hash.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the production cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceWithCost creates a PasswordService with a custom bcrypt
// cost. Intended for tests; do not lower the cost in production.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes the plaintext with bcrypt. The output embeds the random salt
// and the cost, so two identical passwords produce different digests and
// Verify needs nothing but the digest itself.
//
// bcrypt silently truncates inputs over 72 bytes; we reject them instead.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify reports whether the plaintext matches a stored bcrypt digest.
// Returns nil on match and ErrPasswordMismatch otherwise — including for
// digests that are not valid bcrypt output at all, so a corrupted stored
// hash degrades to a failed login rather than an internal error.
//
// The underlying comparison is constant-time.
func (p *PasswordService) Verify(hash, plaintext string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}
