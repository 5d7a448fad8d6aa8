// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"pinbook/config"
	domainerrors "pinbook/internal/domain/errors"
	"pinbook/internal/domain/service"
)

const (
	defaultMinPasswordLength = 8
	defaultMaxPasswordLength = 72
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost     int
	strength *config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg.Auth != nil && cfg.Auth.BcryptCost != 0 {
		cost = cfg.Auth.BcryptCost
	}

	return &bcryptHasher{cost: cost, strength: cfg.PasswordStrength}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	return string(bytes), err
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// ValidatePasswordStrength reports whether the password meets the configured
// minimum requirements for new credentials.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	minLength := defaultMinPasswordLength
	maxLength := defaultMaxPasswordLength
	requireLetters := true
	requireNumbers := true
	if h.strength != nil {
		if h.strength.MinLength != 0 {
			minLength = h.strength.MinLength
		}
		if h.strength.MaxLength != 0 {
			maxLength = h.strength.MaxLength
		}
		requireLetters = h.strength.RequireLetters
		requireNumbers = h.strength.RequireNumbers
	}

	if len(password) < minLength || len(password) > maxLength {
		return domainerrors.ErrPasswordStrength
	}

	hasLetter := false
	hasNumber := false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasNumber = true
		}
	}

	if requireLetters && !hasLetter {
		return domainerrors.ErrPasswordStrength
	}
	if requireNumbers && !hasNumber {
		return domainerrors.ErrPasswordStrength
	}

	return nil
}
