package auth

import (
	"testing"

	"pinbook/config"
	domainerrors "pinbook/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{})

	hash, err := hasher.Hash("gizli-sifre1")
	require.NoError(t, err)
	assert.NotEqual(t, "gizli-sifre1", hash)

	assert.True(t, hasher.Check("gizli-sifre1", hash))
	assert.False(t, hasher.Check("yanlis-sifre", hash))
}

func TestBcryptHasher_ValidatePasswordStrength(t *testing.T) {
	cfg := &config.Config{
		PasswordStrength: &config.PasswordStrengthConfig{
			MinLength:      8,
			RequireLetters: true,
			RequireNumbers: true,
		},
	}
	hasher := NewBcryptHasher(cfg)

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "sifre123", false},
		{"too short", "s1", true},
		{"no numbers", "sadeceharf", true},
		{"no letters", "12345678", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := hasher.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, domainerrors.ErrPasswordStrength)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
