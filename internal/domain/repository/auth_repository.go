package repository

import (
	"context"

	"pinbook/internal/domain/entity"
	"pinbook/internal/errors"
)

// ErrAuthNotFound is returned when no authentication record matches.
var ErrAuthNotFound = errors.New("authentication not found")

// AuthRepository defines the interface for credential persistence.
type AuthRepository interface {
	// CreateAuthentication persists a new credential for a user.
	CreateAuthentication(ctx context.Context, auth *entity.Authentication) error

	// FindAuthentication retrieves a credential by provider and provider user ID.
	// Returns ErrAuthNotFound if no record matches.
	FindAuthentication(ctx context.Context, provider, providerUserID string) (*entity.Authentication, error)

	// UpdatePasswordHash replaces the stored password hash for a credential.
	UpdatePasswordHash(ctx context.Context, auth *entity.Authentication) error
}
