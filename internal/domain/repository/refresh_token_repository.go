package repository

import (
	"context"

	"pinbook/internal/domain/entity"
	"pinbook/internal/errors"

	"github.com/google/uuid"
)

// ErrRefreshTokenNotFound is returned when a refresh token is not found.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenRepository defines the interface for session persistence.
// Each row is one logged-in device; the active-sessions screen is built
// from these records.
type RefreshTokenRepository interface {
	// CreateRefreshToken persists a new session record.
	CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error

	// FindRefreshTokenByHash retrieves a session by the SHA-256 hash of the raw token.
	FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)

	// FindRefreshTokensByUserID retrieves all sessions for a user, newest first.
	FindRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error)

	// DeleteRefreshToken removes a session by its ID.
	DeleteRefreshToken(ctx context.Context, id uuid.UUID) error

	// DeleteRefreshTokensByUserID removes all sessions for a user.
	DeleteRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error

	// DeleteExpiredRefreshTokens removes all sessions past their expiry.
	DeleteExpiredRefreshTokens(ctx context.Context) error
}
