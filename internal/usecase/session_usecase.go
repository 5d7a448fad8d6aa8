// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"pinbook/internal/domain/entity"

	"github.com/google/uuid"
)

// SessionUsecase defines the interface for the active-sessions screen.
type SessionUsecase interface {
	// GetActiveSessions lists the user's device sessions, newest first.
	// currentTokenHash marks which entry is the calling device.
	GetActiveSessions(ctx context.Context, userID uuid.UUID, currentTokenHash string) ([]*entity.Session, error)

	// RevokeSession terminates one session after verifying ownership.
	RevokeSession(ctx context.Context, userID, sessionID uuid.UUID) error

	// RevokeAllSessions terminates every session for the user.
	RevokeAllSessions(ctx context.Context, userID uuid.UUID) error

	// CleanupExpiredSessions removes sessions past their expiry.
	CleanupExpiredSessions(ctx context.Context) error
}
