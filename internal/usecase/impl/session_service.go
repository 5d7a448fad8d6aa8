// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "pinbook/internal/delivery/context"
	"pinbook/internal/domain/entity"
	domainerrors "pinbook/internal/domain/errors"
	"pinbook/internal/domain/repository"
	"pinbook/internal/usecase"
	"pinbook/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
	now       func() time.Time
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(
	txManager repository.TransactionManager,
	logger *slog.Logger,
) usecase.SessionUsecase {
	return &sessionService{
		txManager: txManager,
		logger:    logger,
		now:       time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetActiveSessions lists the user's live device sessions, newest first.
func (srv *sessionService) GetActiveSessions(ctx context.Context, userID uuid.UUID, currentTokenHash string) ([]*entity.Session, error) {
	srv.log(ctx).Debug("Getting active sessions", slog.Any("user_id", userID))

	var sessions []*entity.Session

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		refreshRepo := repoFactory.RefreshTokenRepo()

		// 1. Verify user exists
		if _, err := userRepo.FindByID(ctx, userID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
			}

			return errors.Wrap(err, "failed to find user")
		}

		// 2. Get all refresh tokens for the user
		tokens, err := refreshRepo.FindRefreshTokensByUserID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to find refresh tokens")
		}

		// 3. Project live tokens onto the sessions-screen shape
		now := srv.now()
		for _, token := range tokens {
			if !token.ExpiresAt.After(now) {
				continue
			}

			sessions = append(sessions, &entity.Session{
				ID:           token.ID.String(),
				UserID:       token.UserID,
				DeviceInfo:   token.DeviceInfo,
				CreatedAt:    token.CreatedAt,
				LastActivity: util.RelativeTimeLabel(token.CreatedAt, now),
				IsCurrent:    currentTokenHash != "" && token.TokenHash == currentTokenHash,
			})
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to get active sessions", slog.Any("error", err), slog.Any("user_id", userID))

		return nil, errors.Wrap(err, "failed to get active sessions")
	}
	srv.log(ctx).Debug("Successfully retrieved active sessions", slog.Any("user_id", userID), slog.Int("count", len(sessions)))

	return sessions, nil
}

// RevokeSession terminates a specific session after verifying ownership.
func (srv *sessionService) RevokeSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	srv.log(ctx).Info("Revoking session", slog.Any("user_id", userID), slog.Any("session_id", sessionID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		refreshRepo := repoFactory.RefreshTokenRepo()

		tokens, err := refreshRepo.FindRefreshTokensByUserID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to find refresh tokens")
		}

		// Scoping the lookup to the user's own rows makes someone else's
		// session indistinguishable from a missing one.
		var owned *entity.RefreshToken
		for _, token := range tokens {
			if token.ID == sessionID {
				owned = token

				break
			}
		}
		if owned == nil {
			return errors.Wrap(domainerrors.ErrSessionNotFound, "session not found")
		}

		if err := refreshRepo.DeleteRefreshToken(ctx, owned.ID); err != nil {
			return errors.Wrap(err, "failed to delete session")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to revoke session", slog.Any("error", err), slog.Any("user_id", userID), slog.Any("session_id", sessionID))

		return errors.Wrap(err, "failed to revoke session")
	}
	srv.log(ctx).Info("Successfully revoked session", slog.Any("user_id", userID), slog.Any("session_id", sessionID))

	return nil
}

// RevokeAllSessions terminates every session for the user.
func (srv *sessionService) RevokeAllSessions(ctx context.Context, userID uuid.UUID) error {
	srv.log(ctx).Info("Revoking all sessions", slog.Any("user_id", userID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		refreshRepo := repoFactory.RefreshTokenRepo()

		if err := refreshRepo.DeleteRefreshTokensByUserID(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to delete all sessions")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to revoke all sessions", slog.Any("error", err), slog.Any("user_id", userID))

		return errors.Wrap(err, "failed to revoke all sessions")
	}
	srv.log(ctx).Info("Successfully revoked all sessions", slog.Any("user_id", userID))

	return nil
}

// CleanupExpiredSessions removes all expired sessions from the database.
func (srv *sessionService) CleanupExpiredSessions(ctx context.Context) error {
	srv.log(ctx).Info("Cleaning up expired sessions")

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		refreshRepo := repoFactory.RefreshTokenRepo()

		return errors.Wrap(refreshRepo.DeleteExpiredRefreshTokens(ctx), "failed to delete expired sessions")
	})

	if err != nil {
		srv.log(ctx).Error("Failed to cleanup expired sessions", slog.Any("error", err))

		return errors.Wrap(err, "failed to cleanup expired sessions")
	}

	return nil
}
