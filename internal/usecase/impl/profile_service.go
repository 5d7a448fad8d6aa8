// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "pinbook/internal/delivery/context"
	"pinbook/internal/domain/entity"
	domainerrors "pinbook/internal/domain/errors"
	"pinbook/internal/domain/repository"
	"pinbook/internal/domain/service"
	"pinbook/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	txManager repository.TransactionManager
	hasher    service.PasswordHasher
	logger    *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(
	txManager repository.TransactionManager,
	hasher service.PasswordHasher,
	logger *slog.Logger,
) usecase.ProfileUsecase {
	return &profileService{
		txManager: txManager,
		hasher:    hasher,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile retrieves the user's profile.
func (srv *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	srv.log(ctx).Debug("Getting user profile", slog.Any("userID", userID))

	var user *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		foundUser, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
			}

			return errors.Wrap(err, "failed to find user")
		}
		user = foundUser

		return nil
	})

	if err != nil {
		return nil, errors.Wrap(err, "failed to get user profile")
	}

	return user, nil
}

// UpdateProfile applies a sparse update to the profile fields and returns
// the full updated user. Applying the same update twice is harmless.
func (srv *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.User, error) {
	srv.log(ctx).Info("Updating user profile", slog.Any("userID", userID))

	var user *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		foundUser, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
			}

			return errors.Wrap(err, "failed to find user")
		}

		if input.FirstName != nil {
			foundUser.FirstName = *input.FirstName
		}
		if input.LastName != nil {
			foundUser.LastName = *input.LastName
		}
		if input.Phone != nil {
			foundUser.Phone = *input.Phone
		}

		if err := userRepo.Update(ctx, foundUser); err != nil {
			return errors.Wrap(err, "failed to update user profile")
		}
		user = foundUser

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to update user profile", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update user profile")
	}

	return user, nil
}

// ChangePassword verifies the current password and replaces the stored hash.
func (srv *profileService) ChangePassword(ctx context.Context, userID uuid.UUID, input *usecase.ChangePasswordInput) error {
	srv.log(ctx).Info("Changing password", slog.Any("userID", userID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		authRepo := repoFactory.AuthRepo()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
			}

			return errors.Wrap(err, "failed to find user")
		}

		authRecord, err := authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail, user.Email)
		if err != nil {
			if errors.Is(err, repository.ErrAuthNotFound) {
				return errors.Wrap(domainerrors.ErrInvalidCredentials, "no email credential for user")
			}

			return errors.Wrap(err, "failed to find authentication")
		}

		if !srv.hasher.Check(input.CurrentPassword, authRecord.PasswordHash) {
			return errors.Wrap(domainerrors.ErrInvalidCredentials, "current password mismatch")
		}

		if err := srv.hasher.ValidatePasswordStrength(input.NewPassword); err != nil {
			return err
		}

		newHash, err := srv.hasher.Hash(input.NewPassword)
		if err != nil {
			return errors.Wrap(err, "failed to hash new password")
		}

		authRecord.PasswordHash = newHash
		if err := authRepo.UpdatePasswordHash(ctx, authRecord); err != nil {
			return errors.Wrap(err, "failed to update password hash")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to change password", slog.Any("userID", userID), slog.Any("error", err))

		return errors.Wrap(err, "failed to change password")
	}
	srv.log(ctx).Info("Password changed", slog.Any("userID", userID))

	return nil
}
