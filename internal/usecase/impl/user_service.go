// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"pinbook/config"
	deliverycontext "pinbook/internal/delivery/context"
	"pinbook/internal/domain/entity"
	domainerrors "pinbook/internal/domain/errors"
	"pinbook/internal/domain/repository"
	"pinbook/internal/domain/service"
	"pinbook/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager         repository.TransactionManager
	userRepo          repository.UserRepository
	refreshTokenRepo  repository.RefreshTokenRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	maxActiveSessions int
	logger            *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	Config           *config.Config
	Logger           *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	maxActiveSessions := 0
	if params.Config != nil && params.Config.Auth != nil {
		maxActiveSessions = params.Config.Auth.MaxActiveSessions
	}

	return &userService{
		txManager:         params.TxManager,
		userRepo:          params.UserRepo,
		refreshTokenRepo:  params.RefreshTokenRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		maxActiveSessions: maxActiveSessions,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete account registration process and opens
// the first device session.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.SessionOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	var registeredUser *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		authRepo := repoFactory.AuthRepo()

		_, err := authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail, input.Email)
		if err == nil {
			return errors.Wrap(domainerrors.ErrEmailAlreadyExists, "email already registered")
		}
		if !errors.Is(err, repository.ErrAuthNotFound) {
			return errors.Wrap(err, "failed to find authentication")
		}

		if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
			srv.log(ctx).Warn("Password validation failed during registration", slog.String("email", input.Email), slog.Any("error", err))

			return err
		}

		hashedPassword, err := srv.hasher.Hash(input.Password)
		if err != nil {
			return errors.Wrap(err, "failed to hash password during registration")
		}

		newUser := &entity.User{
			Email:     input.Email,
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Phone:     input.Phone,
		}
		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}

		newAuth := &entity.Authentication{
			UserID:         newUser.ID,
			Provider:       entity.ProviderTypeEmail,
			ProviderUserID: input.Email,
			PasswordHash:   hashedPassword,
		}
		if err := authRepo.CreateAuthentication(ctx, newAuth); err != nil {
			return errors.Wrap(err, "failed to create authentication during registration")
		}

		registeredUser = newUser

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to execute registration transaction", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", registeredUser.ID))

	return srv.openSession(ctx, registeredUser, input.DeviceInfo, input.FCMToken)
}

// Login orchestrates the user login process.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.SessionOutput, error) {
	srv.log(ctx).Debug("Starting user login", slog.String("email", input.Email))

	authRecord, err := srv.loadLoginAuth(ctx, input.Email)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "login failed")
	}

	// Check password outside transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, authRecord.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	loggedInUser, err := srv.loadLoginUser(ctx, authRecord.UserID)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to load login user")
	}

	output, err := srv.openSession(ctx, loggedInUser, input.DeviceInfo, input.FCMToken)
	if err != nil {
		return nil, err
	}
	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", loggedInUser.ID))

	return output, nil
}

// RefreshToken issues a new access token against a live refresh token.
// The refresh token itself is not rotated.
func (srv *userService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.SessionOutput, error) {
	srv.log(ctx).Info("Attempting to refresh access token")

	token, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "invalid refresh token")
	}

	userID, err := subjectUserID(token)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "malformed refresh token subject")
	}

	var output *usecase.SessionOutput

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		refreshRepo := repoFactory.RefreshTokenRepo()

		tokenHash := srv.tokenService.HashToken(input.RefreshToken)

		record, err := refreshRepo.FindRefreshTokenByHash(ctx, tokenHash)
		if err != nil {
			if errors.Is(err, repository.ErrRefreshTokenNotFound) {
				return errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token not found")
			}

			return errors.Wrap(err, "failed to find refresh token")
		}
		if record.ExpiresAt.Before(time.Now()) {
			return errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token expired")
		}

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to find user")
		}

		newAccessToken, _, err := srv.tokenService.GenerateTokens(user.ID.String())
		if err != nil {
			return errors.Wrap(err, "failed to generate new access token")
		}

		output = &usecase.SessionOutput{
			AccessToken:  newAccessToken,
			RefreshToken: input.RefreshToken,
			User:         user,
			CreatedAt:    record.CreatedAt,
			ExpiresAt:    record.ExpiresAt,
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to execute refresh token transaction", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute refresh token transaction")
	}

	return output, nil
}

// Logout invalidates a device session by deleting its refresh token.
// Logging out a session that no longer exists is a no-op.
func (srv *userService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	srv.log(ctx).Info("Attempting to log out")

	if _, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken); err != nil {
		// Even if the token is invalid, proceed to delete it from the database.
		srv.log(ctx).Warn("Logout with invalid token", slog.Any("error", err))
	}

	tokenHash := srv.tokenService.HashToken(input.RefreshToken)

	record, err := srv.refreshTokenRepo.FindRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			srv.log(ctx).Debug("Session already closed")

			return nil
		}

		return errors.Wrap(err, "failed to find refresh token")
	}

	if err := srv.refreshTokenRepo.DeleteRefreshToken(ctx, record.ID); err != nil {
		srv.log(ctx).Error("Failed to delete refresh token", slog.Any("error", err))

		return errors.Wrap(err, "failed to delete refresh token")
	}
	srv.log(ctx).Info("Successfully logged out")

	return nil
}

// DescribeSession returns the session window of the user's newest session.
func (srv *userService) DescribeSession(ctx context.Context, userID uuid.UUID) (*usecase.SessionOutput, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	sessions, err := srv.refreshTokenRepo.FindRefreshTokensByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find sessions")
	}
	if len(sessions) == 0 {
		return nil, errors.Wrap(domainerrors.ErrSessionNotFound, "no open session")
	}

	newest := sessions[0]

	return &usecase.SessionOutput{
		User:      user,
		CreatedAt: newest.CreatedAt,
		ExpiresAt: newest.ExpiresAt,
	}, nil
}

func (srv *userService) loadLoginAuth(ctx context.Context, email string) (*entity.Authentication, error) {
	var authRecord *entity.Authentication

	// Load authentication from primary in a short transaction to avoid stale reads.
	if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		authRepo := repoFactory.AuthRepo()

		var findAuthErr error
		authRecord, findAuthErr = authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail, email)
		if findAuthErr != nil {
			if errors.Is(findAuthErr, repository.ErrAuthNotFound) {
				return errors.Wrap(domainerrors.ErrInvalidCredentials, "unknown email")
			}

			return errors.Wrap(findAuthErr, "failed to find authentication")
		}

		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "failed to execute login auth transaction")
	}

	return authRecord, nil
}

func (srv *userService) loadLoginUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	var loggedInUser *entity.User

	if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		var findUserErr error
		loggedInUser, findUserErr = userRepo.FindByID(ctx, userID)
		if findUserErr != nil {
			return errors.Wrap(findUserErr, "failed to find user by id")
		}

		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "failed to execute login user transaction")
	}

	return loggedInUser, nil
}

// openSession generates a token pair for the user and persists the refresh
// token as a device session. When the active-session limit is reached the
// oldest session is evicted so a new device can always sign in.
func (srv *userService) openSession(ctx context.Context, user *entity.User, deviceInfo, fcmToken string) (*usecase.SessionOutput, error) {
	accessToken, refreshTokenString, err := srv.tokenService.GenerateTokens(user.ID.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	now := time.Now()
	newRefreshToken := &entity.RefreshToken{
		UserID:     user.ID,
		TokenHash:  srv.tokenService.HashToken(refreshTokenString),
		DeviceInfo: deviceInfo,
		FCMToken:   fcmToken,
		ExpiresAt:  now.Add(srv.tokenService.GetRefreshTokenDuration()),
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		refreshRepo := repoFactory.RefreshTokenRepo()

		if srv.maxActiveSessions > 0 {
			if err := srv.evictOldestSessions(ctx, refreshRepo, user.ID); err != nil {
				return err
			}
		}

		return errors.Wrap(refreshRepo.CreateRefreshToken(ctx, newRefreshToken), "failed to store refresh token")
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute session transaction")
	}

	return &usecase.SessionOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		User:         user,
		CreatedAt:    now,
		ExpiresAt:    newRefreshToken.ExpiresAt,
	}, nil
}

// evictOldestSessions makes room for one more session under the configured limit.
func (srv *userService) evictOldestSessions(ctx context.Context, refreshRepo repository.RefreshTokenRepository, userID uuid.UUID) error {
	sessions, err := refreshRepo.FindRefreshTokensByUserID(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "failed to count active sessions")
	}

	active := make([]*entity.RefreshToken, 0, len(sessions))
	now := time.Now()
	for _, session := range sessions {
		if session.ExpiresAt.After(now) {
			active = append(active, session)
		}
	}

	// Sessions are ordered newest first; trim from the tail.
	for idx := len(active) - 1; idx >= 0 && len(active) >= srv.maxActiveSessions; idx-- {
		if err := refreshRepo.DeleteRefreshToken(ctx, active[idx].ID); err != nil {
			return errors.Wrap(err, "failed to evict oldest session")
		}
		active = active[:idx]

		srv.log(ctx).Info("Evicted oldest session to honor session limit", slog.Any("userID", userID))
	}

	return nil
}

// subjectUserID extracts the user ID from a validated token's subject claim.
func subjectUserID(token *jwt.Token) (uuid.UUID, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("unexpected claims type")
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "missing subject claim")
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "subject is not a user id")
	}

	return userID, nil
}
