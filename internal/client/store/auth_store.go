package store

import (
	"context"
	"log/slog"
	"sync"

	"pinbook/internal/client/remote"
	"pinbook/internal/client/repository"
	"pinbook/internal/domain/entity"
	"pinbook/internal/errors"
)

// Turkish user-facing messages for authentication failures. Credential
// failures must never surface as a generic network error.
const (
	msgInvalidCredentials = "E-posta veya şifre hatalı"
	msgDuplicateEmail     = "Bu e-posta adresi zaten kayıtlı"
	msgWeakPassword       = "Şifre en az 8 karakter olmalı ve harf ile rakam içermelidir"
	msgProfileFetchFailed = "Profil bilgileri yüklenirken bir hata oluştu"
	msgRemoteUnavailable  = "Bağlantı hatası, lütfen tekrar deneyin"
)

// AccountOperations is the slice of the account repository the store drives.
type AccountOperations interface {
	SignIn(ctx context.Context, email, password string) (*remote.AuthSession, error)
	SignUp(ctx context.Context, input remote.RegisterInput) (*remote.AuthSession, error)
	SignOut(ctx context.Context) error
	CurrentProfile(ctx context.Context) (entity.User, error)
	UpdateProfile(ctx context.Context, patch repository.ProfilePatch) (entity.User, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
}

// AuthStore holds the local projection of the signed-in user: the session
// reference and the profile fields, refreshed on demand.
type AuthStore struct {
	repo   AccountOperations
	logger *slog.Logger

	mu         sync.Mutex
	session    *remote.AuthSession
	user       *entity.User
	status     Status
	errMessage string
}

// NewAuthStore creates an AuthStore in the signed-out state.
func NewAuthStore(repo AccountOperations, logger *slog.Logger) *AuthStore {
	return &AuthStore{repo: repo, logger: logger}
}

// SignIn authenticates and records the opened session.
func (s *AuthStore) SignIn(ctx context.Context, email, password string) error {
	session, err := s.repo.SignIn(ctx, email, password)
	if err != nil {
		s.recordFailure(ctx, "sign in failed", err)

		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	s.status = StatusSucceeded
	s.errMessage = ""

	return nil
}

// SignUp registers an account and records the opened session.
func (s *AuthStore) SignUp(ctx context.Context, input remote.RegisterInput) error {
	session, err := s.repo.SignUp(ctx, input)
	if err != nil {
		s.recordFailure(ctx, "sign up failed", err)

		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	s.status = StatusSucceeded
	s.errMessage = ""

	return nil
}

// SignOut terminates the remote session and clears all local user state.
func (s *AuthStore) SignOut(ctx context.Context) error {
	if err := s.repo.SignOut(ctx); err != nil {
		s.recordFailure(ctx, "sign out failed", err)

		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	s.user = nil
	s.status = StatusIdle
	s.errMessage = ""

	return nil
}

// LoadProfile refreshes the local profile projection.
func (s *AuthStore) LoadProfile(ctx context.Context) {
	s.mu.Lock()
	s.status = StatusLoading
	s.errMessage = ""
	s.mu.Unlock()

	user, err := s.repo.CurrentProfile(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.WarnContext(ctx, "profile fetch failed", slog.Any("error", err))
		s.status = StatusFailed
		s.errMessage = msgProfileFetchFailed

		return
	}
	s.status = StatusSucceeded
	s.user = &user
}

// UpdateProfile applies a sparse profile patch and refreshes the projection.
func (s *AuthStore) UpdateProfile(ctx context.Context, patch repository.ProfilePatch) error {
	user, err := s.repo.UpdateProfile(ctx, patch)
	if err != nil {
		s.recordFailure(ctx, "profile update failed", err)

		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.errMessage = ""

	return nil
}

// ChangePassword replaces the password of the signed-in user.
func (s *AuthStore) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	if err := s.repo.ChangePassword(ctx, currentPassword, newPassword); err != nil {
		s.recordFailure(ctx, "password change failed", err)

		return err
	}

	return nil
}

// Session returns the active session, or nil when signed out.
func (s *AuthStore) Session() *remote.AuthSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.session
}

// User returns the cached profile projection, or nil when not loaded.
func (s *AuthStore) User() *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.user
}

// Status returns the fetch status of the profile projection.
func (s *AuthStore) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

// Err returns the user-facing message of the last failure.
func (s *AuthStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.errMessage
}

func (s *AuthStore) recordFailure(ctx context.Context, event string, err error) {
	s.logger.WarnContext(ctx, event, slog.Any("error", err))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMessage = UserMessage(err)
}

// UserMessage maps a classified failure onto the Turkish message shown to
// the user. Validation errors carry their own message.
func UserMessage(err error) string {
	var validation *remote.ValidationError
	switch {
	case errors.As(err, &validation):
		if validation.General != "" {
			return validation.General
		}

		return "Girilen bilgiler geçersiz"
	case errors.Is(err, remote.ErrInvalidCredentials):
		return msgInvalidCredentials
	case errors.Is(err, remote.ErrDuplicateEmail):
		return msgDuplicateEmail
	case errors.Is(err, remote.ErrWeakCredential):
		return msgWeakPassword
	default:
		return msgRemoteUnavailable
	}
}
