package impl

import (
	"context"
	"testing"
	"time"

	"pinbook/internal/domain/entity"
	"pinbook/internal/domain/repository"
	mockRepo "pinbook/internal/mocks/repository"
	"pinbook/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// sessionServiceFixtures holds all test dependencies for session service tests.
type sessionServiceFixtures struct {
	t         *testing.T
	service   usecase.SessionUsecase
	txManager *mockRepo.MockTransactionManager
}

func createTestSessionService(t *testing.T) sessionServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	service := NewSessionService(txManager, newDiscardLogger())

	return sessionServiceFixtures{
		t:         t,
		service:   service,
		txManager: txManager,
	}
}

// onExecute wires one transaction round-trip: setup configures the factory
// the callback will see, returnErr is what Execute hands back to the service.
func (fx sessionServiceFixtures) onExecute(ctx context.Context, returnErr error, setup func(factory *mockRepo.MockRepositoryFactory)) {
	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			factory := mockRepo.NewMockRepositoryFactory(fx.t)
			setup(factory)

			_ = fn(factory)
		}).
		Return(returnErr).
		Once()
}

func TestSessionService_GetActiveSessions_Success(t *testing.T) {
	fx := createTestSessionService(t)

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{ID: userID}
	now := time.Now()

	currentToken := &entity.RefreshToken{
		ID:         uuid.New(),
		UserID:     userID,
		TokenHash:  "current_hash",
		DeviceInfo: "iPhone (iOS 17)",
		CreatedAt:  now.Add(-5 * time.Minute),
		ExpiresAt:  now.Add(24 * time.Hour),
	}
	otherToken := &entity.RefreshToken{
		ID:         uuid.New(),
		UserID:     userID,
		TokenHash:  "other_hash",
		DeviceInfo: "Pixel 8 (Android 14)",
		CreatedAt:  now.Add(-2 * time.Hour),
		ExpiresAt:  now.Add(12 * time.Hour),
	}
	expiredToken := &entity.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: "expired_hash",
		CreatedAt: now.Add(-40 * 24 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}

	fx.onExecute(ctx, nil, func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		mockRefreshRepo := mockRepo.NewMockRefreshTokenRepository(t)

		factory.EXPECT().UserRepo().Return(mockUserRepo)
		factory.EXPECT().RefreshTokenRepo().Return(mockRefreshRepo)

		mockUserRepo.EXPECT().FindByID(ctx, userID).Return(user, nil)
		mockRefreshRepo.EXPECT().
			FindRefreshTokensByUserID(ctx, userID).
			Return([]*entity.RefreshToken{currentToken, otherToken, expiredToken}, nil)
	})

	sessions, err := fx.service.GetActiveSessions(ctx, userID, "current_hash")

	require.NoError(t, err)
	require.Len(t, sessions, 2)

	assert.Equal(t, currentToken.ID.String(), sessions[0].ID)
	assert.Equal(t, currentToken.DeviceInfo, sessions[0].DeviceInfo)
	assert.True(t, sessions[0].IsCurrent)
	assert.NotEmpty(t, sessions[0].LastActivity)

	assert.Equal(t, otherToken.ID.String(), sessions[1].ID)
	assert.False(t, sessions[1].IsCurrent)
}

func TestSessionService_GetActiveSessions_NoCurrentHash(t *testing.T) {
	fx := createTestSessionService(t)

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{ID: userID}
	now := time.Now()

	token := &entity.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: "some_hash",
		CreatedAt: now.Add(-time.Minute),
		ExpiresAt: now.Add(time.Hour),
	}

	fx.onExecute(ctx, nil, func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		mockRefreshRepo := mockRepo.NewMockRefreshTokenRepository(t)

		factory.EXPECT().UserRepo().Return(mockUserRepo)
		factory.EXPECT().RefreshTokenRepo().Return(mockRefreshRepo)

		mockUserRepo.EXPECT().FindByID(ctx, userID).Return(user, nil)
		mockRefreshRepo.EXPECT().
			FindRefreshTokensByUserID(ctx, userID).
			Return([]*entity.RefreshToken{token}, nil)
	})

	sessions, err := fx.service.GetActiveSessions(ctx, userID, "")

	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.False(t, sessions[0].IsCurrent)
}

func TestSessionService_RevokeSession_Success(t *testing.T) {
	fx := createTestSessionService(t)

	ctx := context.Background()
	userID := uuid.New()
	sessionID := uuid.New()

	owned := &entity.RefreshToken{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour),
	}

	fx.onExecute(ctx, nil, func(factory *mockRepo.MockRepositoryFactory) {
		mockRefreshRepo := mockRepo.NewMockRefreshTokenRepository(t)
		factory.EXPECT().RefreshTokenRepo().Return(mockRefreshRepo)

		mockRefreshRepo.EXPECT().
			FindRefreshTokensByUserID(ctx, userID).
			Return([]*entity.RefreshToken{owned}, nil)
		mockRefreshRepo.EXPECT().DeleteRefreshToken(ctx, sessionID).Return(nil)
	})

	err := fx.service.RevokeSession(ctx, userID, sessionID)

	require.NoError(t, err)
}

func TestSessionService_RevokeAllSessions_Success(t *testing.T) {
	fx := createTestSessionService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.onExecute(ctx, nil, func(factory *mockRepo.MockRepositoryFactory) {
		mockRefreshRepo := mockRepo.NewMockRefreshTokenRepository(t)
		factory.EXPECT().RefreshTokenRepo().Return(mockRefreshRepo)
		mockRefreshRepo.EXPECT().DeleteRefreshTokensByUserID(ctx, userID).Return(nil)
	})

	err := fx.service.RevokeAllSessions(ctx, userID)

	require.NoError(t, err)
}

func TestSessionService_CleanupExpiredSessions_Success(t *testing.T) {
	fx := createTestSessionService(t)

	ctx := context.Background()

	fx.onExecute(ctx, nil, func(factory *mockRepo.MockRepositoryFactory) {
		mockRefreshRepo := mockRepo.NewMockRefreshTokenRepository(t)
		factory.EXPECT().RefreshTokenRepo().Return(mockRefreshRepo)
		mockRefreshRepo.EXPECT().DeleteExpiredRefreshTokens(ctx).Return(nil)
	})

	err := fx.service.CleanupExpiredSessions(ctx)

	require.NoError(t, err)
}
