package impl

import (
	"context"
	"testing"

	"pinbook/internal/domain/entity"
	domainerrors "pinbook/internal/domain/errors"
	"pinbook/internal/domain/repository"
	mockRepo "pinbook/internal/mocks/repository"
	"pinbook/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProfileService_GetProfile_NotFound(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.onExecute(ctx, errors.Wrap(domainerrors.ErrUserNotFound, "user not found"), func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		factory.EXPECT().UserRepo().Return(mockUserRepo)
		mockUserRepo.EXPECT().FindByID(ctx, userID).Return(nil, repository.ErrUserNotFound)
	})

	user, err := fx.service.GetProfile(ctx, userID)

	assert.Error(t, err)
	assert.Nil(t, user)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestProfileService_GetProfile_FindError(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.onExecute(ctx, errors.Wrap(errors.New("db error"), "failed to find user"), func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		factory.EXPECT().UserRepo().Return(mockUserRepo)
		mockUserRepo.EXPECT().FindByID(ctx, userID).Return(nil, errors.New("db error"))
	})

	user, err := fx.service.GetProfile(ctx, userID)

	assert.Error(t, err)
	assert.Nil(t, user)
	assert.Contains(t, err.Error(), "failed to find user")
}

func TestProfileService_UpdateProfile_NotFound(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	userID := uuid.New()
	input := &usecase.UpdateProfileInput{}

	fx.onExecute(ctx, errors.Wrap(domainerrors.ErrUserNotFound, "user not found"), func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		factory.EXPECT().UserRepo().Return(mockUserRepo)
		mockUserRepo.EXPECT().FindByID(ctx, userID).Return(nil, repository.ErrUserNotFound)
	})

	user, err := fx.service.UpdateProfile(ctx, userID, input)

	assert.Error(t, err)
	assert.Nil(t, user)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestProfileService_UpdateProfile_UpdateError(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	userID := uuid.New()
	firstName := "Mehmet"
	input := &usecase.UpdateProfileInput{FirstName: &firstName}

	existingUser := &entity.User{ID: userID, FirstName: "Ali"}

	fx.onExecute(ctx, errors.Wrap(errors.New("db error"), "failed to update user profile"), func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		factory.EXPECT().UserRepo().Return(mockUserRepo)
		mockUserRepo.EXPECT().FindByID(ctx, userID).Return(existingUser, nil)
		mockUserRepo.EXPECT().Update(ctx, mock.AnythingOfType("*entity.User")).Return(errors.New("db error"))
	})

	user, err := fx.service.UpdateProfile(ctx, userID, input)

	assert.Error(t, err)
	assert.Nil(t, user)
	assert.Contains(t, err.Error(), "failed to update user profile")
}

func TestProfileService_ChangePassword_WrongCurrentPassword(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	userID := uuid.New()
	input := &usecase.ChangePasswordInput{
		CurrentPassword: "yanlis",
		NewPassword:     "YeniParola2",
	}

	user := &entity.User{ID: userID, Email: "test@example.com"}
	authRecord := &entity.Authentication{
		UserID:       userID,
		Provider:     entity.ProviderTypeEmail,
		PasswordHash: "old_hash",
	}

	fx.onExecute(ctx, errors.Wrap(domainerrors.ErrInvalidCredentials, "current password mismatch"), func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		mockAuthRepo := mockRepo.NewMockAuthRepository(t)

		factory.EXPECT().UserRepo().Return(mockUserRepo)
		factory.EXPECT().AuthRepo().Return(mockAuthRepo)

		mockUserRepo.EXPECT().FindByID(ctx, userID).Return(user, nil)
		mockAuthRepo.EXPECT().
			FindAuthentication(ctx, entity.ProviderTypeEmail, user.Email).
			Return(authRecord, nil)

		fx.hasher.EXPECT().Check(input.CurrentPassword, "old_hash").Return(false)
	})

	err := fx.service.ChangePassword(ctx, userID, input)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestProfileService_ChangePassword_WeakNewPassword(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	userID := uuid.New()
	input := &usecase.ChangePasswordInput{
		CurrentPassword: "EskiParola1",
		NewPassword:     "kisa",
	}

	user := &entity.User{ID: userID, Email: "test@example.com"}
	authRecord := &entity.Authentication{
		UserID:       userID,
		Provider:     entity.ProviderTypeEmail,
		PasswordHash: "old_hash",
	}

	fx.onExecute(ctx, errors.Wrap(domainerrors.ErrPasswordStrength, "weak password"), func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		mockAuthRepo := mockRepo.NewMockAuthRepository(t)

		factory.EXPECT().UserRepo().Return(mockUserRepo)
		factory.EXPECT().AuthRepo().Return(mockAuthRepo)

		mockUserRepo.EXPECT().FindByID(ctx, userID).Return(user, nil)
		mockAuthRepo.EXPECT().
			FindAuthentication(ctx, entity.ProviderTypeEmail, user.Email).
			Return(authRecord, nil)

		fx.hasher.EXPECT().Check(input.CurrentPassword, "old_hash").Return(true)
		fx.hasher.EXPECT().
			ValidatePasswordStrength(input.NewPassword).
			Return(domainerrors.ErrPasswordStrength)
	})

	err := fx.service.ChangePassword(ctx, userID, input)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordStrength))
}

func TestProfileService_ChangePassword_NoEmailCredential(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	userID := uuid.New()
	input := &usecase.ChangePasswordInput{
		CurrentPassword: "EskiParola1",
		NewPassword:     "YeniParola2",
	}

	user := &entity.User{ID: userID, Email: "test@example.com"}

	fx.onExecute(ctx, errors.Wrap(domainerrors.ErrInvalidCredentials, "no email credential for user"), func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		mockAuthRepo := mockRepo.NewMockAuthRepository(t)

		factory.EXPECT().UserRepo().Return(mockUserRepo)
		factory.EXPECT().AuthRepo().Return(mockAuthRepo)

		mockUserRepo.EXPECT().FindByID(ctx, userID).Return(user, nil)
		mockAuthRepo.EXPECT().
			FindAuthentication(ctx, entity.ProviderTypeEmail, user.Email).
			Return(nil, repository.ErrAuthNotFound)
	})

	err := fx.service.ChangePassword(ctx, userID, input)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}
