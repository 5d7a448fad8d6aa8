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

func TestAddressService_ListAddresses_Error(t *testing.T) {
	fx := createTestAddressService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.addressRepo.EXPECT().
		FindAddressesByUser(ctx, userID).
		Return(nil, errors.New("db error"))

	addresses, err := fx.service.ListAddresses(ctx, userID, nil)

	assert.Error(t, err)
	assert.Nil(t, addresses)
	assert.Contains(t, err.Error(), "failed to list addresses")
}

func TestAddressService_UpdateAddress_NotFound(t *testing.T) {
	fx := createTestAddressService(t)

	ctx := context.Background()
	userID := uuid.New()
	addressID := uuid.New()
	newTitle := "Yeni"
	input := &usecase.UpdateAddressInput{Title: &newTitle}

	fx.onExecute(ctx, errors.Wrap(domainerrors.ErrAddressNotFound, "address not found"), func(factory *mockRepo.MockRepositoryFactory) {
		mockAddressRepo := mockRepo.NewMockAddressRepository(t)
		factory.EXPECT().AddressRepo().Return(mockAddressRepo)
		mockAddressRepo.EXPECT().
			FindAddressByID(ctx, addressID).
			Return(nil, repository.ErrAddressNotFound)
	})

	address, err := fx.service.UpdateAddress(ctx, userID, addressID, input)

	assert.Error(t, err)
	assert.Nil(t, address)
	assert.True(t, errors.Is(err, domainerrors.ErrAddressNotFound))
}

// An address owned by another user must be indistinguishable from a missing one.
func TestAddressService_UpdateAddress_OwnedByAnotherUser(t *testing.T) {
	fx := createTestAddressService(t)

	ctx := context.Background()
	userID := uuid.New()
	addressID := uuid.New()
	newTitle := "Yeni"
	input := &usecase.UpdateAddressInput{Title: &newTitle}

	someoneElses := &entity.Address{
		ID:     addressID,
		UserID: uuid.New(),
		Title:  "Ev",
	}

	fx.onExecute(ctx, errors.Wrap(domainerrors.ErrAddressNotFound, "address not found"), func(factory *mockRepo.MockRepositoryFactory) {
		mockAddressRepo := mockRepo.NewMockAddressRepository(t)
		factory.EXPECT().AddressRepo().Return(mockAddressRepo)
		mockAddressRepo.EXPECT().FindAddressByID(ctx, addressID).Return(someoneElses, nil)
	})

	address, err := fx.service.UpdateAddress(ctx, userID, addressID, input)

	assert.Error(t, err)
	assert.Nil(t, address)
	assert.True(t, errors.Is(err, domainerrors.ErrAddressNotFound))
}

func TestAddressService_DeleteAddress_OwnedByAnotherUser(t *testing.T) {
	fx := createTestAddressService(t)

	ctx := context.Background()
	userID := uuid.New()
	addressID := uuid.New()

	someoneElses := &entity.Address{
		ID:     addressID,
		UserID: uuid.New(),
	}

	fx.onExecute(ctx, errors.Wrap(domainerrors.ErrAddressNotFound, "address not found"), func(factory *mockRepo.MockRepositoryFactory) {
		mockAddressRepo := mockRepo.NewMockAddressRepository(t)
		factory.EXPECT().AddressRepo().Return(mockAddressRepo)
		mockAddressRepo.EXPECT().FindAddressByID(ctx, addressID).Return(someoneElses, nil)
	})

	err := fx.service.DeleteAddress(ctx, userID, addressID)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAddressNotFound))
}

func TestAddressService_CreateAddress_TxError(t *testing.T) {
	fx := createTestAddressService(t)

	ctx := context.Background()
	userID := uuid.New()
	input := &usecase.CreateAddressInput{Title: "Ev", FullAddress: "Bir adres"}

	fx.onExecute(ctx, errors.Wrap(errors.New("db error"), "failed to create address"), func(factory *mockRepo.MockRepositoryFactory) {
		mockAddressRepo := mockRepo.NewMockAddressRepository(t)
		factory.EXPECT().AddressRepo().Return(mockAddressRepo)
		mockAddressRepo.EXPECT().
			CreateAddress(ctx, mock.AnythingOfType("*entity.Address")).
			Return(errors.New("db error"))
	})

	address, err := fx.service.CreateAddress(ctx, userID, input)

	assert.Error(t, err)
	assert.Nil(t, address)
	assert.Contains(t, err.Error(), "failed to execute create address transaction")
}

func TestAddressService_GenerateAddressQR_NotFound(t *testing.T) {
	fx := createTestAddressService(t)

	ctx := context.Background()
	userID := uuid.New()
	addressID := uuid.New()

	fx.addressRepo.EXPECT().
		FindAddressByID(ctx, addressID).
		Return(nil, repository.ErrAddressNotFound)

	png, err := fx.service.GenerateAddressQR(ctx, userID, addressID)

	assert.Error(t, err)
	assert.Nil(t, png)
	assert.True(t, errors.Is(err, domainerrors.ErrAddressNotFound))
}

func TestAddressService_GenerateAddressQR_OwnedByAnotherUser(t *testing.T) {
	fx := createTestAddressService(t)

	ctx := context.Background()
	userID := uuid.New()
	addressID := uuid.New()

	someoneElses := &entity.Address{ID: addressID, UserID: uuid.New()}

	fx.addressRepo.EXPECT().FindAddressByID(ctx, addressID).Return(someoneElses, nil)

	png, err := fx.service.GenerateAddressQR(ctx, userID, addressID)

	assert.Error(t, err)
	assert.Nil(t, png)
	assert.True(t, errors.Is(err, domainerrors.ErrAddressNotFound))
}
