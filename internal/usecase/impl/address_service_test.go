package impl

import (
	"context"
	"testing"

	"pinbook/internal/domain/entity"
	"pinbook/internal/domain/repository"
	"pinbook/internal/domain/service"
	mockRepo "pinbook/internal/mocks/repository"
	mockSvc "pinbook/internal/mocks/service"
	"pinbook/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// addressServiceFixtures holds all test dependencies for address service tests.
type addressServiceFixtures struct {
	t           *testing.T
	service     usecase.AddressUsecase
	txManager   *mockRepo.MockTransactionManager
	addressRepo *mockRepo.MockAddressRepository
	publisher   *mockSvc.MockEventPublisher
	qrService   *mockSvc.MockQRCodeService
}

func createTestAddressService(t *testing.T) addressServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	addressRepo := mockRepo.NewMockAddressRepository(t)
	publisher := mockSvc.NewMockEventPublisher(t)
	qrService := mockSvc.NewMockQRCodeService(t)

	service := NewAddressService(AddressServiceParams{
		TxManager:   txManager,
		AddressRepo: addressRepo,
		Publisher:   publisher,
		QRService:   qrService,
		Logger:      newDiscardLogger(),
	})

	return addressServiceFixtures{
		t:           t,
		service:     service,
		txManager:   txManager,
		addressRepo: addressRepo,
		publisher:   publisher,
		qrService:   qrService,
	}
}

// onExecute wires one transaction round-trip: setup configures the factory
// the callback will see, returnErr is what Execute hands back to the service.
func (fx addressServiceFixtures) onExecute(ctx context.Context, returnErr error, setup func(factory *mockRepo.MockRepositoryFactory)) {
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

func TestAddressService_ListAddresses_Success(t *testing.T) {
	fx := createTestAddressService(t)

	ctx := context.Background()
	userID := uuid.New()
	expected := []*entity.Address{
		{ID: uuid.New(), UserID: userID, Title: "Ev"},
		{ID: uuid.New(), UserID: userID, Title: "Ofis"},
	}

	fx.addressRepo.EXPECT().FindAddressesByUser(ctx, userID).Return(expected, nil)

	addresses, err := fx.service.ListAddresses(ctx, userID, &usecase.ListAddressesInput{})

	require.NoError(t, err)
	assert.Equal(t, expected, addresses)
}

func TestAddressService_ListAddresses_FavoritesOnly(t *testing.T) {
	fx := createTestAddressService(t)

	ctx := context.Background()
	userID := uuid.New()
	expected := []*entity.Address{
		{ID: uuid.New(), UserID: userID, Title: "Ev", IsFavorite: true},
	}

	fx.addressRepo.EXPECT().FindFavoriteAddressesByUser(ctx, userID).Return(expected, nil)

	addresses, err := fx.service.ListAddresses(ctx, userID, &usecase.ListAddressesInput{FavoritesOnly: true})

	require.NoError(t, err)
	assert.Equal(t, expected, addresses)
}

func TestAddressService_CreateAddress_Success(t *testing.T) {
	fx := createTestAddressService(t)

	ctx := context.Background()
	userID := uuid.New()
	input := &usecase.CreateAddressInput{
		Title:       "Ev",
		FullAddress: "Atatürk Cad. No:1, Kadıköy, İstanbul",
		Latitude:    40.9901,
		Longitude:   29.0254,
		IsFavorite:  true,
	}

	fx.onExecute(ctx, nil, func(factory *mockRepo.MockRepositoryFactory) {
		mockAddressRepo := mockRepo.NewMockAddressRepository(t)
		factory.EXPECT().AddressRepo().Return(mockAddressRepo)

		mockAddressRepo.EXPECT().
			CreateAddress(ctx, mock.AnythingOfType("*entity.Address")).
			Run(func(ctx context.Context, address *entity.Address) {
				address.ID = uuid.New()
			}).
			Return(nil)
	})

	fx.publisher.EXPECT().
		PublishAddressEvent(ctx, mock.AnythingOfType("*service.AddressEvent")).
		Run(func(ctx context.Context, event *service.AddressEvent) {
			assert.Equal(t, "created", event.Action)
			assert.Equal(t, userID.String(), event.UserID)
			assert.Equal(t, input.Title, event.Title)
		}).
		Return(nil)

	address, err := fx.service.CreateAddress(ctx, userID, input)

	require.NoError(t, err)
	require.NotNil(t, address)
	assert.Equal(t, userID, address.UserID)
	assert.Equal(t, input.Title, address.Title)
	assert.True(t, address.IsFavorite)
	assert.NotEqual(t, uuid.Nil, address.ID)
}

// A broker outage must not fail the mutation that triggered the event.
func TestAddressService_CreateAddress_PublishFailureIsSwallowed(t *testing.T) {
	fx := createTestAddressService(t)

	ctx := context.Background()
	userID := uuid.New()
	input := &usecase.CreateAddressInput{Title: "Ev", FullAddress: "Bir adres"}

	fx.onExecute(ctx, nil, func(factory *mockRepo.MockRepositoryFactory) {
		mockAddressRepo := mockRepo.NewMockAddressRepository(t)
		factory.EXPECT().AddressRepo().Return(mockAddressRepo)
		mockAddressRepo.EXPECT().
			CreateAddress(ctx, mock.AnythingOfType("*entity.Address")).
			Return(nil)
	})

	fx.publisher.EXPECT().
		PublishAddressEvent(ctx, mock.AnythingOfType("*service.AddressEvent")).
		Return(assert.AnError)

	address, err := fx.service.CreateAddress(ctx, userID, input)

	require.NoError(t, err)
	require.NotNil(t, address)
}

func TestAddressService_UpdateAddress_Success(t *testing.T) {
	fx := createTestAddressService(t)

	ctx := context.Background()
	userID := uuid.New()
	addressID := uuid.New()
	newTitle := "Yeni Ofis"
	input := &usecase.UpdateAddressInput{Title: &newTitle}

	existing := &entity.Address{
		ID:          addressID,
		UserID:      userID,
		Title:       "Ofis",
		FullAddress: "Eski adres",
	}

	fx.onExecute(ctx, nil, func(factory *mockRepo.MockRepositoryFactory) {
		mockAddressRepo := mockRepo.NewMockAddressRepository(t)
		factory.EXPECT().AddressRepo().Return(mockAddressRepo)

		mockAddressRepo.EXPECT().FindAddressByID(ctx, addressID).Return(existing, nil)
		mockAddressRepo.EXPECT().UpdateAddress(ctx, mock.AnythingOfType("*entity.Address")).Return(nil)
	})

	fx.publisher.EXPECT().
		PublishAddressEvent(ctx, mock.AnythingOfType("*service.AddressEvent")).
		Run(func(ctx context.Context, event *service.AddressEvent) {
			assert.Equal(t, "updated", event.Action)
			assert.Equal(t, newTitle, event.Title)
		}).
		Return(nil)

	address, err := fx.service.UpdateAddress(ctx, userID, addressID, input)

	require.NoError(t, err)
	require.NotNil(t, address)
	assert.Equal(t, newTitle, address.Title)
	// Fields not named in the input stay untouched.
	assert.Equal(t, "Eski adres", address.FullAddress)
}

func TestAddressService_ToggleFavorite_Success(t *testing.T) {
	fx := createTestAddressService(t)

	ctx := context.Background()
	userID := uuid.New()
	addressID := uuid.New()

	existing := &entity.Address{
		ID:         addressID,
		UserID:     userID,
		Title:      "Ev",
		IsFavorite: false,
	}

	fx.onExecute(ctx, nil, func(factory *mockRepo.MockRepositoryFactory) {
		mockAddressRepo := mockRepo.NewMockAddressRepository(t)
		factory.EXPECT().AddressRepo().Return(mockAddressRepo)

		mockAddressRepo.EXPECT().FindAddressByID(ctx, addressID).Return(existing, nil)
		mockAddressRepo.EXPECT().UpdateAddress(ctx, mock.AnythingOfType("*entity.Address")).Return(nil)
	})

	fx.publisher.EXPECT().
		PublishAddressEvent(ctx, mock.AnythingOfType("*service.AddressEvent")).
		Run(func(ctx context.Context, event *service.AddressEvent) {
			assert.Equal(t, "updated", event.Action)
			assert.True(t, event.IsFavorite)
		}).
		Return(nil)

	address, err := fx.service.ToggleFavorite(ctx, userID, addressID)

	require.NoError(t, err)
	require.NotNil(t, address)
	assert.True(t, address.IsFavorite)
}

func TestAddressService_DeleteAddress_Success(t *testing.T) {
	fx := createTestAddressService(t)

	ctx := context.Background()
	userID := uuid.New()
	addressID := uuid.New()

	existing := &entity.Address{
		ID:     addressID,
		UserID: userID,
		Title:  "Ev",
	}

	fx.onExecute(ctx, nil, func(factory *mockRepo.MockRepositoryFactory) {
		mockAddressRepo := mockRepo.NewMockAddressRepository(t)
		factory.EXPECT().AddressRepo().Return(mockAddressRepo)

		mockAddressRepo.EXPECT().FindAddressByID(ctx, addressID).Return(existing, nil)
		mockAddressRepo.EXPECT().DeleteAddress(ctx, addressID).Return(nil)
	})

	fx.publisher.EXPECT().
		PublishAddressEvent(ctx, mock.AnythingOfType("*service.AddressEvent")).
		Run(func(ctx context.Context, event *service.AddressEvent) {
			assert.Equal(t, "deleted", event.Action)
			assert.Equal(t, addressID.String(), event.AddressID)
		}).
		Return(nil)

	err := fx.service.DeleteAddress(ctx, userID, addressID)

	require.NoError(t, err)
}

func TestAddressService_GenerateAddressQR_Success(t *testing.T) {
	fx := createTestAddressService(t)

	ctx := context.Background()
	userID := uuid.New()
	addressID := uuid.New()

	existing := &entity.Address{ID: addressID, UserID: userID, Title: "Ev"}
	pngBytes := []byte{0x89, 0x50, 0x4E, 0x47}

	fx.addressRepo.EXPECT().FindAddressByID(ctx, addressID).Return(existing, nil)
	fx.qrService.EXPECT().GenerateAddressQR(addressID).Return(pngBytes, nil)

	png, err := fx.service.GenerateAddressQR(ctx, userID, addressID)

	require.NoError(t, err)
	assert.Equal(t, pngBytes, png)
}
