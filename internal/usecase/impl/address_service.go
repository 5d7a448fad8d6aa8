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
	"go.uber.org/fx"
)

// addressService implements the AddressUsecase interface.
type addressService struct {
	txManager   repository.TransactionManager
	addressRepo repository.AddressRepository
	publisher   service.EventPublisher
	qrService   service.QRCodeService
	logger      *slog.Logger
}

// AddressServiceParams holds dependencies for AddressService, injected by Fx.
type AddressServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AddressRepo repository.AddressRepository
	Publisher   service.EventPublisher
	QRService   service.QRCodeService
	Logger      *slog.Logger
}

// NewAddressService is the constructor for addressService.
func NewAddressService(params AddressServiceParams) usecase.AddressUsecase {
	return &addressService{
		txManager:   params.TxManager,
		addressRepo: params.AddressRepo,
		publisher:   params.Publisher,
		qrService:   params.QRService,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *addressService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListAddresses returns the user's addresses, newest first. With
// FavoritesOnly set only the favorites subset is returned.
func (srv *addressService) ListAddresses(ctx context.Context, userID uuid.UUID, input *usecase.ListAddressesInput) ([]*entity.Address, error) {
	srv.log(ctx).Debug("Listing addresses", slog.Any("user_id", userID), slog.Bool("favorites_only", input != nil && input.FavoritesOnly))

	var (
		addresses []*entity.Address
		err       error
	)

	// Single query operation - use direct repository instance
	if input != nil && input.FavoritesOnly {
		addresses, err = srv.addressRepo.FindFavoriteAddressesByUser(ctx, userID)
	} else {
		addresses, err = srv.addressRepo.FindAddressesByUser(ctx, userID)
	}
	if err != nil {
		srv.log(ctx).Error("Failed to list addresses", slog.Any("error", err), slog.Any("user_id", userID))

		return nil, errors.Wrap(err, "failed to list addresses")
	}

	return addresses, nil
}

// CreateAddress saves a new address for the user.
func (srv *addressService) CreateAddress(ctx context.Context, userID uuid.UUID, input *usecase.CreateAddressInput) (*entity.Address, error) {
	srv.log(ctx).Info("Creating address", slog.Any("user_id", userID), slog.String("title", input.Title))

	address := &entity.Address{
		UserID:      userID,
		Title:       input.Title,
		FullAddress: input.FullAddress,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		IsFavorite:  input.IsFavorite,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return errors.Wrap(repoFactory.AddressRepo().CreateAddress(ctx, address), "failed to create address")
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create address", slog.Any("error", err), slog.Any("user_id", userID))

		return nil, errors.Wrap(err, "failed to execute create address transaction")
	}

	srv.publishEvent(ctx, "created", address)

	return address, nil
}

// UpdateAddress applies a sparse update to one of the user's addresses and
// returns the full updated record. Re-applying the same update is harmless.
func (srv *addressService) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, input *usecase.UpdateAddressInput) (*entity.Address, error) {
	srv.log(ctx).Info("Updating address", slog.Any("user_id", userID), slog.Any("address_id", addressID))

	var updated *entity.Address

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.AddressRepo()

		address, err := srv.findOwnedAddress(ctx, addressRepo, userID, addressID)
		if err != nil {
			return err
		}

		if input.Title != nil {
			address.Title = *input.Title
		}
		if input.FullAddress != nil {
			address.FullAddress = *input.FullAddress
		}
		if input.Latitude != nil {
			address.Latitude = *input.Latitude
		}
		if input.Longitude != nil {
			address.Longitude = *input.Longitude
		}
		if input.IsFavorite != nil {
			address.IsFavorite = *input.IsFavorite
		}

		if err := addressRepo.UpdateAddress(ctx, address); err != nil {
			return errors.Wrap(err, "failed to update address")
		}
		updated = address

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to update address", slog.Any("error", err), slog.Any("user_id", userID), slog.Any("address_id", addressID))

		return nil, errors.Wrap(err, "failed to execute update address transaction")
	}

	srv.publishEvent(ctx, "updated", updated)

	return updated, nil
}

// DeleteAddress removes one of the user's addresses.
func (srv *addressService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	srv.log(ctx).Info("Deleting address", slog.Any("user_id", userID), slog.Any("address_id", addressID))

	var deleted *entity.Address

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.AddressRepo()

		address, err := srv.findOwnedAddress(ctx, addressRepo, userID, addressID)
		if err != nil {
			return err
		}

		if err := addressRepo.DeleteAddress(ctx, address.ID); err != nil {
			return errors.Wrap(err, "failed to delete address")
		}
		deleted = address

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to delete address", slog.Any("error", err), slog.Any("user_id", userID), slog.Any("address_id", addressID))

		return errors.Wrap(err, "failed to execute delete address transaction")
	}

	srv.publishEvent(ctx, "deleted", deleted)

	return nil
}

// ToggleFavorite flips the favorite flag and returns the updated address.
func (srv *addressService) ToggleFavorite(ctx context.Context, userID, addressID uuid.UUID) (*entity.Address, error) {
	srv.log(ctx).Info("Toggling favorite", slog.Any("user_id", userID), slog.Any("address_id", addressID))

	var updated *entity.Address

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.AddressRepo()

		address, err := srv.findOwnedAddress(ctx, addressRepo, userID, addressID)
		if err != nil {
			return err
		}

		address.IsFavorite = !address.IsFavorite
		if err := addressRepo.UpdateAddress(ctx, address); err != nil {
			return errors.Wrap(err, "failed to update address")
		}
		updated = address

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to toggle favorite", slog.Any("error", err), slog.Any("user_id", userID), slog.Any("address_id", addressID))

		return nil, errors.Wrap(err, "failed to execute toggle favorite transaction")
	}

	srv.publishEvent(ctx, "updated", updated)

	return updated, nil
}

// GenerateAddressQR renders a shareable QR code for one of the user's addresses.
func (srv *addressService) GenerateAddressQR(ctx context.Context, userID, addressID uuid.UUID) ([]byte, error) {
	srv.log(ctx).Debug("Generating address QR", slog.Any("user_id", userID), slog.Any("address_id", addressID))

	if _, err := srv.findOwnedAddress(ctx, srv.addressRepo, userID, addressID); err != nil {
		return nil, err
	}

	png, err := srv.qrService.GenerateAddressQR(addressID)
	if err != nil {
		srv.log(ctx).Error("Failed to generate QR code", slog.Any("error", err), slog.Any("address_id", addressID))

		return nil, errors.Wrap(err, "failed to generate QR code")
	}

	return png, nil
}

// findOwnedAddress loads an address and verifies ownership. An address owned
// by another user is reported exactly like a missing one.
func (srv *addressService) findOwnedAddress(ctx context.Context, addressRepo repository.AddressRepository, userID, addressID uuid.UUID) (*entity.Address, error) {
	address, err := addressRepo.FindAddressByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return nil, errors.Wrap(domainerrors.ErrAddressNotFound, "address not found")
		}

		return nil, errors.Wrap(err, "failed to find address")
	}

	if address.UserID != userID {
		return nil, errors.Wrap(domainerrors.ErrAddressNotFound, "address not found")
	}

	return address, nil
}

// publishEvent emits an address mutation event for async fan-out. Publishing
// is best-effort: a broker failure never fails the mutation that triggered it.
func (srv *addressService) publishEvent(ctx context.Context, action string, address *entity.Address) {
	if address == nil {
		return
	}

	event := &service.AddressEvent{
		RequestID:   deliverycontext.GetRequestIDFromContext(ctx),
		Action:      action,
		AddressID:   address.ID.String(),
		UserID:      address.UserID.String(),
		Title:       address.Title,
		FullAddress: address.FullAddress,
		Latitude:    address.Latitude,
		Longitude:   address.Longitude,
		IsFavorite:  address.IsFavorite,
	}

	if err := srv.publisher.PublishAddressEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish address event",
			slog.String("action", action),
			slog.Any("address_id", address.ID),
			slog.Any("error", err),
		)
	}
}
