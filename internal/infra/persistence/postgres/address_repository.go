package postgres

import (
	"context"

	"pinbook/internal/domain/entity"
	domainerrors "pinbook/internal/domain/errors"
	"pinbook/internal/domain/repository"
	"pinbook/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// addressRepository implements the domain.AddressRepository interface using GORM.
type addressRepository struct {
	db *gorm.DB
}

// NewAddressRepository is the constructor for addressRepository.
func NewAddressRepository(db *gorm.DB) repository.AddressRepository {
	return &addressRepository{db: db}
}

// CreateAddress persists a new address for a user.
func (repo *addressRepository) CreateAddress(ctx context.Context, address *entity.Address) error {
	addressM := fromAddressDomain(address)

	if err := repo.db.WithContext(ctx).Create(addressM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("address references unknown user")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required address fields")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create address")
	}

	address.ID = addressM.ID
	address.CreatedAt = addressM.CreatedAt
	address.UpdatedAt = addressM.UpdatedAt

	return nil
}

// FindAddressByID retrieves an address by its unique ID.
func (repo *addressRepository) FindAddressByID(ctx context.Context, id uuid.UUID) (*entity.Address, error) {
	var addressM model.AddressModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&addressM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAddressNotFound
		}

		return nil, errors.Wrap(err, "failed to find address by id")
	}

	return toAddressDomain(&addressM), nil
}

// FindAddressesByUser retrieves all addresses owned by a user, newest first.
func (repo *addressRepository) FindAddressesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	return repo.findAddresses(ctx, repo.db.WithContext(ctx).Where("user_id = ?", userID))
}

// FindFavoriteAddressesByUser retrieves the user's favorite addresses, newest first.
func (repo *addressRepository) FindFavoriteAddressesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	return repo.findAddresses(ctx, repo.db.WithContext(ctx).Where("user_id = ? AND is_favorite = ?", userID, true))
}

func (repo *addressRepository) findAddresses(_ context.Context, tx *gorm.DB) ([]*entity.Address, error) {
	var addressMs []model.AddressModel
	if err := tx.Order("created_at DESC").Find(&addressMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find addresses")
	}

	addresses := make([]*entity.Address, 0, len(addressMs))
	for i := range addressMs {
		addresses = append(addresses, toAddressDomain(&addressMs[i]))
	}

	return addresses, nil
}

// UpdateAddress updates an existing address record.
func (repo *addressRepository) UpdateAddress(ctx context.Context, address *entity.Address) error {
	addressM := fromAddressDomain(address)

	result := repo.db.WithContext(ctx).
		Model(&model.AddressModel{}).
		Where("id = ?", address.ID).
		Updates(map[string]any{
			"title":        addressM.Title,
			"full_address": addressM.FullAddress,
			"latitude":     addressM.Latitude,
			"longitude":    addressM.Longitude,
			"is_favorite":  addressM.IsFavorite,
		})
	if result.Error != nil {
		if isNotNullConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required address fields")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update address")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAddressNotFound
	}

	return nil
}

// DeleteAddress removes an address by its ID.
func (repo *addressRepository) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.AddressModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete address")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAddressNotFound
	}

	return nil
}

// toAddressDomain converts a GORM AddressModel to a domain Address entity.
func toAddressDomain(data *model.AddressModel) *entity.Address {
	if data == nil {
		return nil
	}

	return &entity.Address{
		ID:          data.ID,
		UserID:      data.UserID,
		Title:       data.Title,
		FullAddress: data.FullAddress,
		Latitude:    data.Latitude,
		Longitude:   data.Longitude,
		IsFavorite:  data.IsFavorite,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromAddressDomain converts a domain Address entity to a GORM AddressModel.
func fromAddressDomain(data *entity.Address) *model.AddressModel {
	if data == nil {
		return nil
	}

	return &model.AddressModel{
		ID:          data.ID,
		UserID:      data.UserID,
		Title:       data.Title,
		FullAddress: data.FullAddress,
		Latitude:    data.Latitude,
		Longitude:   data.Longitude,
		IsFavorite:  data.IsFavorite,
	}
}
