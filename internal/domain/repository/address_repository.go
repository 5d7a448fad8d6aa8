package repository

import (
	"context"

	"pinbook/internal/domain/entity"
	"pinbook/internal/errors"

	"github.com/google/uuid"
)

// ErrAddressNotFound is returned when an address is not found.
var ErrAddressNotFound = errors.New("address not found")

// AddressRepository defines the interface for address-related database operations.
type AddressRepository interface {
	// CreateAddress persists a new address for a user.
	CreateAddress(ctx context.Context, address *entity.Address) error

	// FindAddressByID retrieves an address by its unique ID.
	FindAddressByID(ctx context.Context, id uuid.UUID) (*entity.Address, error)

	// FindAddressesByUser retrieves all addresses owned by a user,
	// ordered by creation time descending.
	FindAddressesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error)

	// FindFavoriteAddressesByUser retrieves the user's favorite addresses,
	// ordered by creation time descending.
	FindFavoriteAddressesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error)

	// UpdateAddress updates an existing address record.
	UpdateAddress(ctx context.Context, address *entity.Address) error

	// DeleteAddress removes an address by its ID.
	// Returns ErrAddressNotFound when no row was deleted.
	DeleteAddress(ctx context.Context, id uuid.UUID) error
}
