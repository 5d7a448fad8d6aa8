// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"pinbook/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// CreateAddressInput defines the data required to save a new address.
type CreateAddressInput struct {
	Title       string  `json:"title"`
	FullAddress string  `json:"full_address"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	IsFavorite  bool    `json:"is_favorite"`
}

// UpdateAddressInput defines the sparse address update payload.
// A nil field is left untouched.
type UpdateAddressInput struct {
	Title       *string  `json:"title,omitempty"`
	FullAddress *string  `json:"full_address,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	IsFavorite  *bool    `json:"is_favorite,omitempty"`
}

// ListAddressesInput narrows the address listing.
type ListAddressesInput struct {
	FavoritesOnly bool
}

// AddressUsecase defines the interface for address book operations.
// Every operation is scoped to the owning user; an address belonging to
// another user behaves exactly like a missing one.
type AddressUsecase interface {
	ListAddresses(ctx context.Context, userID uuid.UUID, input *ListAddressesInput) ([]*entity.Address, error)
	CreateAddress(ctx context.Context, userID uuid.UUID, input *CreateAddressInput) (*entity.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, input *UpdateAddressInput) (*entity.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error
	ToggleFavorite(ctx context.Context, userID, addressID uuid.UUID) (*entity.Address, error)

	// GenerateAddressQR renders a shareable QR code for one of the
	// user's addresses.
	GenerateAddressQR(ctx context.Context, userID, addressID uuid.UUID) ([]byte, error)
}
