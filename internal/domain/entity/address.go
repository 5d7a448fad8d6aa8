// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Address is the core entity for a saved location in a user's address book.
type Address struct {
	ID          uuid.UUID // The unique identifier for the address.
	UserID      uuid.UUID // The ID of the user that owns this address.
	Title       string    // A user-defined title, e.g., "Ev", "Ofis".
	FullAddress string    // The full, human-readable street address.
	Latitude    float64   // The geographic latitude, in the range [-90, 90].
	Longitude   float64   // The geographic longitude, in the range [-180, 180].
	IsFavorite  bool      // Whether this address is pinned to the favorites view.
	CreatedAt   time.Time // Timestamp of when this address was created.
	UpdatedAt   time.Time // Timestamp of the last modification.
}
