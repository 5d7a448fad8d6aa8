// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a unique account.
// It carries the profile fields the mobile client renders on the settings
// and edit-profile screens.
type User struct {
	ID        uuid.UUID // The unique identifier for the user.
	Email     string    // The user's primary contact email, used as the login identifier.
	FirstName string    // The user's given name.
	LastName  string    // The user's family name.
	Phone     string    // The user's phone number in (5XX) XXX-XXXX format.
	CreatedAt time.Time // Timestamp of when this user account was created.
	UpdatedAt time.Time // Timestamp of the last modification to this user's data.
}
