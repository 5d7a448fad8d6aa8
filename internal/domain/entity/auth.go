package entity

import (
	"time"

	"github.com/google/uuid"
)

// Authentication represents a single method of logging in (a credential).
// Today only email/password exists; the Provider field keeps the door open
// for linked external accounts.
type Authentication struct {
	ID             uuid.UUID // The unique ID for this specific authentication record itself.
	UserID         uuid.UUID // Links this authentication method to the User it belongs to.
	Provider       string    // The authentication provider, e.g., "email".
	ProviderUserID string    // The user's unique ID at the provider; the email address for email auth.
	PasswordHash   string    // Stores the bcrypt-hashed password, only used when the Provider is "email".
	CreatedAt      time.Time // Timestamp of when this authentication method was linked to the user account.
}

// ProviderTypeEmail is the provider name for email/password credentials.
const ProviderTypeEmail = "email"

// RefreshToken represents a long-lived, authorized device session.
// It is used to obtain a new access token after the old one expires, and it
// is the durable record behind the client's "active sessions" screen.
type RefreshToken struct {
	ID         uuid.UUID // The unique ID for this specific refresh token record.
	UserID     uuid.UUID // Links this session to the User it belongs to.
	TokenHash  string    // Stores a SHA-256 hash of the raw refresh token for secure comparison.
	DeviceInfo string    // Free-form descriptor of the device that opened the session.
	FCMToken   string    // Optional FCM registration token for pushing to this device.
	ExpiresAt  time.Time // The exact time when this refresh token becomes invalid.
	CreatedAt  time.Time // Timestamp of when this session was created (i.e., when the user logged in).
}
