// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"pinbook/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Phone      string `json:"phone"`
	DeviceInfo string `json:"device_info"`
	FCMToken   string `json:"fcm_token,omitempty"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	DeviceInfo string `json:"device_info"`
	FCMToken   string `json:"fcm_token,omitempty"`
}

// RefreshTokenInput defines the data required to refresh an access token.
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token"`
	DeviceInfo   string `json:"device_info"`
}

// LogoutInput defines the data required to close a session.
type LogoutInput struct {
	RefreshToken string `json:"refresh_token"`
}

// --- Output DTOs ---

// SessionOutput returns the token pair opened for a device together with
// the session window. Registration and login both answer with this shape.
type SessionOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// UserUsecase defines the interface for account and session lifecycle
// operations. This is the contract that the delivery layer depends on.
type UserUsecase interface {
	// Register creates the account and opens the first session for it.
	Register(ctx context.Context, input *RegisterInput) (*SessionOutput, error)

	// Login verifies credentials and opens a new device session.
	Login(ctx context.Context, input *LoginInput) (*SessionOutput, error)

	// RefreshToken issues a new access token against a live refresh token.
	// The refresh token itself is not rotated.
	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*SessionOutput, error)

	// Logout invalidates the session identified by the refresh token.
	Logout(ctx context.Context, input *LogoutInput) error

	// DescribeSession returns the session window for the user's current
	// refresh token, newest first when the device holds several.
	DescribeSession(ctx context.Context, userID uuid.UUID) (*SessionOutput, error)
}
