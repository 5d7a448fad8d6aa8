package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is the read-mostly projection of an authenticated device session
// that the client renders on the active-sessions screen. It is materialized
// on demand from the live session; it is never persisted on its own.
type Session struct {
	ID           string    // Opaque reference to the session token.
	UserID       uuid.UUID // The user this session belongs to.
	DeviceInfo   string    // Human-readable device descriptor, e.g., "iPhone (iOS 17)".
	CreatedAt    time.Time // When the session was opened.
	LastActivity string    // Human-readable relative activity label, e.g., "5 dakika önce".
	IsCurrent    bool      // Whether this is the session issuing the request.
}
