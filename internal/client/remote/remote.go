// Package remote defines the contract the client data layer consumes from
// the hosted backend. The backend owns durable truth: authentication, row
// storage and row-level authorization. The client only sees typed
// query/command calls returning generic rows; decoding rows into entities
// is the repository layer's job.
package remote

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Row is a single record as returned by the remote store, prior to schema
// validation. Keys are column names.
type Row map[string]any

// Filter constrains a Query server-side. Keys are column names; a row
// matches when every listed column equals the given value.
type Filter map[string]any

// Order describes the server-side ordering of a Query result.
type Order struct {
	Field      string
	Descending bool
}

// Tables owned by the remote store.
const (
	TableAddresses = "addresses"
	TableProfiles  = "profiles"
)

// AuthSession is the live session object held by the remote service for an
// authenticated device.
type AuthSession struct {
	AccessToken  string    // Opaque reference to the session token.
	RefreshToken string    // Long-lived token used to renew the session.
	UserID       uuid.UUID // The authenticated user.
	CreatedAt    time.Time // When the session was opened.
	ExpiresAt    time.Time // When the access token expires.
}

// RegisterInput carries the fields required to create a new account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// DataService is the query/command interface of the Remote Data Service.
// Every call is a single round trip; none partially succeeds.
type DataService interface {
	// Authenticate opens a session with email/password credentials.
	// Fails with ErrInvalidCredentials when they do not match.
	Authenticate(ctx context.Context, email, password string) (*AuthSession, error)

	// Register creates an account and opens a session for it.
	// Fails with ErrDuplicateEmail or ErrWeakCredential.
	Register(ctx context.Context, input RegisterInput) (*AuthSession, error)

	// SignOut terminates the current session.
	SignOut(ctx context.Context) error

	// CurrentSession returns the live session object, or ErrNoSession when
	// the device is signed out.
	CurrentSession(ctx context.Context) (*AuthSession, error)

	// Query returns the ordered row set matching the filter.
	Query(ctx context.Context, table string, filter Filter, order Order) ([]Row, error)

	// Insert stores a new row and returns it with server-assigned fields
	// (id, timestamps) materialized.
	Insert(ctx context.Context, table string, row Row) (Row, error)

	// Update applies a sparse set of fields to the row with the given id and
	// returns the full updated row. Columns absent from sparse are left
	// untouched. Fails with ErrNotFound when the id does not resolve.
	Update(ctx context.Context, table string, id string, sparse Row) (Row, error)

	// Delete removes the row with the given id. A repeated delete of an
	// already-deleted id fails with ErrNotFound.
	Delete(ctx context.Context, table string, id string) error

	// UpdatePassword replaces the current user's password after verifying
	// the current one. Fails with ErrInvalidCredentials when the current
	// password is wrong.
	UpdatePassword(ctx context.Context, currentPassword, newPassword string) error
}
