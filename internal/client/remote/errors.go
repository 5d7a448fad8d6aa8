package remote

import (
	"sort"
	"strings"

	"pinbook/internal/errors"
)

// Classified failures of the Remote Data Service. The repository layer
// translates every remote failure into exactly one of these.
var (
	// ErrNotFound means the referenced row id does not exist remotely.
	ErrNotFound = errors.New("remote: not found")

	// ErrRemoteUnavailable means the transport or the service itself failed.
	ErrRemoteUnavailable = errors.New("remote: service unavailable")

	// ErrInvalidCredentials means an authentication attempt failed.
	ErrInvalidCredentials = errors.New("remote: invalid credentials")

	// ErrDuplicateEmail means registration hit an already-registered email.
	ErrDuplicateEmail = errors.New("remote: email already registered")

	// ErrWeakCredential means registration was rejected for password strength.
	ErrWeakCredential = errors.New("remote: credential too weak")

	// ErrNoSession means no device session is currently open.
	ErrNoSession = errors.New("remote: no active session")

	// ErrValidationRejected is the sentinel for server-side constraint
	// violations; inspect with AsValidation for per-field messages.
	ErrValidationRejected = errors.New("remote: validation rejected")
)

// ValidationError carries a field-to-message mapping for a rejected write.
// When no per-field detail is derivable, Fields is empty and General holds
// the whole message.
type ValidationError struct {
	General string
	Fields  map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		if e.General != "" {
			return "remote: validation rejected: " + e.General
		}

		return "remote: validation rejected"
	}

	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)

	return "remote: validation rejected: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrValidationRejected) match a *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationRejected
}

// AsValidation extracts a *ValidationError from an error tree, if present.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}

	return nil, false
}
