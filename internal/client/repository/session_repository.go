package repository

import (
	"context"
	"time"

	"pinbook/internal/client/remote"
	"pinbook/internal/domain/entity"
	"pinbook/internal/util"
)

// SessionRepository materializes device sessions from the Remote Data
// Service's live session object. Sessions are not independently persisted
// on the client; each fetch rebuilds the projection.
type SessionRepository struct {
	svc        remote.DataService
	deviceInfo string
	now        func() time.Time
}

// NewSessionRepository creates a SessionRepository. deviceInfo is this
// device's descriptor as shown on the sessions screen.
func NewSessionRepository(svc remote.DataService, deviceInfo string) *SessionRepository {
	return &SessionRepository{svc: svc, deviceInfo: deviceInfo, now: time.Now}
}

// FetchActive returns the active sessions of the signed-in user. The current
// device's session is always first and flagged IsCurrent.
func (r *SessionRepository) FetchActive(ctx context.Context) ([]entity.Session, error) {
	live, err := r.svc.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}

	session := entity.Session{
		ID:           live.AccessToken,
		UserID:       live.UserID,
		DeviceInfo:   r.deviceInfo,
		CreatedAt:    live.CreatedAt,
		LastActivity: util.RelativeTimeLabel(live.CreatedAt, r.now()),
		IsCurrent:    true,
	}

	return []entity.Session{session}, nil
}

// Terminate ends the current device session.
func (r *SessionRepository) Terminate(ctx context.Context) error {
	return r.svc.SignOut(ctx)
}
