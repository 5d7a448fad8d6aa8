package store

import (
	"context"
	"log/slog"
	"sync"

	"pinbook/internal/domain/entity"
)

const msgSessionsFetchFailed = "Oturumlar yüklenirken bir hata oluştu"

// SessionOperations is the slice of the session repository the store drives.
type SessionOperations interface {
	FetchActive(ctx context.Context) ([]entity.Session, error)
	Terminate(ctx context.Context) error
}

// SessionStore caches the active device sessions of the signed-in user.
// Sessions are materialized on demand from the remote live session object;
// a failed fetch leaves the previous projection in place.
type SessionStore struct {
	repo   SessionOperations
	logger *slog.Logger

	mu         sync.Mutex
	sessions   []entity.Session
	status     Status
	errMessage string
}

// NewSessionStore creates a SessionStore in the idle state.
func NewSessionStore(repo SessionOperations, logger *slog.Logger) *SessionStore {
	return &SessionStore{repo: repo, logger: logger}
}

// Fetch replaces the session projection wholesale.
func (s *SessionStore) Fetch(ctx context.Context) {
	s.mu.Lock()
	s.status = StatusLoading
	s.errMessage = ""
	s.mu.Unlock()

	sessions, err := s.repo.FetchActive(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.WarnContext(ctx, "session fetch failed", slog.Any("error", err))
		s.status = StatusFailed
		s.errMessage = msgSessionsFetchFailed

		return
	}
	s.status = StatusSucceeded
	s.sessions = sessions
}

// Terminate ends the current device session and clears the local projection.
// On failure the projection is left untouched and the error propagates.
func (s *SessionStore) Terminate(ctx context.Context) error {
	if err := s.repo.Terminate(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = nil
	s.status = StatusIdle
	s.errMessage = ""

	return nil
}

// Sessions returns a copy of the cached session projection.
func (s *SessionStore) Sessions() []entity.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]entity.Session(nil), s.sessions...)
}

// Status returns the fetch status of the session projection.
func (s *SessionStore) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

// Err returns the recorded message of the last failed fetch.
func (s *SessionStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.errMessage
}
