package handler

import (
	"log/slog"
	"net/http"
	"time"

	"pinbook/internal/delivery/http/response"
	"pinbook/internal/domain/entity"
	"pinbook/internal/domain/service"
	"pinbook/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// HeaderXRefreshToken carries the raw refresh token of the calling device
// so the sessions screen can mark the current entry.
const HeaderXRefreshToken = "X-Refresh-Token"

// sessionEntryResponse is the wire shape for one row of the active-sessions screen.
type sessionEntryResponse struct {
	ID           string    `json:"id"`
	DeviceInfo   string    `json:"device_info"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity string    `json:"last_activity"`
	IsCurrent    bool      `json:"is_current"`
}

func newSessionListResponse(sessions []*entity.Session) []sessionEntryResponse {
	list := make([]sessionEntryResponse, 0, len(sessions))
	for _, session := range sessions {
		list = append(list, sessionEntryResponse{
			ID:           session.ID,
			DeviceInfo:   session.DeviceInfo,
			CreatedAt:    session.CreatedAt,
			LastActivity: session.LastActivity,
			IsCurrent:    session.IsCurrent,
		})
	}

	return list
}

// SessionHandler holds dependencies for the active-sessions handlers.
type SessionHandler struct {
	uc       usecase.SessionUsecase
	tokenSvc service.TokenService
	logger   *slog.Logger
}

// NewSessionHandler is the constructor for SessionHandler, injected by Fx.
func NewSessionHandler(uc usecase.SessionUsecase, tokenSvc service.TokenService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		uc:       uc,
		tokenSvc: tokenSvc,
		logger:   logger,
	}
}

// ListSessions returns the user's device sessions, newest first. When the
// client sends its refresh token in X-Refresh-Token, the matching entry is
// flagged as the current one.
func (h *SessionHandler) ListSessions(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	currentHash := ""
	if rawToken := c.Request().Header.Get(HeaderXRefreshToken); rawToken != "" {
		currentHash = h.tokenSvc.HashToken(rawToken)
	}

	sessions, err := h.uc.GetActiveSessions(c.Request().Context(), userID, currentHash)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newSessionListResponse(sessions), "Sessions retrieved successfully")
}

// RevokeSession terminates one of the user's sessions.
func (h *SessionHandler) RevokeSession(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid session ID")
	}

	if err := h.uc.RevokeSession(c.Request().Context(), userID, sessionID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Session revoked"}, "Session revoked successfully")
}

// RevokeAllSessions terminates every session for the user, logging out all
// devices at once.
func (h *SessionHandler) RevokeAllSessions(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	if err := h.uc.RevokeAllSessions(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "All sessions revoked"}, "Sessions revoked successfully")
}
