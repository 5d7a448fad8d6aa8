package handler

import (
	"log/slog"
	"net/http"
	"time"

	"pinbook/internal/delivery/http/response"
	"pinbook/internal/domain/entity"
	"pinbook/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// profileResponse is the wire shape for the user's profile.
type profileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newProfileResponse(user *entity.User) profileResponse {
	return profileResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ProfileHandler holds dependencies for profile handlers.
type ProfileHandler struct {
	uc     usecase.ProfileUsecase
	logger *slog.Logger
}

// NewProfileHandler is the constructor for ProfileHandler, injected by Fx.
func NewProfileHandler(uc usecase.ProfileUsecase, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		uc:     uc,
		logger: logger,
	}
}

// GetProfile returns the calling user's profile.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	user, err := h.uc.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newProfileResponse(user), "Profile retrieved successfully")
}

// UpdateProfile applies a sparse update to the calling user's profile.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input *usecase.UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}

	user, err := h.uc.UpdateProfile(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newProfileResponse(user), "Profile updated successfully")
}

// ChangePassword replaces the calling user's password after verifying the
// current one.
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input *usecase.ChangePasswordInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password input")
	}

	if err := h.uc.ChangePassword(c.Request().Context(), userID, input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Password changed"}, "Password changed successfully")
}
