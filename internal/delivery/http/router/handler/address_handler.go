package handler

import (
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"pinbook/internal/delivery/http/response"
	"pinbook/internal/domain/entity"
	"pinbook/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// addressResponse is the wire shape for a single saved address.
type addressResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	FullAddress string    `json:"full_address"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	IsFavorite  bool      `json:"is_favorite"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newAddressResponse(address *entity.Address) addressResponse {
	return addressResponse{
		ID:          address.ID.String(),
		UserID:      address.UserID.String(),
		Title:       address.Title,
		FullAddress: address.FullAddress,
		Latitude:    address.Latitude,
		Longitude:   address.Longitude,
		IsFavorite:  address.IsFavorite,
		CreatedAt:   address.CreatedAt,
		UpdatedAt:   address.UpdatedAt,
	}
}

func newAddressListResponse(addresses []*entity.Address) []addressResponse {
	list := make([]addressResponse, 0, len(addresses))
	for _, address := range addresses {
		list = append(list, newAddressResponse(address))
	}

	return list
}

// AddressHandler holds dependencies for address book handlers.
type AddressHandler struct {
	uc     usecase.AddressUsecase
	logger *slog.Logger
}

// NewAddressHandler is the constructor for AddressHandler, injected by Fx.
func NewAddressHandler(uc usecase.AddressUsecase, logger *slog.Logger) *AddressHandler {
	return &AddressHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListAddresses returns the user's address book, optionally narrowed to
// favorites and re-sorted by the requested field.
func (h *AddressHandler) ListAddresses(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	input := &usecase.ListAddressesInput{}
	if favParam := c.QueryParam("favorite"); favParam != "" {
		fav, err := strconv.ParseBool(favParam)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid favorite filter")
		}
		input.FavoritesOnly = fav
	}

	addresses, err := h.uc.ListAddresses(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	sortAddresses(addresses, c.QueryParam("sort"), c.QueryParam("dir"))

	return response.Success(c, http.StatusOK, newAddressListResponse(addresses), "Addresses retrieved successfully")
}

// sortAddresses re-orders the repository result in place. The repository
// already returns newest first, so an empty sort field is a no-op.
func sortAddresses(addresses []*entity.Address, field, dir string) {
	if field == "" {
		return
	}

	desc := strings.EqualFold(dir, "desc")
	less := func(a, b *entity.Address) bool {
		switch field {
		case "title":
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(addresses, func(i, j int) bool {
		if desc {
			return less(addresses[j], addresses[i])
		}

		return less(addresses[i], addresses[j])
	})
}

// CreateAddress saves a new address for the user.
func (h *AddressHandler) CreateAddress(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input *usecase.CreateAddressInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid address input")
	}

	address, err := h.uc.CreateAddress(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newAddressResponse(address), "Address created successfully")
}

// UpdateAddress applies a sparse update to one of the user's addresses.
func (h *AddressHandler) UpdateAddress(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid address ID")
	}

	var input *usecase.UpdateAddressInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid address input")
	}

	address, err := h.uc.UpdateAddress(c.Request().Context(), userID, addressID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newAddressResponse(address), "Address updated successfully")
}

// DeleteAddress removes one of the user's addresses.
func (h *AddressHandler) DeleteAddress(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid address ID")
	}

	if err := h.uc.DeleteAddress(c.Request().Context(), userID, addressID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Address deleted"}, "Address deleted successfully")
}

// ToggleFavorite flips the favorite flag on one of the user's addresses.
func (h *AddressHandler) ToggleFavorite(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid address ID")
	}

	address, err := h.uc.ToggleFavorite(c.Request().Context(), userID, addressID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newAddressResponse(address), "Favorite toggled successfully")
}

// GetAddressQR renders a shareable QR code PNG for one of the user's addresses.
func (h *AddressHandler) GetAddressQR(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid address ID")
	}

	png, err := h.uc.GenerateAddressQR(c.Request().Context(), userID, addressID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
