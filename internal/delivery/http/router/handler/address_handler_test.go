package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pinbook/internal/domain/entity"
	"pinbook/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAddressUsecase lets each test wire just the operations it touches.
type stubAddressUsecase struct {
	listFn   func(ctx context.Context, userID uuid.UUID, input *usecase.ListAddressesInput) ([]*entity.Address, error)
	createFn func(ctx context.Context, userID uuid.UUID, input *usecase.CreateAddressInput) (*entity.Address, error)
	updateFn func(ctx context.Context, userID, addressID uuid.UUID, input *usecase.UpdateAddressInput) (*entity.Address, error)
	deleteFn func(ctx context.Context, userID, addressID uuid.UUID) error
	toggleFn func(ctx context.Context, userID, addressID uuid.UUID) (*entity.Address, error)
	qrFn     func(ctx context.Context, userID, addressID uuid.UUID) ([]byte, error)
}

func (s *stubAddressUsecase) ListAddresses(ctx context.Context, userID uuid.UUID, input *usecase.ListAddressesInput) ([]*entity.Address, error) {
	return s.listFn(ctx, userID, input)
}

func (s *stubAddressUsecase) CreateAddress(ctx context.Context, userID uuid.UUID, input *usecase.CreateAddressInput) (*entity.Address, error) {
	return s.createFn(ctx, userID, input)
}

func (s *stubAddressUsecase) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, input *usecase.UpdateAddressInput) (*entity.Address, error) {
	return s.updateFn(ctx, userID, addressID, input)
}

func (s *stubAddressUsecase) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	return s.deleteFn(ctx, userID, addressID)
}

func (s *stubAddressUsecase) ToggleFavorite(ctx context.Context, userID, addressID uuid.UUID) (*entity.Address, error) {
	return s.toggleFn(ctx, userID, addressID)
}

func (s *stubAddressUsecase) GenerateAddressQR(ctx context.Context, userID, addressID uuid.UUID) ([]byte, error) {
	return s.qrFn(ctx, userID, addressID)
}

func newTestAddressContext(t *testing.T, method, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestAddressHandler_ListAddresses(t *testing.T) {
	userID := uuid.New()
	addresses := []*entity.Address{
		{ID: uuid.New(), UserID: userID, Title: "Ev", FullAddress: "Atatürk Cad. No:1, Kadıköy, İstanbul"},
		{ID: uuid.New(), UserID: userID, Title: "Ofis", FullAddress: "Büyükdere Cad. No:100, Şişli, İstanbul"},
	}

	uc := &stubAddressUsecase{
		listFn: func(ctx context.Context, gotUserID uuid.UUID, input *usecase.ListAddressesInput) ([]*entity.Address, error) {
			assert.Equal(t, userID, gotUserID)
			assert.False(t, input.FavoritesOnly)

			return addresses, nil
		},
	}
	h := NewAddressHandler(uc, slog.Default())

	c, rec := newTestAddressContext(t, http.MethodGet, "/addresses", "")
	c.Set("userID", userID)

	require.NoError(t, h.ListAddresses(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool              `json:"success"`
		Data    []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Len(t, envelope.Data, 2)

	// The wire rows carry the snake_case field names the mobile client decodes.
	body := rec.Body.String()
	assert.Contains(t, body, `"full_address"`)
	assert.Contains(t, body, `"is_favorite"`)
	assert.Contains(t, body, `"user_id"`)
}

func TestAddressHandler_ListAddresses_FavoriteFilter(t *testing.T) {
	userID := uuid.New()

	uc := &stubAddressUsecase{
		listFn: func(ctx context.Context, _ uuid.UUID, input *usecase.ListAddressesInput) ([]*entity.Address, error) {
			assert.True(t, input.FavoritesOnly)

			return nil, nil
		},
	}
	h := NewAddressHandler(uc, slog.Default())

	c, rec := newTestAddressContext(t, http.MethodGet, "/addresses?favorite=true", "")
	c.Set("userID", userID)

	require.NoError(t, h.ListAddresses(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAddressHandler_ListAddresses_MissingUser(t *testing.T) {
	h := NewAddressHandler(&stubAddressUsecase{}, slog.Default())

	c, rec := newTestAddressContext(t, http.MethodGet, "/addresses", "")

	require.NoError(t, h.ListAddresses(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
}

func TestAddressHandler_CreateAddress(t *testing.T) {
	userID := uuid.New()
	addressID := uuid.New()

	uc := &stubAddressUsecase{
		createFn: func(ctx context.Context, gotUserID uuid.UUID, input *usecase.CreateAddressInput) (*entity.Address, error) {
			assert.Equal(t, userID, gotUserID)
			assert.Equal(t, "Ev", input.Title)

			return &entity.Address{
				ID:          addressID,
				UserID:      userID,
				Title:       input.Title,
				FullAddress: input.FullAddress,
				IsFavorite:  input.IsFavorite,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}, nil
		},
	}
	h := NewAddressHandler(uc, slog.Default())

	body := `{"title":"Ev","full_address":"Atatürk Cad. No:1, Kadıköy, İstanbul","latitude":40.99,"longitude":29.02,"is_favorite":true}`
	c, rec := newTestAddressContext(t, http.MethodPost, "/addresses", body)
	c.Set("userID", userID)

	require.NoError(t, h.CreateAddress(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), addressID.String())
}

func TestAddressHandler_UpdateAddress_InvalidID(t *testing.T) {
	h := NewAddressHandler(&stubAddressUsecase{}, slog.Default())

	c, rec := newTestAddressContext(t, http.MethodPatch, "/addresses/not-a-uuid", `{}`)
	c.Set("userID", uuid.New())
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	require.NoError(t, h.UpdateAddress(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}

func TestAddressHandler_GetAddressQR(t *testing.T) {
	userID := uuid.New()
	addressID := uuid.New()
	pngBytes := []byte{0x89, 0x50, 0x4E, 0x47}

	uc := &stubAddressUsecase{
		qrFn: func(ctx context.Context, gotUserID, gotAddressID uuid.UUID) ([]byte, error) {
			assert.Equal(t, userID, gotUserID)
			assert.Equal(t, addressID, gotAddressID)

			return pngBytes, nil
		},
	}
	h := NewAddressHandler(uc, slog.Default())

	c, rec := newTestAddressContext(t, http.MethodGet, "/addresses/"+addressID.String()+"/qr", "")
	c.Set("userID", userID)
	c.SetParamNames("id")
	c.SetParamValues(addressID.String())

	require.NoError(t, h.GetAddressQR(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, pngBytes, rec.Body.Bytes())
}

func TestSortAddresses(t *testing.T) {
	base := time.Now()
	a := &entity.Address{Title: "Annem", CreatedAt: base.Add(-2 * time.Hour)}
	b := &entity.Address{Title: "Ev", CreatedAt: base.Add(-time.Hour)}
	c := &entity.Address{Title: "Ofis", CreatedAt: base}

	addresses := []*entity.Address{c, b, a}
	sortAddresses(addresses, "title", "asc")
	assert.Equal(t, []*entity.Address{a, b, c}, addresses)

	sortAddresses(addresses, "title", "desc")
	assert.Equal(t, []*entity.Address{c, b, a}, addresses)

	sortAddresses(addresses, "created_at", "asc")
	assert.Equal(t, []*entity.Address{a, b, c}, addresses)

	// Empty sort field leaves the repository order untouched.
	addresses = []*entity.Address{c, a, b}
	sortAddresses(addresses, "", "desc")
	assert.Equal(t, []*entity.Address{c, a, b}, addresses)
}
