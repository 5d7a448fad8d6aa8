package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "pinbook/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestErrorContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/addresses", nil)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) domainerrors.Response {
	t.Helper()

	var resp domainerrors.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return resp
}

func TestErrorMiddleware_AppError(t *testing.T) {
	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
	c, rec := newTestErrorContext(t)

	m.HandleHTTPError(errors.Wrap(domainerrors.ErrAddressNotFound, "address not found"), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Adres bulunamadı", resp.Message)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ADDRESS_NOT_FOUND", resp.Error.Code)
}

func TestErrorMiddleware_WrappedAppErrorKeepsCode(t *testing.T) {
	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
	c, rec := newTestErrorContext(t)

	// Several wrap layers, as produced by the use cases.
	err := errors.Wrap(errors.Wrap(domainerrors.ErrInvalidCredentials, "unknown email"), "failed to login")
	m.HandleHTTPError(err, c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)
}

func TestErrorMiddleware_EchoHTTPError(t *testing.T) {
	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
	c, rec := newTestErrorContext(t)

	m.HandleHTTPError(echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), c)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "HTTP_ERROR", resp.Error.Code)
}

func TestErrorMiddleware_UnknownError(t *testing.T) {
	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
	c, rec := newTestErrorContext(t)

	m.HandleHTTPError(errors.New("db connection lost"), c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.Equal(t, "db connection lost", resp.Error.Details)
}
