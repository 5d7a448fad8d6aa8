// Package rest implements the remote.DataService contract over the pinbook
// backend's HTTP API. It owns the device session tokens and injects them
// into every authorized call.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"pinbook/internal/client/remote"
	"pinbook/internal/errors"

	"github.com/google/uuid"
)

const defaultRequestTimeout = 15 * time.Second

// Client is a remote.DataService backed by the pinbook HTTP API.
type Client struct {
	baseURL    string
	deviceInfo string
	httpClient *http.Client
	logger     *slog.Logger

	mu      sync.Mutex
	session *remote.AuthSession
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithDeviceInfo sets the device descriptor reported when opening sessions.
func WithDeviceInfo(info string) Option {
	return func(c *Client) { c.deviceInfo = info }
}

// New creates a Client for the API at baseURL.
func New(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	client := &Client{
		baseURL:    baseURL,
		deviceInfo: "Go İstemci",
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(client)
	}

	return client
}

// envelope mirrors the backend's unified response structure.
type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *errorInfo      `json:"error,omitempty"`
}

type errorInfo struct {
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// sessionPayload is the wire form of an authenticated session.
type sessionPayload struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Authenticate opens a session with email/password credentials.
func (c *Client) Authenticate(ctx context.Context, email, password string) (*remote.AuthSession, error) {
	body := map[string]string{
		"email":       email,
		"password":    password,
		"device_info": c.deviceInfo,
	}

	data, err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, false)
	if err != nil {
		return nil, err
	}

	return c.adoptSession(data)
}

// Register creates an account and opens a session for it.
func (c *Client) Register(ctx context.Context, input remote.RegisterInput) (*remote.AuthSession, error) {
	body := map[string]string{
		"email":       input.Email,
		"password":    input.Password,
		"first_name":  input.FirstName,
		"last_name":   input.LastName,
		"phone":       input.Phone,
		"device_info": c.deviceInfo,
	}

	data, err := c.do(ctx, http.MethodPost, "/auth/register", nil, body, false)
	if err != nil {
		return nil, err
	}

	return c.adoptSession(data)
}

// SignOut terminates the current session and forgets the local tokens.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return remote.ErrNoSession
	}

	body := map[string]string{"refresh_token": session.RefreshToken}
	if _, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, body, true); err != nil {
		return err
	}

	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()

	return nil
}

// CurrentSession returns the live session object, refreshed against the API.
func (c *Client) CurrentSession(ctx context.Context) (*remote.AuthSession, error) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return nil, remote.ErrNoSession
	}

	data, err := c.do(ctx, http.MethodGet, "/auth/session", nil, nil, true)
	if err != nil {
		return nil, err
	}

	var payload sessionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.Wrap(remote.ErrRemoteUnavailable, "malformed session payload")
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return nil, errors.Wrap(remote.ErrRemoteUnavailable, "malformed session user id")
	}

	// The server does not echo tokens back; keep the ones we hold.
	live := &remote.AuthSession{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		UserID:       userID,
		CreatedAt:    payload.CreatedAt,
		ExpiresAt:    payload.ExpiresAt,
	}

	return live, nil
}

// Query returns the ordered row set matching the filter.
func (c *Client) Query(ctx context.Context, table string, filter remote.Filter, order remote.Order) ([]remote.Row, error) {
	switch table {
	case remote.TableAddresses:
		params := url.Values{}
		if fav, ok := filter["is_favorite"].(bool); ok {
			params.Set("favorite", strconv.FormatBool(fav))
		}
		if order.Field != "" {
			params.Set("sort", order.Field)
			if order.Descending {
				params.Set("dir", "desc")
			}
		}

		data, err := c.do(ctx, http.MethodGet, "/addresses", params, nil, true)
		if err != nil {
			return nil, err
		}

		return decodeRows(data)

	case remote.TableProfiles:
		data, err := c.do(ctx, http.MethodGet, "/profile", nil, nil, true)
		if err != nil {
			return nil, err
		}

		return decodeSingleRow(data)

	default:
		return nil, errors.Errorf("rest: unknown table %q", table)
	}
}

// Insert stores a new row and returns it with server-assigned fields.
func (c *Client) Insert(ctx context.Context, table string, row remote.Row) (remote.Row, error) {
	if table != remote.TableAddresses {
		return nil, errors.Errorf("rest: insert not supported for table %q", table)
	}

	data, err := c.do(ctx, http.MethodPost, "/addresses", nil, row, true)
	if err != nil {
		return nil, err
	}

	return decodeRow(data)
}

// Update applies a sparse set of fields and returns the full updated row.
func (c *Client) Update(ctx context.Context, table string, id string, sparse remote.Row) (remote.Row, error) {
	var path string
	switch table {
	case remote.TableAddresses:
		path = "/addresses/" + id
	case remote.TableProfiles:
		path = "/profile"
	default:
		return nil, errors.Errorf("rest: update not supported for table %q", table)
	}

	data, err := c.do(ctx, http.MethodPatch, path, nil, sparse, true)
	if err != nil {
		return nil, err
	}

	return decodeRow(data)
}

// Delete removes the row with the given id.
func (c *Client) Delete(ctx context.Context, table string, id string) error {
	if table != remote.TableAddresses {
		return errors.Errorf("rest: delete not supported for table %q", table)
	}

	_, err := c.do(ctx, http.MethodDelete, "/addresses/"+id, nil, nil, true)

	return err
}

// UpdatePassword replaces the current user's password.
func (c *Client) UpdatePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{
		"current_password": currentPassword,
		"new_password":     newPassword,
	}

	_, err := c.do(ctx, http.MethodPut, "/profile/password", nil, body, true)

	return err
}

// adoptSession decodes a session payload and stores it as the active session.
func (c *Client) adoptSession(data json.RawMessage) (*remote.AuthSession, error) {
	var payload sessionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.Wrap(remote.ErrRemoteUnavailable, "malformed session payload")
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return nil, errors.Wrap(remote.ErrRemoteUnavailable, "malformed session user id")
	}

	session := &remote.AuthSession{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		UserID:       userID,
		CreatedAt:    payload.CreatedAt,
		ExpiresAt:    payload.ExpiresAt,
	}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	return session, nil
}

// refreshSession exchanges the refresh token for a new token pair. Used once
// per request when the access token has expired.
func (c *Client) refreshSession(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return remote.ErrNoSession
	}

	body := map[string]string{
		"refresh_token": session.RefreshToken,
		"device_info":   c.deviceInfo,
	}

	data, err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, body, false)
	if err != nil {
		return err
	}

	_, err = c.adoptSession(data)

	return err
}

// do performs one API round trip and returns the envelope's data payload.
// When authorized is set and the server answers 401, the session is
// refreshed once and the call retried.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any, authorized bool) (json.RawMessage, error) {
	data, status, err := c.roundTrip(ctx, method, path, params, body, authorized)
	if err == nil || !authorized || status != http.StatusUnauthorized {
		return data, err
	}

	if refreshErr := c.refreshSession(ctx); refreshErr != nil {
		return nil, err
	}

	data, _, err = c.roundTrip(ctx, method, path, params, body, authorized)

	return data, err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, params url.Values, body any, authorized bool) (json.RawMessage, int, error) {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, 0, errors.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorized {
		c.mu.Lock()
		session := c.session
		c.mu.Unlock()
		if session == nil {
			return nil, 0, remote.ErrNoSession
		}
		req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("API call failed", slog.String("method", method), slog.String("path", path), slog.Any("error", err))

		return nil, 0, errors.Wrap(remote.ErrRemoteUnavailable, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, errors.Wrap(remote.ErrRemoteUnavailable, "failed to read response body")
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, resp.StatusCode, errors.Wrap(remote.ErrRemoteUnavailable, "malformed response envelope")
	}

	if !env.Success {
		return nil, resp.StatusCode, classify(resp.StatusCode, &env)
	}

	return env.Data, resp.StatusCode, nil
}

// classify maps an API error envelope onto the client error taxonomy.
func classify(status int, env *envelope) error {
	code := ""
	details := ""
	if env.Error != nil {
		code = env.Error.Code
		details = env.Error.Details
	}

	switch code {
	case "INVALID_CREDENTIALS", "REFRESH_TOKEN_INVALID":
		return remote.ErrInvalidCredentials
	case "EMAIL_ALREADY_EXISTS":
		return remote.ErrDuplicateEmail
	case "PASSWORD_STRENGTH":
		return remote.ErrWeakCredential
	case "VALIDATION_FAILED":
		return &remote.ValidationError{General: firstNonEmpty(details, env.Message)}
	case "ADDRESS_NOT_FOUND", "USER_NOT_FOUND", "SESSION_NOT_FOUND", "NOT_FOUND":
		return remote.ErrNotFound
	}

	if status == http.StatusNotFound {
		return remote.ErrNotFound
	}
	if status == http.StatusBadRequest {
		return &remote.ValidationError{General: firstNonEmpty(details, env.Message)}
	}

	return errors.Wrapf(remote.ErrRemoteUnavailable, "status %d: %s", status, firstNonEmpty(env.Message, code))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

func decodeRows(data json.RawMessage) ([]remote.Row, error) {
	var rows []remote.Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.Wrap(remote.ErrRemoteUnavailable, "malformed row set")
	}

	return rows, nil
}

func decodeRow(data json.RawMessage) (remote.Row, error) {
	var row remote.Row
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, errors.Wrap(remote.ErrRemoteUnavailable, "malformed row")
	}

	return row, nil
}

func decodeSingleRow(data json.RawMessage) ([]remote.Row, error) {
	row, err := decodeRow(data)
	if err != nil {
		return nil, err
	}

	return []remote.Row{row}, nil
}
