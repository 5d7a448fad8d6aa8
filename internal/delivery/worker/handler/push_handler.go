// Package handler contains the Pub/Sub push handler for the worker.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"pinbook/config"
	deliverycontext "pinbook/internal/delivery/context"
	"pinbook/internal/domain/constants"
	"pinbook/internal/domain/entity"
	"pinbook/internal/domain/repository"
	"pinbook/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// retryableError wraps an error to indicate it should trigger a Pub/Sub retry
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// newRetryableError wraps an error as retryable
func newRetryableError(err error) error {
	return &retryableError{err: err}
}

// isRetryableError checks if an error is retryable
func isRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// PushHandler handles Pub/Sub push messages carrying address events and
// fans them out as push notifications to the owner's logged-in devices.
type PushHandler struct {
	verifyPushAuth  bool
	logger          *slog.Logger
	notificationSvc service.NotificationService
	sessionRepo     repository.RefreshTokenRepository
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config          *config.Config
	Logger          *slog.Logger
	NotificationSvc service.NotificationService
	SessionRepo     repository.RefreshTokenRepository
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	// Google signs its push requests; verify everywhere except local development
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	return &PushHandler{
		verifyPushAuth:  verifyPushAuth,
		logger:          params.Logger,
		notificationSvc: params.NotificationSvc,
		sessionRepo:     params.SessionRepo,
	}
}

// HandlePush handles incoming Pub/Sub push messages
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event service.AddressEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse address event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	// Carry the API request's ID through for distributed tracing
	requestID := h.extractRequestID(ctx, &pushMsg, &event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))

	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Processing address event",
		slog.String("action", event.Action),
		slog.String("address_id", event.AddressID),
		slog.String("user_id", event.UserID),
	)

	if err := h.processAddressEvent(ctx, reqLogger, &event); err != nil {
		reqLogger.Error("[Worker] Failed to process address event",
			slog.String("address_id", event.AddressID),
			slog.Any("error", err),
			slog.Bool("retryable", isRetryableError(err)),
		)
		// 503 triggers a Pub/Sub retry; anything else is acknowledged so a
		// poison message cannot loop forever
		if isRetryableError(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	return c.NoContent(http.StatusOK)
}

// extractRequestID extracts request_id from message attributes, event, or generates a new one
func (h *PushHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage, event *service.AddressEvent) string {
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	if event.RequestID != "" {
		return event.RequestID
	}

	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// processAddressEvent pushes the mutation to every live device session of
// the address owner so their other phones refresh the address book.
func (h *PushHandler) processAddressEvent(ctx context.Context, logger *slog.Logger, event *service.AddressEvent) error {
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return errors.Wrap(err, "invalid user id in event")
	}

	sessions, err := h.sessionRepo.FindRefreshTokensByUserID(ctx, userID)
	if err != nil {
		return newRetryableError(errors.Wrap(err, "failed to load device sessions"))
	}

	tokens := collectFCMTokens(sessions, time.Now())
	if len(tokens) == 0 {
		logger.Info("[Worker] No push-capable devices for user",
			slog.String("user_id", event.UserID),
		)

		return nil
	}

	title, body, data := prepareNotificationContent(event)

	sent, failed, invalidTokens, sendErr := h.notificationSvc.SendBatchNotification(ctx, tokens, title, body, data)
	if sendErr != nil {
		// FCM rejections are not transient; acknowledge the message
		logger.Error("[Worker] Failed to send notifications",
			slog.String("address_id", event.AddressID),
			slog.Any("error", sendErr),
		)

		return nil
	}

	logger.Info("[Worker] Address event fan-out completed",
		slog.String("address_id", event.AddressID),
		slog.Int("sent", sent),
		slog.Int("failed", failed),
		slog.Int("invalid_tokens", len(invalidTokens)),
	)

	return nil
}

// collectFCMTokens gathers the distinct FCM tokens of live sessions.
func collectFCMTokens(sessions []*entity.RefreshToken, now time.Time) []string {
	seen := make(map[string]struct{}, len(sessions))
	tokens := make([]string, 0, len(sessions))
	for _, session := range sessions {
		if session.FCMToken == "" || session.ExpiresAt.Before(now) {
			continue
		}
		if _, ok := seen[session.FCMToken]; ok {
			continue
		}
		seen[session.FCMToken] = struct{}{}
		tokens = append(tokens, session.FCMToken)
	}

	return tokens
}

// prepareNotificationContent renders the notification for the mobile client,
// in the app's market language.
func prepareNotificationContent(event *service.AddressEvent) (title, body string, data map[string]string) {
	switch event.Action {
	case "created":
		title = "Yeni adres kaydedildi"
		body = fmt.Sprintf("%q adres defterinize eklendi", event.Title)
	case "deleted":
		title = "Adres silindi"
		body = fmt.Sprintf("%q adres defterinizden silindi", event.Title)
	default:
		title = "Adres güncellendi"
		body = fmt.Sprintf("%q adresi güncellendi", event.Title)
	}

	data = map[string]string{
		"action":       event.Action,
		"address_id":   event.AddressID,
		"title":        event.Title,
		"full_address": event.FullAddress,
		"latitude":     fmt.Sprintf("%f", event.Latitude),
		"longitude":    fmt.Sprintf("%f", event.Longitude),
		"is_favorite":  fmt.Sprintf("%t", event.IsFavorite),
	}

	return title, body, data
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// The audience must be the URL of this push endpoint
	scheme := "https"
	if req.TLS == nil {
		scheme = "http" // For local development
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	ctx := req.Context()
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
