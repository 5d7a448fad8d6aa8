package notification

import (
	"context"
	"log/slog"

	"pinbook/internal/domain/service"
)

// noopService is used when Firebase is not configured; notifications are
// logged and dropped.
type noopService struct {
	logger *slog.Logger
}

// NewNoopService creates a NotificationService that only logs.
func NewNoopService(logger *slog.Logger) service.NotificationService {
	return &noopService{logger: logger}
}

func (s *noopService) SendSingleNotification(ctx context.Context, token, title, body string, _ map[string]string) error {
	s.logger.DebugContext(ctx, "[NoopNotification] dropping notification",
		slog.String("token", token),
		slog.String("title", title),
		slog.String("body", body),
	)

	return nil
}

func (s *noopService) SendBatchNotification(ctx context.Context, tokens []string, title, _ string, _ map[string]string) (int, int, []string, error) {
	s.logger.DebugContext(ctx, "[NoopNotification] dropping batch notification",
		slog.Int("token_count", len(tokens)),
		slog.String("title", title),
	)

	return len(tokens), 0, nil, nil
}
