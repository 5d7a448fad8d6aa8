package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"pinbook/config"
	"pinbook/internal/delivery"
	"pinbook/internal/delivery/worker"
	"pinbook/internal/delivery/worker/handler"
	"pinbook/internal/domain/constants"
	"pinbook/internal/domain/service"
	logs "pinbook/internal/infra/log"
	"pinbook/internal/infra/notification"
	"pinbook/internal/infra/persistence/postgres"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
		postgres.NewRefreshTokenRepository,
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			newNotificationService,
		),
	)
}

// newNotificationService creates the Firebase service, or a logging no-op
// when Firebase is not configured in local development
func newNotificationService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.NotificationService, error) {
	if cfg.Firebase == nil {
		if cfg.Env.Env != constants.EnvDevelop {
			return nil, fmt.Errorf("firebase configuration is required for the worker")
		}
		logger.Warn("Firebase not configured, notifications will be dropped")

		return notification.NewNoopService(logger), nil
	}

	svc, err := notification.NewFirebaseService(ctx, cfg.Firebase.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firebase service: %w", err)
	}

	return svc, nil
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewPushHandler,
			fx.Annotate(
				worker.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
