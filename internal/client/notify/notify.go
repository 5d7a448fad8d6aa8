// Package notify is the best-effort user notification side channel.
// Mutation flows call it after a successful write; a failed notification
// must never fail the write, so callers ignore the returned error beyond
// logging it.
package notify

import (
	"context"
	"log/slog"
)

// Notifier delivers a short user-visible notification.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// SlogNotifier writes notifications to the structured log. It stands in for
// a platform notification bridge during development and in the CLI.
type SlogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier creates a Notifier backed by the given logger.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logger}
}

// Notify implements Notifier.
func (n *SlogNotifier) Notify(ctx context.Context, title, body string) error {
	n.logger.InfoContext(ctx, "notification",
		slog.String("title", title),
		slog.String("body", body))

	return nil
}

// NoopNotifier discards every notification. Used in tests.
type NoopNotifier struct{}

// NewNoopNotifier creates a Notifier that does nothing.
func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

// Notify implements Notifier.
func (n *NoopNotifier) Notify(_ context.Context, _, _ string) error {
	return nil
}
