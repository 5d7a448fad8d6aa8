package service

import (
	"context"
)

// AddressEvent represents an address mutation published for async processing,
// e.g. push-notification fan-out after a favorite is added.
type AddressEvent struct {
	RequestID   string  `json:"request_id,omitempty"` // For distributed tracing
	Action      string  `json:"action"`               // "created", "updated" or "deleted"
	AddressID   string  `json:"address_id"`
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	FullAddress string  `json:"full_address"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	IsFavorite  bool    `json:"is_favorite"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishAddressEvent publishes an address mutation event for async processing
	PublishAddressEvent(ctx context.Context, event *AddressEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
