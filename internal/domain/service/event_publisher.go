package service

import (
	"context"
)

// Inventory event types.
const (
	EventCarCreated        = "car.created"
	EventCarDeleted        = "car.deleted"
	EventCarImagesUploaded = "car.images.uploaded"
	EventCarImageDeleted   = "car.image.deleted"
)

// InventoryEvent describes a committed change to the car inventory
type InventoryEvent struct {
	RequestID string   `json:"request_id,omitempty"` // For distributed tracing
	Type      string   `json:"type"`
	CarID     string   `json:"car_id"`
	ImageIDs  []string `json:"image_ids,omitempty"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishInventoryEvent publishes an inventory event for downstream consumers
	PublishInventoryEvent(ctx context.Context, event *InventoryEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
