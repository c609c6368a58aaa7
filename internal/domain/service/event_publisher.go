package service

import (
	"context"

	"restaurandes/internal/domain/entity"
)

// FavoritesChangedEvent is the message published for every committed favorites mutation
type FavoritesChangedEvent struct {
	RequestID string `json:"request_id,omitempty"` // For distributed tracing
	entity.FavoritesChanged
}

// CatalogChangedEvent is delivered by push subscriptions when the catalog changes upstream
type CatalogChangedEvent struct {
	RequestID     string   `json:"request_id,omitempty"`
	Reason        string   `json:"reason"`
	RestaurantIDs []string `json:"restaurant_ids,omitempty"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishFavoritesChanged publishes a favorites change for downstream consumers
	PublishFavoritesChanged(ctx context.Context, event *FavoritesChangedEvent) error

	// Close releases any resources held by the publisher
	Close() error
}

// PushMessage is the envelope Pub/Sub uses when pushing to HTTP endpoints
type PushMessage struct {
	Message struct {
		Data        string            `json:"data"` // base64-encoded JSON event
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}
