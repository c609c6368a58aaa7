package pubsub

import (
	"strconv"

	"restaurandes/internal/domain/service"
)

// eventAttributes lets subscribers filter on user and action without decoding the payload.
func eventAttributes(event *service.FavoritesChangedEvent) map[string]string {
	attributes := map[string]string{
		"event_type": "favorites.changed",
		"user_id":    event.UserID,
		"action":     string(event.Action),
		"version":    strconv.FormatUint(event.Version, 10),
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return attributes
}
