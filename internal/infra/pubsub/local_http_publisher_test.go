package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"restaurandes/config"
	"restaurandes/internal/domain/entity"
	"restaurandes/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleEvent() *service.FavoritesChangedEvent {
	return &service.FavoritesChangedEvent{
		RequestID: "req-1",
		FavoritesChanged: entity.FavoritesChanged{
			UserID:       "u1",
			Action:       entity.FavoriteActionAdd,
			RestaurantID: "cafe",
			Changed:      true,
			Favorites:    []string{"cafe"},
			Version:      3,
			OccurredAt:   time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestLocalHTTPPublisher_PostsPushEnvelope(t *testing.T) {
	var received service.PushMessage
	var requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, discardLogger())

	require.NoError(t, publisher.PublishFavoritesChanged(context.Background(), sampleEvent()))

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, localSubscription, received.Subscription)
	assert.NotEmpty(t, received.Message.MessageID)
	assert.Equal(t, "u1", received.Message.Attributes["user_id"])
	assert.Equal(t, "add", received.Message.Attributes["action"])
	assert.Equal(t, "3", received.Message.Attributes["version"])

	data, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)

	var decoded service.FavoritesChangedEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sampleEvent().FavoritesChanged, decoded.FavoritesChanged)
	assert.Equal(t, "req-1", decoded.RequestID)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, discardLogger())

	err := publisher.PublishFavoritesChanged(context.Background(), sampleEvent())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestNewEventPublisher_Noop(t *testing.T) {
	publisher, err := NewEventPublisher(PublisherParams{
		Ctx:    context.Background(),
		Config: &config.Config{PubSub: &config.PubSubConfig{Provider: "noop"}},
		Logger: discardLogger(),
	})

	require.NoError(t, err)
	assert.NoError(t, publisher.PublishFavoritesChanged(context.Background(), sampleEvent()))
	assert.NoError(t, publisher.Close())
}

func TestNewEventPublisher_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.PubSubConfig
	}{
		{name: "local without endpoint", cfg: &config.PubSubConfig{Provider: "local"}},
		{name: "google without project", cfg: &config.PubSubConfig{Provider: "google", TopicID: "favorites"}},
		{name: "google without topic", cfg: &config.PubSubConfig{Provider: "google", ProjectID: "restaurandes"}},
		{name: "unknown provider", cfg: &config.PubSubConfig{Provider: "kafka"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEventPublisher(PublisherParams{
				Ctx:    context.Background(),
				Config: &config.Config{PubSub: tt.cfg},
				Logger: discardLogger(),
			})

			assert.Error(t, err)
		})
	}
}
