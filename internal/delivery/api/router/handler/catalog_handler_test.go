package handler

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"restaurandes/config"
	"restaurandes/internal/domain/entity"
	domainerrors "restaurandes/internal/domain/errors"
	"restaurandes/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func newCatalogTestHandler(f *handlerFixture, pubsub *config.PubSubConfig) *CatalogHandler {
	cfg := testConfig()
	cfg.PubSub = pubsub

	return NewCatalogHandler(CatalogHandlerParams{
		Config:    cfg,
		CatalogUC: f.catalogUC,
		Logger:    discardLogger(),
	})
}

func pushBody(data string) string {
	return `{"message":{"data":"` + data + `","attributes":{"request_id":"push-req"},"messageId":"42","publishTime":"2025-03-14T12:00:00Z"},"subscription":"projects/p/subscriptions/catalog"}`
}

func encodedEvent(json string) string {
	return base64.StdEncoding.EncodeToString([]byte(json))
}

func TestCatalogHandler_HealthCheck(t *testing.T) {
	f := newHandlerFixture(t)
	h := newCatalogTestHandler(f, nil)

	rec := f.serve(t, http.MethodGet, "/health", "/health", h.HealthCheck)

	require.Equal(t, http.StatusOK, rec.Code)
	health := decodeData[map[string]any](t, rec)
	assert.Equal(t, "ok", health["status"])
	assert.EqualValues(t, 1, health["catalog_version"])
}

func TestCatalogHandler_Refresh(t *testing.T) {
	f := newHandlerFixture(t)
	h := newCatalogTestHandler(f, nil)
	f.source.EXPECT().FetchAll(mock.Anything).Return(fixtureRestaurants()[:1], nil).Once()

	rec := f.serve(t, http.MethodPost, "/api/v1/catalog/refresh", "/api/v1/catalog/refresh", h.Refresh)

	require.Equal(t, http.StatusOK, rec.Code)
	changed := decodeData[entity.SnapshotChanged](t, rec)
	assert.Equal(t, uint64(2), changed.Version)
	assert.Equal(t, 1, changed.Count)
	assert.Len(t, f.discoveryUC.GetAll(), 1)
}

func TestCatalogHandler_RefreshFailure(t *testing.T) {
	f := newHandlerFixture(t)
	h := newCatalogTestHandler(f, nil)
	f.source.EXPECT().FetchAll(mock.Anything).Return(nil, errors.New("permission denied")).Once()

	rec := f.serve(t, http.MethodPost, "/api/v1/catalog/refresh", "/api/v1/catalog/refresh", h.Refresh)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, domainerrors.ErrCatalogUnavailable.ErrorCode(), decodeError(t, rec).Code)
	assert.Len(t, f.discoveryUC.GetAll(), len(fixtureRestaurants()))
}

func TestCatalogHandler_HandlePush(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(f *handlerFixture)
		wantStatus int
	}{
		{
			name: "refreshes on change event",
			body: pushBody(encodedEvent(`{"reason":"updated","restaurant_ids":["andes-cafe"]}`)),
			setup: func(f *handlerFixture) {
				f.source.EXPECT().FetchAll(mock.Anything).Return(fixtureRestaurants(), nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "empty data still refreshes",
			body: pushBody(""),
			setup: func(f *handlerFixture) {
				f.source.EXPECT().FetchAll(mock.Anything).Return(fixtureRestaurants(), nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "unavailable provider asks for redelivery",
			body: pushBody(encodedEvent(`{"reason":"updated"}`)),
			setup: func(f *handlerFixture) {
				f.source.EXPECT().FetchAll(mock.Anything).Return(nil, errors.New("unavailable")).Once()
			},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "invalid base64",
			body:       pushBody("%%%"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid event json",
			body:       pushBody(encodedEvent(`{"reason":`)),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid envelope",
			body:       `{"message":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}
			h := newCatalogTestHandler(f, &config.PubSubConfig{Provider: "noop"})

			rec := f.serve(t, http.MethodPost, "/api/v1/catalog/push", "/api/v1/catalog/push", h.HandlePush, withBody(tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCatalogHandler_HandlePushVerifiesToken(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		issuer     string
		validErr   error
		wantStatus int
	}{
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "google issued token",
			authHeader: "Bearer oidc-token",
			issuer:     "https://accounts.google.com",
			wantStatus: http.StatusOK,
		},
		{
			name:       "foreign issuer",
			authHeader: "Bearer oidc-token",
			issuer:     "https://evil.example.com",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid signature",
			authHeader: "Bearer oidc-token",
			validErr:   errors.New("invalid signature"),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t)
			h := newCatalogTestHandler(f, &config.PubSubConfig{
				Provider:     "google",
				VerifyPush:   true,
				PushAudience: "https://api.restaurandes.example/api/v1/catalog/push",
			})
			h.validateToken = func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
				assert.Equal(t, "oidc-token", token)
				assert.Equal(t, "https://api.restaurandes.example/api/v1/catalog/push", audience)
				if tt.validErr != nil {
					return nil, tt.validErr
				}

				return &idtoken.Payload{Issuer: tt.issuer, Claims: map[string]any{"email_verified": true}}, nil
			}
			if tt.wantStatus == http.StatusOK {
				f.source.EXPECT().FetchAll(mock.Anything).Return(fixtureRestaurants(), nil).Once()
			}

			opts := []func(*http.Request){withBody(pushBody(""))}
			if tt.authHeader != "" {
				opts = append(opts, withHeader(echo.HeaderAuthorization, tt.authHeader))
			}
			rec := f.serve(t, http.MethodPost, "/api/v1/catalog/push", "/api/v1/catalog/push", h.HandlePush, opts...)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
