package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"restaurandes/config"
	"restaurandes/internal/delivery/api/response"
	"restaurandes/internal/delivery/api/validator"
	deliverycontext "restaurandes/internal/delivery/context"
	"restaurandes/internal/domain/entity"
	"restaurandes/internal/infra/store"
	mockRepo "restaurandes/internal/mocks/repository"
	mockService "restaurandes/internal/mocks/service"
	"restaurandes/internal/usecase"
	"restaurandes/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

type handlerFixture struct {
	echo      *echo.Echo
	source    *mockRepo.MockRestaurantSource
	profiles  *mockRepo.MockProfileRepository
	publisher *mockService.MockEventPublisher
	location  *mockService.MockLocationProvider

	discoveryUC usecase.DiscoveryUsecase
	catalogUC   usecase.CatalogUsecase
	favoritesUC usecase.FavoritesUsecase
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Discovery: &config.DiscoveryConfig{
			DefaultRadiusKm: 5,
			MaxRadiusKm:     50,
			OpenPolicy:      "flag",
			TimeZone:        "America/Bogota",
		},
		Favorites: &config.FavoritesConfig{
			WriteTimeout: time.Second,
			MaxSessions:  10,
			SessionTTL:   time.Minute,
		},
		PubSub: &config.PubSubConfig{Provider: "noop"},
	}
}

func fixtureRestaurants() []*entity.Restaurant {
	return []*entity.Restaurant{
		{
			ID: "andes-cafe", Name: "Andes Café", Category: "Café",
			Latitude: 4.6017, Longitude: -74.0659,
			Rating: 4.2, PriceRange: entity.PriceTierBudget, IsOpen: true,
			Tags: []string{"coffee"},
		},
		{
			ID: "la-pizzeria", Name: "La Pizzería", Category: "Italiana",
			Latitude: 4.6097, Longitude: -74.0700,
			Rating: 4.8, PriceRange: entity.PriceTierExpensive, IsOpen: false,
		},
		{
			ID: "usaquen-grill", Name: "Usaquén Grill", Category: "Parrilla",
			Latitude: 4.6950, Longitude: -74.0300,
			Rating: 3.9, PriceRange: entity.PriceTierModerate, IsOpen: true,
		},
	}
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	cfg := testConfig()
	logger := discardLogger()

	restaurantStore := store.NewRestaurantStore(logger)
	restaurantStore.ReplaceAll(fixtureRestaurants())

	f := &handlerFixture{
		source:    mockRepo.NewMockRestaurantSource(t),
		profiles:  mockRepo.NewMockProfileRepository(t),
		publisher: mockService.NewMockEventPublisher(t),
		location:  mockService.NewMockLocationProvider(t),
	}

	discoveryUC, err := impl.NewDiscoveryService(impl.DiscoveryServiceParams{
		Store:            restaurantStore,
		LocationProvider: f.location,
		Config:           cfg,
		Logger:           logger,
	})
	require.NoError(t, err)
	f.discoveryUC = discoveryUC

	f.catalogUC = impl.NewCatalogService(impl.CatalogServiceParams{
		Store:  restaurantStore,
		Source: f.source,
		Logger: logger,
	})

	f.favoritesUC = impl.NewFavoritesService(impl.FavoritesServiceParams{
		Lifecycle:   fxtest.NewLifecycle(t),
		ProfileRepo: f.profiles,
		Publisher:   f.publisher,
		Config:      cfg,
		Logger:      logger,
	})

	f.echo = echo.New()
	f.echo.Validator = validator.New()

	return f
}

// serve runs handler for a request whose path params are bound from pattern.
func (f *handlerFixture) serve(t *testing.T, method, pattern, target string, handler echo.HandlerFunc, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()

	e := echo.New()
	e.Validator = f.echo.Validator
	e.Add(method, pattern, handler, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if userID := c.Request().Header.Get(testUserHeader); userID != "" {
				deliverycontext.SetIdentity(c, &entity.Identity{UserID: userID, Provider: "jwt"})
			}

			return next(c)
		}
	})
	e.ServeHTTP(rec, req)

	return rec
}

const testUserHeader = "X-Test-User"

func asUser(userID string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set(testUserHeader, userID)
	}
}

func withHeader(key, value string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set(key, value)
	}
}

func withBody(body string) func(*http.Request) {
	return func(req *http.Request) {
		req.Body = io.NopCloser(strings.NewReader(body))
		req.ContentLength = int64(len(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	return envelope.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorInfo {
	t.Helper()

	var envelope response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)

	return *envelope.Error
}
