package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"restaurandes/internal/delivery/api/response"
	domainerrors "restaurandes/internal/domain/errors"
	"restaurandes/internal/domain/entity"
	"restaurandes/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	formatGeoJSON      = "geojson"
	contentTypeGeoJSON = "application/geo+json"
	eventSnapshot      = "snapshot"
)

// RestaurantHandlerParams holds dependencies for RestaurantHandler, injected by Fx.
type RestaurantHandlerParams struct {
	fx.In

	DiscoveryUC usecase.DiscoveryUsecase
	CatalogUC   usecase.CatalogUsecase
	Logger      *slog.Logger
}

// RestaurantHandler serves catalog browsing and discovery queries.
type RestaurantHandler struct {
	discoveryUC usecase.DiscoveryUsecase
	catalogUC   usecase.CatalogUsecase
	logger      *slog.Logger
}

// NewRestaurantHandler is the constructor for RestaurantHandler
func NewRestaurantHandler(params RestaurantHandlerParams) *RestaurantHandler {
	return &RestaurantHandler{
		discoveryUC: params.DiscoveryUC,
		catalogUC:   params.CatalogUC,
		logger:      params.Logger,
	}
}

// SearchRequest is the query of a name search.
type SearchRequest struct {
	Query string `query:"q" validate:"max=200"`
}

// RestaurantIDRequest names a restaurant in the path.
type RestaurantIDRequest struct {
	ID string `param:"id" validate:"required,max=128"`
}

// ListRestaurants handles the combined home filters
func (h *RestaurantHandler) ListRestaurants(c echo.Context) error {
	var query usecase.ListQuery
	if err := c.Bind(&query); err != nil {
		return response.BadRequest(c, domainerrors.ErrValidationFailed.ErrorCode(), "Invalid list query")
	}

	restaurants, err := h.discoveryUC.List(&query)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toRestaurantResponses(h.discoveryUC, restaurants))
}

// SearchRestaurants handles case-insensitive name search
func (h *RestaurantHandler) SearchRestaurants(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, domainerrors.ErrValidationFailed.ErrorCode(), "Invalid search query")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequestWithDetails(c, domainerrors.ErrValidationFailed.ErrorCode(),
			domainerrors.ErrValidationFailed.Message(), err.Error())
	}

	return response.Success(c, http.StatusOK, toRestaurantResponses(h.discoveryUC, h.discoveryUC.Search(req.Query)))
}

// GetCategories returns the distinct categories of the current snapshot
func (h *RestaurantHandler) GetCategories(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.discoveryUC.Categories())
}

// GetRestaurant returns one restaurant by id
func (h *RestaurantHandler) GetRestaurant(c echo.Context) error {
	var req RestaurantIDRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, domainerrors.ErrValidationFailed.ErrorCode(), "Invalid restaurant ID")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequestWithDetails(c, domainerrors.ErrValidationFailed.ErrorCode(),
			domainerrors.ErrValidationFailed.Message(), err.Error())
	}

	restaurant, err := h.discoveryUC.GetByID(req.ID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toRestaurantResponse(restaurant, h.discoveryUC.IsOpenNow(restaurant, "")))
}

// GetNearby handles radius queries. Without lat/lon the caller's device
// location is used; radius_km defaults to the configured radius.
func (h *RestaurantHandler) GetNearby(c echo.Context) error {
	var (
		lat, lon float64
		format   string
	)
	radiusKm := h.discoveryUC.DefaultRadiusKm()

	err := echo.QueryParamsBinder(c).
		Float64("lat", &lat).
		Float64("lon", &lon).
		Float64("radius_km", &radiusKm).
		String("format", &format).
		BindError()
	if err != nil {
		return response.BadRequestWithDetails(c, domainerrors.ErrValidationFailed.ErrorCode(),
			domainerrors.ErrValidationFailed.Message(), "lat, lon and radius_km must be numbers")
	}

	hasLat, hasLon := c.QueryParam("lat") != "", c.QueryParam("lon") != ""
	if hasLat != hasLon {
		return response.BadRequestWithDetails(c, domainerrors.ErrValidationFailed.ErrorCode(),
			domainerrors.ErrValidationFailed.Message(), "lat and lon must be given together")
	}

	var result *usecase.NearbyResult
	if hasLat {
		restaurants, nearbyErr := h.discoveryUC.Nearby(lat, lon, radiusKm)
		if nearbyErr != nil {
			return response.HandleAppError(c, nearbyErr)
		}
		result = &usecase.NearbyResult{
			Origin:      entity.Location{Latitude: lat, Longitude: lon},
			RadiusKm:    radiusKm,
			Restaurants: restaurants,
		}
	} else {
		result, err = h.discoveryUC.NearbyFromCurrentLocation(c.Request().Context(), radiusKm)
		if err != nil {
			return response.HandleAppError(c, err)
		}
	}

	if strings.EqualFold(format, formatGeoJSON) {
		return h.writeGeoJSON(c, result)
	}

	return response.Success(c, http.StatusOK, toNearbyResponse(h.discoveryUC, result))
}

// StreamSnapshots pushes a server-sent event for every catalog replacement
func (h *RestaurantHandler) StreamSnapshots(c echo.Context) error {
	events := h.catalogUC.Subscribe(c.Request().Context())

	return response.Stream(c, eventSnapshot, events, response.StreamHeartbeat)
}

func (h *RestaurantHandler) writeGeoJSON(c echo.Context, result *usecase.NearbyResult) error {
	fc := geojson.NewFeatureCollection()
	for i := range result.Restaurants {
		r := &result.Restaurants[i].Restaurant
		feature := geojson.NewFeature(r.Point())
		feature.ID = r.ID
		feature.Properties = geojson.Properties{
			"name":        r.Name,
			"category":    r.Category,
			"price_range": r.PriceRange.String(),
			"rating":      r.Rating,
			"open_now":    h.discoveryUC.IsOpenNow(r, ""),
			"distance_km": result.Restaurants[i].DistanceKm,
		}
		fc.Append(feature)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, contentTypeGeoJSON, data)
}
