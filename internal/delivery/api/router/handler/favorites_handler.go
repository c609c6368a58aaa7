package handler

import (
	"log/slog"
	"net/http"

	"restaurandes/internal/delivery/api/middleware"
	"restaurandes/internal/delivery/api/response"
	domainerrors "restaurandes/internal/domain/errors"
	"restaurandes/internal/domain/entity"
	"restaurandes/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const eventFavorites = "favorites"

// FavoritesHandlerParams holds dependencies for FavoritesHandler, injected by Fx.
type FavoritesHandlerParams struct {
	fx.In

	FavoritesUC usecase.FavoritesUsecase
	DiscoveryUC usecase.DiscoveryUsecase
	Logger      *slog.Logger
}

// FavoritesHandler serves the signed-in user's favorites session.
type FavoritesHandler struct {
	favoritesUC usecase.FavoritesUsecase
	discoveryUC usecase.DiscoveryUsecase
	logger      *slog.Logger
}

// NewFavoritesHandler is the constructor for FavoritesHandler
func NewFavoritesHandler(params FavoritesHandlerParams) *FavoritesHandler {
	return &FavoritesHandler{
		favoritesUC: params.FavoritesUC,
		discoveryUC: params.DiscoveryUC,
		logger:      params.Logger,
	}
}

// FavoriteRequest names the restaurant being changed.
type FavoriteRequest struct {
	RestaurantID string `param:"restaurantId" validate:"required,max=128"`
}

// StartSession handles the sign-in event and loads the user's favorites
func (h *FavoritesHandler) StartSession(c echo.Context) error {
	coordinator, err := h.session(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	favorites := coordinator.Favorites()

	return response.Success(c, http.StatusOK, FavoritesResponse{
		UserID:    favorites.UserID,
		State:     coordinator.State(),
		Favorites: favorites.RestaurantIDs,
	})
}

// EndSession handles the sign-out event
func (h *FavoritesHandler) EndSession(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.HandleAppError(c, domainerrors.ErrNotLoggedIn)
	}

	h.favoritesUC.EndSession(userID)

	return response.Success(c, http.StatusOK, FavoritesResponse{
		UserID:    userID,
		State:     entity.SessionLoggedOut,
		Favorites: []string{},
	})
}

// ListFavorites returns the favorite ids with the details of every restaurant
// still present in the catalog
func (h *FavoritesHandler) ListFavorites(c echo.Context) error {
	coordinator, err := h.session(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	favorites := coordinator.Favorites()
	restaurants := make([]entity.Restaurant, 0, favorites.Len())
	for _, id := range favorites.RestaurantIDs {
		restaurant, getErr := h.discoveryUC.GetByID(id)
		if errors.Is(getErr, domainerrors.ErrRestaurantNotFound) {
			continue
		}
		if getErr != nil {
			return response.HandleAppError(c, getErr)
		}
		restaurants = append(restaurants, *restaurant)
	}

	return response.Success(c, http.StatusOK, FavoriteRestaurantsResponse{
		Favorites:   favorites.RestaurantIDs,
		Restaurants: toRestaurantResponses(h.discoveryUC, restaurants),
	})
}

// StreamFavorites pushes a server-sent event for every committed mutation
func (h *FavoritesHandler) StreamFavorites(c echo.Context) error {
	coordinator, err := h.session(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	events := coordinator.Subscribe(c.Request().Context())

	return response.Stream(c, eventFavorites, events, response.StreamHeartbeat)
}

// AddFavorite marks a restaurant as favorite
func (h *FavoritesHandler) AddFavorite(c echo.Context) error {
	return h.mutate(c, func(coordinator usecase.FavoritesCoordinator, id string) (bool, error) {
		return true, coordinator.Add(c.Request().Context(), id)
	})
}

// RemoveFavorite unmarks a restaurant
func (h *FavoritesHandler) RemoveFavorite(c echo.Context) error {
	return h.mutate(c, func(coordinator usecase.FavoritesCoordinator, id string) (bool, error) {
		return false, coordinator.Remove(c.Request().Context(), id)
	})
}

// ToggleFavorite flips the favorite state of a restaurant
func (h *FavoritesHandler) ToggleFavorite(c echo.Context) error {
	return h.mutate(c, func(coordinator usecase.FavoritesCoordinator, id string) (bool, error) {
		return coordinator.Toggle(c.Request().Context(), id)
	})
}

func (h *FavoritesHandler) mutate(c echo.Context, apply func(coordinator usecase.FavoritesCoordinator, restaurantID string) (bool, error)) error {
	var req FavoriteRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, domainerrors.ErrValidationFailed.ErrorCode(), "Invalid restaurant ID")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequestWithDetails(c, domainerrors.ErrValidationFailed.ErrorCode(),
			domainerrors.ErrValidationFailed.Message(), err.Error())
	}

	coordinator, err := h.session(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	isFavorite, err := apply(coordinator, req.RestaurantID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, FavoriteStatusResponse{
		RestaurantID: req.RestaurantID,
		IsFavorite:   isFavorite,
		Favorites:    coordinator.Favorites().RestaurantIDs,
	})
}

func (h *FavoritesHandler) session(c echo.Context) (usecase.FavoritesCoordinator, error) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return nil, errors.WithStack(domainerrors.ErrNotLoggedIn)
	}

	coordinator, err := h.favoritesUC.Session(c.Request().Context(), userID)
	if err != nil {
		return nil, err
	}

	return coordinator, nil
}
