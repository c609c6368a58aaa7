// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"restaurandes/internal/delivery/api/middleware"
	"restaurandes/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	RestaurantHandler *handler.RestaurantHandler
	FavoritesHandler  *handler.FavoritesHandler
	CatalogHandler    *handler.CatalogHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	restaurantHandler *handler.RestaurantHandler
	favoritesHandler  *handler.FavoritesHandler
	catalogHandler    *handler.CatalogHandler
	authMiddleware    *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		restaurantHandler: params.RestaurantHandler,
		favoritesHandler:  params.FavoritesHandler,
		catalogHandler:    params.CatalogHandler,
		authMiddleware:    params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", r.catalogHandler.HealthCheck)

	apiV1 := e.Group("/api/v1")

	// Public catalog browsing
	restaurantsGroup := apiV1.Group("/restaurants")
	{
		restaurantsGroup.GET("", r.restaurantHandler.ListRestaurants)
		restaurantsGroup.GET("/search", r.restaurantHandler.SearchRestaurants)
		restaurantsGroup.GET("/categories", r.restaurantHandler.GetCategories)
		restaurantsGroup.GET("/nearby", r.restaurantHandler.GetNearby, middleware.DeviceLocation)
		restaurantsGroup.GET("/stream", r.restaurantHandler.StreamSnapshots)
		restaurantsGroup.GET("/:id", r.restaurantHandler.GetRestaurant)
	}

	// Catalog sync triggers
	catalogGroup := apiV1.Group("/catalog")
	{
		catalogGroup.POST("/refresh", r.catalogHandler.Refresh)
		catalogGroup.POST("/push", r.catalogHandler.HandlePush)
	}

	// Session and favorites require a signed-in user
	sessionGroup := apiV1.Group("/session")
	sessionGroup.Use(r.authMiddleware.Authenticate)
	{
		sessionGroup.POST("", r.favoritesHandler.StartSession)
		sessionGroup.DELETE("", r.favoritesHandler.EndSession)
	}

	favoritesGroup := apiV1.Group("/favorites")
	favoritesGroup.Use(r.authMiddleware.Authenticate)
	{
		favoritesGroup.GET("", r.favoritesHandler.ListFavorites)
		favoritesGroup.GET("/stream", r.favoritesHandler.StreamFavorites)
		favoritesGroup.PUT("/:restaurantId", r.favoritesHandler.AddFavorite)
		favoritesGroup.DELETE("/:restaurantId", r.favoritesHandler.RemoveFavorite)
		favoritesGroup.POST("/:restaurantId/toggle", r.favoritesHandler.ToggleFavorite)
	}
}
