package handler

import (
	"time"

	"restaurandes/internal/domain/entity"
	"restaurandes/internal/usecase"
	"restaurandes/internal/util"
)

// RestaurantResponse is the JSON view of a restaurant.
type RestaurantResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category"`
	Address      string    `json:"address,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	OpeningHours string    `json:"opening_hours,omitempty"`
	PriceRange   string    `json:"price_range"`
	Rating       float64   `json:"rating"`
	ReviewCount  int       `json:"review_count"`
	ImageURL     string    `json:"image_url,omitempty"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	IsOpen       bool      `json:"is_open"`  // stored flag
	OpenNow      bool      `json:"open_now"` // evaluated with the default policy
	LastUpdated  time.Time `json:"last_updated"`
	Tags         []string  `json:"tags"`
}

// NearbyRestaurantResponse adds the distance from the query origin.
type NearbyRestaurantResponse struct {
	RestaurantResponse
	DistanceKm    float64 `json:"distance_km"`
	DistanceLabel string  `json:"distance_label"` // "850 m", "1.2 km"
}

// NearbyResponse is the result of a nearby query.
type NearbyResponse struct {
	Origin      LocationResponse           `json:"origin"`
	RadiusKm    float64                    `json:"radius_km"`
	Restaurants []NearbyRestaurantResponse `json:"restaurants"`
}

// LocationResponse is a coordinate pair.
type LocationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FavoritesResponse describes the caller's session and favorite ids.
type FavoritesResponse struct {
	UserID    string              `json:"user_id"`
	State     entity.SessionState `json:"state"`
	Favorites []string            `json:"favorites"`
}

// FavoriteStatusResponse is returned by favorite mutations.
type FavoriteStatusResponse struct {
	RestaurantID string   `json:"restaurant_id"`
	IsFavorite   bool     `json:"is_favorite"`
	Favorites    []string `json:"favorites"`
}

// FavoriteRestaurantsResponse lists favorites with restaurant details.
type FavoriteRestaurantsResponse struct {
	Favorites   []string             `json:"favorites"`
	Restaurants []RestaurantResponse `json:"restaurants"`
}

func toRestaurantResponse(r *entity.Restaurant, openNow bool) RestaurantResponse {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}

	return RestaurantResponse{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Category:     r.Category,
		Address:      r.Address,
		Phone:        r.Phone,
		OpeningHours: r.OpeningHours,
		PriceRange:   r.PriceRange.String(),
		Rating:       r.Rating,
		ReviewCount:  r.ReviewCount,
		ImageURL:     r.ImageURL,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		IsOpen:       r.IsOpen,
		OpenNow:      openNow,
		LastUpdated:  r.LastUpdated,
		Tags:         tags,
	}
}

// toRestaurantResponses converts restaurants, evaluating open-now with the default policy.
func toRestaurantResponses(discoveryUC usecase.DiscoveryUsecase, restaurants []entity.Restaurant) []RestaurantResponse {
	out := make([]RestaurantResponse, 0, len(restaurants))
	for i := range restaurants {
		out = append(out, toRestaurantResponse(&restaurants[i], discoveryUC.IsOpenNow(&restaurants[i], "")))
	}

	return out
}

func toNearbyResponse(discoveryUC usecase.DiscoveryUsecase, result *usecase.NearbyResult) NearbyResponse {
	restaurants := make([]NearbyRestaurantResponse, 0, len(result.Restaurants))
	for i := range result.Restaurants {
		r := &result.Restaurants[i].Restaurant
		restaurants = append(restaurants, NearbyRestaurantResponse{
			RestaurantResponse: toRestaurantResponse(r, discoveryUC.IsOpenNow(r, "")),
			DistanceKm:         result.Restaurants[i].DistanceKm,
			DistanceLabel:      util.FormatDistance(result.Restaurants[i].DistanceKm),
		})
	}

	return NearbyResponse{
		Origin: LocationResponse{
			Latitude:  result.Origin.Latitude,
			Longitude: result.Origin.Longitude,
		},
		RadiusKm:    result.RadiusKm,
		Restaurants: restaurants,
	}
}
