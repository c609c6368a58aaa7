// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"restaurandes/internal/domain/entity"
)

// DiscoveryUsecase answers listing, filtering and ranking queries over the
// current restaurant snapshot. Every query reads the snapshot current at call
// entry and returns copies.
type DiscoveryUsecase interface {
	GetAll() []entity.Restaurant
	GetByID(id string) (*entity.Restaurant, error)
	Search(query string) []entity.Restaurant
	FilterByCategory(category string) []entity.Restaurant
	Nearby(lat, lon, radiusKm float64) ([]entity.RestaurantDistance, error)
	NearbyFromCurrentLocation(ctx context.Context, radiusKm float64) (*NearbyResult, error)
	FilterOpenNow(policy entity.OpenPolicy) []entity.Restaurant
	IsOpenNow(restaurant *entity.Restaurant, policy entity.OpenPolicy) bool
	SortByRating() []entity.Restaurant
	SortByPrice() []entity.Restaurant
	Categories() []string
	List(query *ListQuery) ([]entity.Restaurant, error)
	DefaultRadiusKm() float64
	DefaultOpenPolicy() entity.OpenPolicy
}

// SortOrder names a supported ranking for List.
type SortOrder string

const (
	SortNone   SortOrder = ""
	SortRating SortOrder = "rating"
	SortPrice  SortOrder = "price"
)

// --- Input DTOs ---

// ListQuery combines the home-screen filters. Filters are applied in the order
// category, open now, then sort.
type ListQuery struct {
	Category string            `query:"category"`
	OpenNow  bool              `query:"open"`
	Policy   entity.OpenPolicy `query:"policy"`
	Sort     SortOrder         `query:"sort"`
}

// NearbyResult is a nearby query resolved from the caller's location.
type NearbyResult struct {
	Origin      entity.Location
	RadiusKm    float64
	Restaurants []entity.RestaurantDistance
}
