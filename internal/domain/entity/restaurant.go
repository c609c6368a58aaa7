// Package entity contains the core business objects of the project.
package entity

import (
	"slices"
	"time"

	"github.com/paulmach/orb"
)

// Restaurant is a single catalog record. Values handed out by the store are
// copies, so callers may keep or modify them freely.
type Restaurant struct {
	ID           string    // Unique within a snapshot.
	Name         string    // Display name.
	Description  string    // Free text shown in the detail view.
	Category     string    // Cuisine or venue type, e.g. "Café".
	Address      string    // Human-readable street address.
	Phone        string    // Contact phone number.
	OpeningHours string    // Free-form hours, e.g. "8:00 AM - 10:00 PM".
	PriceRange   PriceTier // "$" to "$$$$".
	Rating       float64   // 0 to 5, advisory.
	ReviewCount  int       // Number of reviews behind Rating.
	ImageURL     string    // Cover image.
	Latitude     float64   // WGS84 latitude in degrees.
	Longitude    float64   // WGS84 longitude in degrees.
	IsOpen       bool      // Open flag as persisted by the data provider.
	LastUpdated  time.Time // Last modification reported by the data provider.
	Tags         []string  // Ordered labels, e.g. "vegetarian".
}

// Point returns the restaurant position as an orb point (lon, lat).
func (r *Restaurant) Point() orb.Point {
	return orb.Point{r.Longitude, r.Latitude}
}

// Clone returns a deep copy of the restaurant.
func (r *Restaurant) Clone() *Restaurant {
	if r == nil {
		return nil
	}

	cloned := *r
	cloned.Tags = slices.Clone(r.Tags)

	return &cloned
}

// RestaurantDistance pairs a restaurant with its distance from a query origin.
type RestaurantDistance struct {
	Restaurant Restaurant
	DistanceKm float64
}

// SnapshotChanged is emitted whenever the restaurant snapshot is replaced.
type SnapshotChanged struct {
	Version    uint64    `json:"version"`     // Monotonic snapshot version, starting at 1.
	Count      int       `json:"count"`       // Restaurants in the new snapshot.
	Duplicates int       `json:"duplicates"`  // Records that replaced an earlier record with the same id.
	Dropped    int       `json:"dropped"`     // Records rejected for a missing id.
	ReplacedAt time.Time `json:"replaced_at"` // When the swap happened.
}
