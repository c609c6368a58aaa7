package impl

import (
	"io"
	"log/slog"
	"time"

	"restaurandes/internal/domain/entity"
	"restaurandes/internal/domain/repository"
	"restaurandes/internal/infra/store"
)

var bogotaZone = time.FixedZone("COT", -5*60*60)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bogotaTime(hour, minute int) time.Time {
	return time.Date(2025, time.March, 14, hour, minute, 0, 0, bogotaZone)
}

func newSeededStore(restaurants []*entity.Restaurant) repository.RestaurantStore {
	s := store.NewRestaurantStore(discardLogger())
	s.ReplaceAll(restaurants)

	return s
}

func restaurantIDs(restaurants []entity.Restaurant) []string {
	out := make([]string, 0, len(restaurants))
	for _, r := range restaurants {
		out = append(out, r.ID)
	}

	return out
}

func distanceIDs(results []entity.RestaurantDistance) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Restaurant.ID)
	}

	return out
}

// sampleRestaurants is a small Bogotá catalog around the Uniandes campus.
func sampleRestaurants() []*entity.Restaurant {
	return []*entity.Restaurant{
		{
			ID: "cafe", Name: "Café", Category: "Café",
			Latitude: 4.6017, Longitude: -74.0659,
			Rating: 4.2, PriceRange: "$", OpeningHours: "7:00 AM - 7:00 PM", IsOpen: true,
			Tags: []string{"coffee"},
		},
		{
			ID: "pizza", Name: "Pizza", Category: "Italian",
			Latitude: 4.6287, Longitude: -74.0659,
			Rating: 4.8, PriceRange: "$$$", OpeningHours: "11 PM–2 AM", IsOpen: true,
			Tags: []string{"late night"},
		},
		{
			ID: "arepas", Name: "Arepas La 19", Description: "Arepas rellenas", Category: "colombiana",
			Latitude: 4.6050, Longitude: -74.0700,
			Rating: 4.2, PriceRange: "$", OpeningHours: "Call ahead", IsOpen: true,
			Tags: []string{"CAFÉ con leche"},
		},
		{
			ID: "sushi", Name: "Sushi Gourmet", Category: "Japanese",
			Latitude: 4.6760, Longitude: -74.0480,
			Rating: 3.9, PriceRange: "$$$$", OpeningHours: "12:00 - 22:00", IsOpen: false,
		},
		{
			ID: "mystery", Name: "Mystery Spot", Category: "café",
			Latitude: 4.6017, Longitude: -74.0659,
			Rating: 4.2, PriceRange: "€", IsOpen: false,
		},
	}
}
