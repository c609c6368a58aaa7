package entity

import (
	"math"
	"time"

	"github.com/paulmach/orb"
)

// Location is a device position. The core only reads it.
type Location struct {
	Latitude  float64
	Longitude float64
	Timestamp time.Time
}

// Point returns the location as an orb point (lon, lat).
func (l Location) Point() orb.Point {
	return orb.Point{l.Longitude, l.Latitude}
}

// IsValid reports whether the coordinates are finite and within WGS84 bounds.
func (l Location) IsValid() bool {
	return ValidCoordinate(l.Latitude, l.Longitude)
}

// ValidCoordinate reports whether lat/lon are finite and within WGS84 bounds.
func ValidCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}

	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
