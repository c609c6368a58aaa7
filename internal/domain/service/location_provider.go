package service

import (
	"context"

	"restaurandes/internal/domain/entity"
)

// LocationProvider resolves the caller's current position.
type LocationProvider interface {
	// CurrentLocation returns the position or a domain error
	// (ErrLocationPermissionDenied, ErrLocationUnavailable).
	CurrentLocation(ctx context.Context) (*entity.Location, error)
}
