package repository

import (
	"context"

	"github.com/pkg/errors"
)

// Domain-specific errors for profile persistence.
var (
	// ErrProfileNotFound is returned when the user has no profile yet.
	ErrProfileNotFound = errors.New("user profile not found")
)

// ProfileRepository is the system of record for each user's favorite restaurants.
// It only exposes full-set writes; there is no conditional update.
type ProfileRepository interface {
	// GetFavorites returns the stored favorite ids in order, or ErrProfileNotFound.
	GetFavorites(ctx context.Context, userID string) ([]string, error)

	// SaveFavorites replaces the stored favorite ids, creating the profile if needed.
	SaveFavorites(ctx context.Context, userID string, restaurantIDs []string) error
}
