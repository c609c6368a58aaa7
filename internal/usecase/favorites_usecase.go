package usecase

import (
	"context"

	"restaurandes/internal/domain/entity"
)

// FavoritesCoordinator owns one session's favorite set. Mutations are
// serialized and written through to the profile store before they become
// visible; reads never wait for a mutation in flight.
type FavoritesCoordinator interface {
	// Load signs the user in and reads their favorites, creating an empty
	// profile when none exists.
	Load(ctx context.Context, userID string) error

	// Logout clears the session and closes subscriber streams.
	Logout()

	Add(ctx context.Context, restaurantID string) error
	Remove(ctx context.Context, restaurantID string) error

	// Toggle flips membership and reports whether the restaurant is now a favorite.
	Toggle(ctx context.Context, restaurantID string) (bool, error)

	IsFavorite(restaurantID string) bool
	Favorites() entity.UserFavorites
	State() entity.SessionState

	// Subscribe streams the full set after every committed mutation.
	Subscribe(ctx context.Context) <-chan entity.FavoritesChanged
}

// FavoritesUsecase keeps one coordinator per signed-in user.
type FavoritesUsecase interface {
	// Session returns the user's coordinator, loading it on first use.
	Session(ctx context.Context, userID string) (FavoritesCoordinator, error)

	// EndSession logs the user out and forgets the coordinator.
	EndSession(userID string) bool

	// ActiveSessions returns the number of loaded coordinators.
	ActiveSessions() int
}
