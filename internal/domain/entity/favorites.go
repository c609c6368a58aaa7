package entity

import (
	"slices"
	"time"
)

// UserFavorites is a user's ordered set of favorite restaurant ids.
// Methods never modify the receiver.
type UserFavorites struct {
	UserID        string
	RestaurantIDs []string
}

// NewUserFavorites builds a favorites set, dropping blanks and duplicates while keeping order.
func NewUserFavorites(userID string, ids []string) UserFavorites {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	return UserFavorites{UserID: userID, RestaurantIDs: unique}
}

// Contains reports whether the restaurant is a favorite.
func (f UserFavorites) Contains(restaurantID string) bool {
	return slices.Contains(f.RestaurantIDs, restaurantID)
}

// With returns a copy that includes restaurantID, appended at the end when new.
func (f UserFavorites) With(restaurantID string) UserFavorites {
	ids := slices.Clone(f.RestaurantIDs)
	if !slices.Contains(ids, restaurantID) {
		ids = append(ids, restaurantID)
	}

	return UserFavorites{UserID: f.UserID, RestaurantIDs: ids}
}

// Without returns a copy that excludes restaurantID.
func (f UserFavorites) Without(restaurantID string) UserFavorites {
	ids := slices.DeleteFunc(slices.Clone(f.RestaurantIDs), func(id string) bool {
		return id == restaurantID
	})

	return UserFavorites{UserID: f.UserID, RestaurantIDs: ids}
}

// Clone returns a deep copy.
func (f UserFavorites) Clone() UserFavorites {
	return UserFavorites{UserID: f.UserID, RestaurantIDs: slices.Clone(f.RestaurantIDs)}
}

// Len returns the number of favorites.
func (f UserFavorites) Len() int {
	return len(f.RestaurantIDs)
}

// FavoriteAction names the mutation that produced a FavoritesChanged event.
type FavoriteAction string

const (
	FavoriteActionLoad   FavoriteAction = "load"
	FavoriteActionAdd    FavoriteAction = "add"
	FavoriteActionRemove FavoriteAction = "remove"
)

// FavoritesChanged carries the full favorite set after a committed mutation.
type FavoritesChanged struct {
	UserID       string         `json:"user_id"`
	Action       FavoriteAction `json:"action"`
	RestaurantID string         `json:"restaurant_id,omitempty"`
	Changed      bool           `json:"changed"` // false for idempotent no-ops
	Favorites    []string       `json:"favorites"`
	Version      uint64         `json:"version"`
	OccurredAt   time.Time      `json:"occurred_at"`
}

// SessionState is the favorites coordinator state.
type SessionState string

const (
	SessionLoggedOut SessionState = "logged_out"
	SessionLoggedIn  SessionState = "logged_in"
)

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	UserID   string
	Email    string
	Provider string
}
