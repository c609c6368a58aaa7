package firebase

import (
	"context"
	"log/slog"

	"restaurandes/internal/domain/repository"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	fieldFavoriteRestaurants = "favoriteRestaurants"
	fieldUpdatedAt           = "updatedAt"
)

type profileRepository struct {
	clients    *Clients
	collection string
	logger     *slog.Logger
}

// NewProfileRepository stores favorites on users/{uid}.favoriteRestaurants.
func NewProfileRepository(clients *Clients, collection string, logger *slog.Logger) repository.ProfileRepository {
	return &profileRepository{
		clients:    clients,
		collection: collection,
		logger:     logger,
	}
}

func (repo *profileRepository) GetFavorites(ctx context.Context, userID string) ([]string, error) {
	client, err := repo.clients.Firestore(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := client.Collection(repo.collection).Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, errors.WithStack(repository.ErrProfileNotFound)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read profile %s", userID)
	}

	raw, err := snap.DataAt(fieldFavoriteRestaurants)
	if err != nil {
		// The document exists without the field: the user has no favorites yet.
		return []string{}, nil
	}

	return toStringSlice(raw), nil
}

// SaveFavorites overwrites the favorites field and leaves the rest of the profile untouched.
func (repo *profileRepository) SaveFavorites(ctx context.Context, userID string, restaurantIDs []string) error {
	client, err := repo.clients.Firestore(ctx)
	if err != nil {
		return err
	}

	if restaurantIDs == nil {
		restaurantIDs = []string{}
	}

	_, err = client.Collection(repo.collection).Doc(userID).Set(ctx, map[string]any{
		fieldFavoriteRestaurants: restaurantIDs,
		fieldUpdatedAt:           firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return errors.Wrapf(err, "write profile %s", userID)
	}

	return nil
}

func toStringSlice(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return []string{}
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		if id, ok := item.(string); ok {
			ids = append(ids, id)
		}
	}

	return ids
}
