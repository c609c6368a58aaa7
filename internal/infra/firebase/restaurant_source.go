package firebase

import (
	"context"
	"log/slog"

	"restaurandes/internal/domain/entity"
	"restaurandes/internal/domain/repository"
	"restaurandes/internal/infra/catalog"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type restaurantSource struct {
	clients    *Clients
	collection string
	decoder    *catalog.Decoder
	logger     *slog.Logger
}

// NewRestaurantSource reads the catalog from a Firestore collection.
func NewRestaurantSource(clients *Clients, collection string, logger *slog.Logger) repository.RestaurantSource {
	return &restaurantSource{
		clients:    clients,
		collection: collection,
		decoder:    catalog.NewDecoder(),
		logger:     logger,
	}
}

func (s *restaurantSource) FetchAll(ctx context.Context) ([]*entity.Restaurant, error) {
	client, err := s.clients.Firestore(ctx)
	if err != nil {
		return nil, err
	}

	snapshots, err := client.Collection(s.collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read collection %s", s.collection)
	}

	return s.decode(snapshots), nil
}

// Watch listens to collection snapshots. Every snapshot carries the full
// result set, so apply always receives the whole catalog.
func (s *restaurantSource) Watch(ctx context.Context, apply func(records []*entity.Restaurant)) error {
	client, err := s.clients.Firestore(ctx)
	if err != nil {
		return err
	}

	it := client.Collection(s.collection).Snapshots(ctx)
	defer it.Stop()

	for {
		snapshot, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled || errors.Is(err, iterator.Done) {
				return nil
			}

			return errors.Wrapf(err, "listen to collection %s", s.collection)
		}

		documents, err := snapshot.Documents.GetAll()
		if err != nil {
			return errors.Wrapf(err, "read snapshot of %s", s.collection)
		}

		s.logger.Debug("Firestore catalog snapshot",
			slog.Int("size", snapshot.Size),
			slog.Int("changes", len(snapshot.Changes)),
		)
		apply(s.decode(documents))
	}
}

func (s *restaurantSource) decode(snapshots []*firestore.DocumentSnapshot) []*entity.Restaurant {
	documents := make([]catalog.Document, 0, len(snapshots))
	for _, snap := range snapshots {
		documents = append(documents, catalog.Document{ID: snap.Ref.ID, Data: snap.Data()})
	}

	restaurants, skipped := s.decoder.DecodeAll(documents)
	for _, err := range skipped {
		s.logger.Warn("Skipping malformed restaurant document", slog.Any("error", err))
	}

	return restaurants
}
