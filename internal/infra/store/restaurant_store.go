// Package store holds the in-memory restaurant snapshot shared by all queries.
package store

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"restaurandes/internal/domain/entity"
	"restaurandes/internal/domain/repository"
	"restaurandes/internal/util"
)

// snapshot is immutable once published.
type snapshot struct {
	version     uint64
	restaurants []entity.Restaurant
	index       map[string]int
}

type restaurantStore struct {
	current atomic.Pointer[snapshot]

	// writeMu orders ReplaceAll calls so versions and events are published in sequence.
	writeMu sync.Mutex
	events  *util.Broadcaster[entity.SnapshotChanged]
	logger  *slog.Logger
	now     func() time.Time
}

// NewRestaurantStore creates an empty store at version 0.
func NewRestaurantStore(logger *slog.Logger) repository.RestaurantStore {
	return newRestaurantStore(logger, time.Now)
}

func newRestaurantStore(logger *slog.Logger, now func() time.Time) *restaurantStore {
	s := &restaurantStore{
		events: util.NewBroadcaster[entity.SnapshotChanged](),
		logger: logger,
		now:    now,
	}
	s.current.Store(&snapshot{index: map[string]int{}})

	return s
}

// ReplaceAll swaps in a new snapshot built from records.
func (s *restaurantStore) ReplaceAll(records []*entity.Restaurant) entity.SnapshotChanged {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := &snapshot{
		version:     s.current.Load().version + 1,
		restaurants: make([]entity.Restaurant, 0, len(records)),
		index:       make(map[string]int, len(records)),
	}

	var duplicates, dropped int
	for _, record := range records {
		if record == nil || record.ID == "" {
			dropped++

			continue
		}

		if pos, ok := next.index[record.ID]; ok {
			next.restaurants[pos] = *record.Clone()
			duplicates++

			continue
		}

		next.index[record.ID] = len(next.restaurants)
		next.restaurants = append(next.restaurants, *record.Clone())
	}

	s.current.Store(next)

	event := entity.SnapshotChanged{
		Version:    next.version,
		Count:      len(next.restaurants),
		Duplicates: duplicates,
		Dropped:    dropped,
		ReplacedAt: s.now(),
	}

	if duplicates > 0 || dropped > 0 {
		s.logger.Warn("Restaurant snapshot normalized",
			slog.Uint64("version", event.Version),
			slog.Int("duplicates", duplicates),
			slog.Int("dropped", dropped),
		)
	}
	s.logger.Debug("Restaurant snapshot replaced",
		slog.Uint64("version", event.Version),
		slog.Int("count", event.Count),
	)

	s.events.Publish(event)

	return event
}

// GetAll returns a copy of every restaurant in snapshot order.
func (s *restaurantStore) GetAll() []entity.Restaurant {
	snap := s.current.Load()

	out := make([]entity.Restaurant, len(snap.restaurants))
	for i := range snap.restaurants {
		out[i] = *snap.restaurants[i].Clone()
	}

	return out
}

// GetByID returns a copy of the restaurant with the given id.
func (s *restaurantStore) GetByID(id string) (*entity.Restaurant, error) {
	snap := s.current.Load()

	pos, ok := snap.index[id]
	if !ok {
		return nil, repository.ErrRestaurantNotFound
	}

	return snap.restaurants[pos].Clone(), nil
}

// Version returns the current snapshot version.
func (s *restaurantStore) Version() uint64 {
	return s.current.Load().version
}

// Subscribe streams snapshot changes until ctx is done.
func (s *restaurantStore) Subscribe(ctx context.Context) <-chan entity.SnapshotChanged {
	return s.events.Subscribe(ctx)
}
