package impl

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	deliverycontext "restaurandes/internal/delivery/context"
	"restaurandes/internal/domain/entity"
	domainerrors "restaurandes/internal/domain/errors"
	"restaurandes/internal/domain/repository"
	"restaurandes/internal/domain/service"
	"restaurandes/internal/usecase"
	"restaurandes/internal/util"

	"github.com/pkg/errors"
)

// favoritesState is immutable once published.
type favoritesState struct {
	loggedIn  bool
	favorites entity.UserFavorites
	version   uint64
}

// favoritesCoordinator implements the FavoritesCoordinator interface.
type favoritesCoordinator struct {
	profileRepo  repository.ProfileRepository
	publisher    service.EventPublisher
	logger       *slog.Logger
	writeTimeout time.Duration
	now          func() time.Time

	// mu serializes Load, Logout and every mutation, including the remote write.
	mu     sync.Mutex
	state  atomic.Pointer[favoritesState]
	events *util.Broadcaster[entity.FavoritesChanged]
}

// NewFavoritesCoordinator creates a logged-out coordinator. publisher may be nil.
func NewFavoritesCoordinator(
	profileRepo repository.ProfileRepository,
	publisher service.EventPublisher,
	logger *slog.Logger,
	writeTimeout time.Duration,
) usecase.FavoritesCoordinator {
	return newFavoritesCoordinator(profileRepo, publisher, logger, writeTimeout, time.Now)
}

func newFavoritesCoordinator(
	profileRepo repository.ProfileRepository,
	publisher service.EventPublisher,
	logger *slog.Logger,
	writeTimeout time.Duration,
	now func() time.Time,
) *favoritesCoordinator {
	c := &favoritesCoordinator{
		profileRepo:  profileRepo,
		publisher:    publisher,
		logger:       logger,
		writeTimeout: writeTimeout,
		now:          now,
		events:       util.NewBroadcaster[entity.FavoritesChanged](),
	}
	c.state.Store(&favoritesState{})

	return c
}

// Load signs userID in and reads their favorites.
func (c *favoritesCoordinator) Load(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("user id is required"))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	logger := c.log(ctx)
	logger.Debug("Loading favorites", slog.String("user_id", userID))

	ids, err := c.profileRepo.GetFavorites(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrProfileNotFound):
		logger.Info("Creating empty favorites profile", slog.String("user_id", userID))
		ids = []string{}
		if err := c.write(ctx, userID, ids); err != nil {
			return err
		}
	case err != nil:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.WithStack(ctxErr)
		}
		logger.Error("Failed to load favorites", slog.String("user_id", userID), slog.Any("error", err))

		return errors.Wrap(domainerrors.ErrProfileUnavailable, "load favorites: "+err.Error())
	}

	next := &favoritesState{
		loggedIn:  true,
		favorites: entity.NewUserFavorites(userID, ids),
		version:   c.state.Load().version + 1,
	}
	c.state.Store(next)
	c.events.Publish(c.eventFor(next, entity.FavoriteActionLoad, "", true))

	return nil
}

// Logout resets the coordinator and closes every subscriber stream.
func (c *favoritesCoordinator) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Store(&favoritesState{version: c.state.Load().version})
	c.events.CloseAll()
}

// Add marks the restaurant as a favorite. Adding an existing favorite still
// round-trips the full set and emits an event.
func (c *favoritesCoordinator) Add(ctx context.Context, restaurantID string) error {
	_, err := c.mutate(ctx, restaurantID, func(entity.UserFavorites) entity.FavoriteAction {
		return entity.FavoriteActionAdd
	})

	return err
}

// Remove unmarks the restaurant. Removing a non-favorite still round-trips the
// full set and emits an event.
func (c *favoritesCoordinator) Remove(ctx context.Context, restaurantID string) error {
	_, err := c.mutate(ctx, restaurantID, func(entity.UserFavorites) entity.FavoriteAction {
		return entity.FavoriteActionRemove
	})

	return err
}

// Toggle flips membership based on the set observed inside the serialized unit.
func (c *favoritesCoordinator) Toggle(ctx context.Context, restaurantID string) (bool, error) {
	event, err := c.mutate(ctx, restaurantID, func(current entity.UserFavorites) entity.FavoriteAction {
		if current.Contains(restaurantID) {
			return entity.FavoriteActionRemove
		}

		return entity.FavoriteActionAdd
	})
	if event == nil {
		return false, err
	}

	return event.Action == entity.FavoriteActionAdd, err
}

// IsFavorite reads the last committed set without waiting for writers.
func (c *favoritesCoordinator) IsFavorite(restaurantID string) bool {
	current := c.state.Load()

	return current.loggedIn && current.favorites.Contains(restaurantID)
}

// Favorites returns a copy of the last committed set.
func (c *favoritesCoordinator) Favorites() entity.UserFavorites {
	return c.state.Load().favorites.Clone()
}

// State reports whether a user is signed in.
func (c *favoritesCoordinator) State() entity.SessionState {
	if c.state.Load().loggedIn {
		return entity.SessionLoggedIn
	}

	return entity.SessionLoggedOut
}

// Subscribe streams the full set after every committed mutation.
func (c *favoritesCoordinator) Subscribe(ctx context.Context) <-chan entity.FavoritesChanged {
	return c.events.Subscribe(ctx)
}

// mutate runs one serialized read-modify-write. A context that is already done
// prevents the mutation; once the remote write has started it completes, and a
// cancelled caller receives the context error after the commit.
func (c *favoritesCoordinator) mutate(
	ctx context.Context,
	restaurantID string,
	decide func(current entity.UserFavorites) entity.FavoriteAction,
) (*entity.FavoritesChanged, error) {
	if strings.TrimSpace(restaurantID) == "" {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("restaurant id is required"))
	}

	event, err := c.commit(ctx, restaurantID, decide)
	if err != nil {
		return nil, err
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return event, errors.Wrap(ctxErr, "favorites committed after the caller went away")
	}

	return event, nil
}

func (c *favoritesCoordinator) commit(
	ctx context.Context,
	restaurantID string,
	decide func(current entity.UserFavorites) entity.FavoriteAction,
) (*entity.FavoritesChanged, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.state.Load()
	if !current.loggedIn {
		return nil, errors.WithStack(domainerrors.ErrNotLoggedIn)
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	action := decide(current.favorites)

	var favorites entity.UserFavorites
	if action == entity.FavoriteActionAdd {
		favorites = current.favorites.With(restaurantID)
	} else {
		favorites = current.favorites.Without(restaurantID)
	}

	if err := c.write(ctx, favorites.UserID, favorites.RestaurantIDs); err != nil {
		return nil, err
	}

	next := &favoritesState{
		loggedIn:  true,
		favorites: favorites,
		version:   current.version + 1,
	}
	c.state.Store(next)

	event := c.eventFor(next, action, restaurantID, favorites.Len() != current.favorites.Len())
	c.events.Publish(event)
	// still under mu so the feed sees one user's versions in commit order
	c.publishRemote(ctx, &event)

	c.log(ctx).Debug("Favorites updated",
		slog.String("user_id", favorites.UserID),
		slog.String("action", string(action)),
		slog.String("restaurant_id", restaurantID),
		slog.Bool("changed", event.Changed),
		slog.Int("count", favorites.Len()),
	)

	return &event, nil
}

// write persists the full set on a context detached from the caller's
// cancellation and bounded by writeTimeout.
func (c *favoritesCoordinator) write(ctx context.Context, userID string, ids []string) error {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.writeTimeout)
	defer cancel()

	if err := c.profileRepo.SaveFavorites(writeCtx, userID, slices.Clone(ids)); err != nil {
		c.log(ctx).Error("Failed to save favorites", slog.String("user_id", userID), slog.Any("error", err))

		return errors.Wrap(domainerrors.ErrProfileUnavailable, "save favorites: "+err.Error())
	}

	return nil
}

// publishRemote forwards a committed mutation to the event feed. Failures are
// logged and never undo the commit.
func (c *favoritesCoordinator) publishRemote(ctx context.Context, event *entity.FavoritesChanged) {
	if c.publisher == nil {
		return
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.writeTimeout)
	defer cancel()

	err := c.publisher.PublishFavoritesChanged(publishCtx, &service.FavoritesChangedEvent{
		RequestID:        deliverycontext.GetRequestIDFromContext(ctx),
		FavoritesChanged: *event,
	})
	if err != nil {
		c.log(ctx).Warn("Failed to publish favorites change",
			slog.String("user_id", event.UserID),
			slog.Uint64("version", event.Version),
			slog.Any("error", err),
		)
	}
}

func (c *favoritesCoordinator) eventFor(
	state *favoritesState,
	action entity.FavoriteAction,
	restaurantID string,
	changed bool,
) entity.FavoritesChanged {
	return entity.FavoritesChanged{
		UserID:       state.favorites.UserID,
		Action:       action,
		RestaurantID: restaurantID,
		Changed:      changed,
		Favorites:    slices.Clone(state.favorites.RestaurantIDs),
		Version:      state.version,
		OccurredAt:   c.now(),
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the coordinator's logger.
func (c *favoritesCoordinator) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, c.logger)
}
