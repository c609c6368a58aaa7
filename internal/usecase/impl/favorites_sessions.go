package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"restaurandes/config"
	domainerrors "restaurandes/internal/domain/errors"
	"restaurandes/internal/domain/repository"
	"restaurandes/internal/domain/service"
	"restaurandes/internal/usecase"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"golang.org/x/sync/singleflight"
)

// favoritesService implements the FavoritesUsecase interface.
type favoritesService struct {
	profileRepo  repository.ProfileRepository
	publisher    service.EventPublisher
	logger       *slog.Logger
	writeTimeout time.Duration

	sessions *expirable.LRU[string, usecase.FavoritesCoordinator]
	loads    singleflight.Group
}

// FavoritesServiceParams holds dependencies for FavoritesService, injected by Fx.
type FavoritesServiceParams struct {
	fx.In

	Lifecycle   fx.Lifecycle
	ProfileRepo repository.ProfileRepository
	Publisher   service.EventPublisher
	Config      *config.Config
	Logger      *slog.Logger
}

// NewFavoritesService is the constructor for favoritesService.
func NewFavoritesService(params FavoritesServiceParams) usecase.FavoritesUsecase {
	srv := newFavoritesService(params.ProfileRepo, params.Publisher, params.Logger, params.Config.Favorites)

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			srv.sessions.Purge()

			return nil
		},
	})

	return srv
}

func newFavoritesService(
	profileRepo repository.ProfileRepository,
	publisher service.EventPublisher,
	logger *slog.Logger,
	cfg *config.FavoritesConfig,
) *favoritesService {
	srv := &favoritesService{
		profileRepo:  profileRepo,
		publisher:    publisher,
		logger:       logger,
		writeTimeout: cfg.WriteTimeout,
	}

	// Runs under the LRU lock. Logout waits for the user's in-flight save, so it
	// must not run here.
	srv.sessions = expirable.NewLRU(cfg.MaxSessions, func(userID string, coordinator usecase.FavoritesCoordinator) {
		go srv.logout(userID, coordinator)
	}, cfg.SessionTTL)

	return srv
}

// Session returns the user's coordinator. Concurrent first requests for the
// same user share a single Load.
func (srv *favoritesService) Session(ctx context.Context, userID string) (usecase.FavoritesCoordinator, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.WithStack(domainerrors.ErrNotLoggedIn)
	}

	if coordinator, ok := srv.sessions.Get(userID); ok {
		// Re-adding resets the idle timer.
		srv.sessions.Add(userID, coordinator)

		return coordinator, nil
	}

	result, err, _ := srv.loads.Do(userID, func() (any, error) {
		if coordinator, ok := srv.sessions.Get(userID); ok {
			return coordinator, nil
		}

		coordinator := NewFavoritesCoordinator(srv.profileRepo, srv.publisher, srv.logger, srv.writeTimeout)
		if err := coordinator.Load(ctx, userID); err != nil {
			return nil, err
		}
		srv.sessions.Add(userID, coordinator)

		return coordinator, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(usecase.FavoritesCoordinator), nil
}

// EndSession logs the user out. It reports whether a session existed.
// The coordinator is logged out before returning, outside the registry lock.
func (srv *favoritesService) EndSession(userID string) bool {
	coordinator, ok := srv.sessions.Peek(userID)
	if !ok || !srv.sessions.Remove(userID) {
		return false
	}
	srv.logout(userID, coordinator)

	return true
}

// logout is safe to run twice; eviction and EndSession may both reach it.
func (srv *favoritesService) logout(userID string, coordinator usecase.FavoritesCoordinator) {
	coordinator.Logout()
	srv.logger.Debug("Favorites session ended", slog.String("user_id", userID))
}

// ActiveSessions returns the number of loaded sessions.
func (srv *favoritesService) ActiveSessions() int {
	return srv.sessions.Len()
}
