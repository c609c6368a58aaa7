package impl

import (
	"context"
	"log/slog"

	deliverycontext "restaurandes/internal/delivery/context"
	"restaurandes/internal/domain/entity"
	domainerrors "restaurandes/internal/domain/errors"
	"restaurandes/internal/domain/repository"
	"restaurandes/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	store  repository.RestaurantStore
	source repository.RestaurantSource
	logger *slog.Logger
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	Store  repository.RestaurantStore
	Source repository.RestaurantSource
	Logger *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		store:  params.Store,
		source: params.Source,
		logger: params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Refresh fetches the whole catalog and swaps the snapshot. A failed fetch
// leaves the current snapshot untouched.
func (srv *catalogService) Refresh(ctx context.Context) (*entity.SnapshotChanged, error) {
	records, err := srv.source.FetchAll(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.WithStack(ctxErr)
		}
		srv.log(ctx).Error("Failed to fetch restaurants", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrCatalogUnavailable, "fetch restaurants: "+err.Error())
	}

	changed := srv.apply(ctx, records)

	return &changed, nil
}

// Watch applies every provider update until ctx is done. It returns nil on
// cancellation and ErrCatalogUnavailable when the listener fails.
func (srv *catalogService) Watch(ctx context.Context) error {
	srv.log(ctx).Info("Watching restaurant catalog")

	err := srv.source.Watch(ctx, func(records []*entity.Restaurant) {
		srv.apply(ctx, records)
	})
	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return errors.Wrap(domainerrors.ErrCatalogUnavailable, "watch restaurants: "+err.Error())
	}

	return nil
}

// Version returns the current snapshot version.
func (srv *catalogService) Version() uint64 {
	return srv.store.Version()
}

func (srv *catalogService) Subscribe(ctx context.Context) <-chan entity.SnapshotChanged {
	return srv.store.Subscribe(ctx)
}

func (srv *catalogService) apply(ctx context.Context, records []*entity.Restaurant) entity.SnapshotChanged {
	if len(records) == 0 {
		srv.log(ctx).Warn("Restaurant provider returned an empty catalog")
	}

	changed := srv.store.ReplaceAll(records)
	srv.log(ctx).Info("Restaurant catalog replaced",
		slog.Uint64("version", changed.Version),
		slog.Int("count", changed.Count),
		slog.Int("duplicates", changed.Duplicates),
		slog.Int("dropped", changed.Dropped),
	)

	return changed
}
