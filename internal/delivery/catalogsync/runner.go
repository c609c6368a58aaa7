// Package catalogsync keeps the in-memory restaurant snapshot in step with the data provider.
package catalogsync

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"restaurandes/config"
	"restaurandes/internal/delivery"
	"restaurandes/internal/domain/lifecycle"
	"restaurandes/internal/usecase"
	"restaurandes/internal/util"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

type runner struct {
	cfg       *config.CatalogConfig
	catalogUC usecase.CatalogUsecase
	logger    *slog.Logger

	stopCtx context.Context
	cancel  context.CancelFunc
	started atomic.Bool
	done    chan struct{}
}

// RunnerParams holds dependencies for the catalog sync runner, injected by Fx.
type RunnerParams struct {
	fx.In

	Lc        fx.Lifecycle
	Cfg       *config.Config
	CatalogUC usecase.CatalogUsecase
	Logger    *slog.Logger
}

// NewRunner creates the catalog sync delivery. Serve loads the catalog once,
// then keeps it fresh through the provider listener and periodic refreshes,
// as configured.
func NewRunner(params RunnerParams) (delivery.Delivery, error) {
	r := newRunner(params.Cfg.Catalog, params.CatalogUC, params.Logger)

	params.Lc.Append(fx.Hook{
		OnStop: r.stop,
	})

	return r, nil
}

func newRunner(cfg *config.CatalogConfig, catalogUC usecase.CatalogUsecase, logger *slog.Logger) *runner {
	stopCtx, cancel := context.WithCancel(context.Background())

	return &runner{
		cfg:       cfg,
		catalogUC: catalogUC,
		logger:    logger,
		stopCtx:   stopCtx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// Serve blocks until the runner is stopped or ctx is done.
func (r *runner) Serve(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return errors.New("catalog sync runner already started")
	}
	defer close(r.done)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	unregister := context.AfterFunc(r.stopCtx, cancel)
	defer unregister()

	r.logger.Info("Starting catalog sync",
		slog.Bool("watch", r.cfg.Watch),
		slog.Duration("refresh_interval", r.cfg.RefreshInterval),
	)

	// A failed first load leaves an empty snapshot; the loops below retry.
	r.refresh(ctx, "initial")

	group, groupCtx := errgroup.WithContext(ctx)
	if r.cfg.Watch {
		group.Go(func() error {
			return r.watchLoop(groupCtx)
		})
	}
	if r.cfg.RefreshInterval > 0 {
		group.Go(func() error {
			return r.refreshLoop(groupCtx)
		})
	}

	return errors.WithStack(group.Wait())
}

func (r *runner) watchLoop(ctx context.Context) error {
	for {
		err := r.catalogUC.Watch(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			r.logger.Warn("Catalog watch failed, retrying",
				slog.Duration("retry_in", r.cfg.RetryInterval),
				slog.Any("error", err),
			)
		} else {
			r.logger.Info("Catalog watch ended, restarting", slog.Duration("retry_in", r.cfg.RetryInterval))
		}

		timer := time.NewTimer(r.cfg.RetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()

			return nil
		case <-timer.C:
		}
	}
}

func (r *runner) refreshLoop(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.refresh(ctx, "periodic")
		}
	}
}

func (r *runner) refresh(ctx context.Context, trigger string) {
	start := time.Now()
	changed, err := r.catalogUC.Refresh(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Error("Catalog refresh failed", slog.String("trigger", trigger), slog.Any("error", err))
		}

		return
	}

	r.logger.Debug("Catalog refreshed",
		slog.String("trigger", trigger),
		slog.Uint64("version", changed.Version),
		slog.Int("count", changed.Count),
		slog.String("elapsed", util.FormatDuration(time.Since(start))),
	)
}

func (r *runner) stop(ctx context.Context) error {
	r.cancel()
	if !r.started.Load() {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	r.logger.Info("Stopping catalog sync")

	select {
	case <-r.done:
		return nil
	case <-shutdownCtx.Done():
		return errors.Wrap(shutdownCtx.Err(), "catalog sync did not stop in time")
	}
}
