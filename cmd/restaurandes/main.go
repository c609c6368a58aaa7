package main

import (
	"context"
	"log/slog"
	"os"
	_ "time/tzdata"

	"restaurandes/config"
	"restaurandes/internal/delivery"
	"restaurandes/internal/delivery/api"
	"restaurandes/internal/delivery/api/middleware"
	"restaurandes/internal/delivery/api/router/handler"
	"restaurandes/internal/delivery/catalogsync"
	"restaurandes/internal/infra/auth"
	"restaurandes/internal/infra/datasource"
	"restaurandes/internal/infra/firebase"
	"restaurandes/internal/infra/location"
	logs "restaurandes/internal/infra/log"
	"restaurandes/internal/infra/pubsub"
	"restaurandes/internal/infra/store"
	"restaurandes/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		firebase.NewClients,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		datasource.Module,
		fx.Provide(
			store.NewRestaurantStore,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		auth.Module,
		pubsub.Module,
		fx.Provide(
			location.NewDeviceProvider,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewDiscoveryService,
			impl.NewCatalogService,
			impl.NewFavoritesService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewRestaurantHandler,
			handler.NewFavoritesHandler,
			handler.NewCatalogHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
			fx.Annotate(
				catalogsync.NewRunner,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
