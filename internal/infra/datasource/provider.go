// Package datasource selects the configured backends for the catalog and user profiles.
package datasource

import (
	"log/slog"

	"restaurandes/config"
	"restaurandes/internal/domain/constants"
	"restaurandes/internal/domain/repository"
	"restaurandes/internal/infra/catalog"
	"restaurandes/internal/infra/firebase"
	"restaurandes/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params holds dependencies for the data source providers, injected by Fx
type Params struct {
	fx.In

	Lc      fx.Lifecycle
	Config  *config.Config
	Clients *firebase.Clients
	Logger  *slog.Logger
}

// NewRestaurantSource returns the provider named by catalog.provider
func NewRestaurantSource(params Params) (repository.RestaurantSource, error) {
	cfg := params.Config.Catalog

	switch cfg.Provider {
	case constants.CatalogProviderFirestore:
		params.Logger.Info("Reading catalog from Firestore",
			slog.String("collection", params.Config.Firebase.RestaurantsCollection),
		)

		return firebase.NewRestaurantSource(params.Clients, params.Config.Firebase.RestaurantsCollection, params.Logger), nil

	case constants.CatalogProviderFile:
		if cfg.FilePath == "" {
			return nil, errors.New("catalog.filePath is required for file provider")
		}
		params.Logger.Info("Reading catalog from file", slog.String("path", cfg.FilePath))

		return catalog.NewFileSource(cfg.FilePath, params.Logger), nil

	default:
		return nil, errors.Errorf("unknown catalog provider: %s", cfg.Provider)
	}
}

// NewProfileRepository returns the profile store named by favorites.store.
// Postgres is only dialled when it is selected.
func NewProfileRepository(params Params) (repository.ProfileRepository, error) {
	cfg := params.Config.Favorites

	switch cfg.Store {
	case constants.ProfileStoreFirestore:
		params.Logger.Info("Storing favorites in Firestore",
			slog.String("collection", params.Config.Firebase.UsersCollection),
		)

		return firebase.NewProfileRepository(params.Clients, params.Config.Firebase.UsersCollection, params.Logger), nil

	case constants.ProfileStorePostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lc,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return nil, err
		}
		params.Logger.Info("Storing favorites in Postgres")

		return postgres.NewProfileRepository(db), nil

	default:
		return nil, errors.Errorf("unknown favorites store: %s", cfg.Store)
	}
}

// Module provides the data source FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(
		NewRestaurantSource,
		NewProfileRepository,
	),
)
