package usecase

import (
	"context"

	"restaurandes/internal/domain/entity"
)

// CatalogUsecase keeps the restaurant store in sync with the data provider.
type CatalogUsecase interface {
	// Refresh performs a one-shot fetch and replaces the snapshot.
	Refresh(ctx context.Context) (*entity.SnapshotChanged, error)

	// Watch applies provider changes until ctx is done or the listener fails.
	Watch(ctx context.Context) error

	// Version returns the current snapshot version.
	Version() uint64

	// Subscribe streams every snapshot replacement after the call until ctx is done.
	Subscribe(ctx context.Context) <-chan entity.SnapshotChanged
}
