// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"restaurandes/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for restaurant lookups.
var (
	// ErrRestaurantNotFound is returned when no restaurant has the requested id.
	ErrRestaurantNotFound = errors.New("restaurant not found")
)

// RestaurantStore holds the canonical in-memory restaurant snapshot.
// Reads never block on writers and always return copies.
type RestaurantStore interface {
	// ReplaceAll atomically swaps the snapshot. Records sharing an id collapse to
	// the last one, kept at the position of the first; records without an id are dropped.
	ReplaceAll(records []*entity.Restaurant) entity.SnapshotChanged

	// GetAll returns a copy of the current snapshot in insertion order.
	GetAll() []entity.Restaurant

	// GetByID returns a copy of one restaurant or ErrRestaurantNotFound.
	GetByID(id string) (*entity.Restaurant, error)

	// Version returns the version of the current snapshot (0 before the first load).
	Version() uint64

	// Subscribe streams a SnapshotChanged event for every ReplaceAll after the call.
	Subscribe(ctx context.Context) <-chan entity.SnapshotChanged
}

// RestaurantSource is the external data provider for the restaurant catalog.
// Malformed records are skipped by implementations rather than failing the batch.
type RestaurantSource interface {
	// FetchAll performs a one-shot read of every restaurant record.
	FetchAll(ctx context.Context) ([]*entity.Restaurant, error)

	// Watch calls apply with the full record set every time the provider changes,
	// until ctx is done or the underlying listener fails.
	Watch(ctx context.Context, apply func(records []*entity.Restaurant)) error
}
