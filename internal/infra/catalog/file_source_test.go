package catalog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"restaurandes/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `restaurants:
  - id: cafe
    name: Café
    category: Café
    priceRange: $
    rating: 4.2
    latitude: 4.6017
    longitude: -74.0659
    openingHours: 7:00 AM - 7:00 PM
    isOpen: true
    tags: [coffee]
  - id: broken
    latitude: 123
  - just a string
  - id: pizza
    name: Pizza
    latitude: 4.6287
    longitude: -74.0659
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeSeed(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestFileSource_FetchAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restaurants.yaml")
	writeSeed(t, path, seedYAML)

	restaurants, err := NewFileSource(path, discardLogger()).FetchAll(context.Background())

	require.NoError(t, err)
	require.Len(t, restaurants, 2)
	assert.Equal(t, "cafe", restaurants[0].ID)
	assert.Equal(t, entity.PriceTierBudget, restaurants[0].PriceRange)
	assert.Equal(t, []string{"coffee"}, restaurants[0].Tags)
	assert.Equal(t, "pizza", restaurants[1].ID)
	assert.Equal(t, entity.DefaultPriceTier, restaurants[1].PriceRange)
}

func TestFileSource_FetchAllMissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.yaml"), discardLogger()).
		FetchAll(context.Background())

	assert.Error(t, err)
}

func TestFileSource_FetchAllEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restaurants.yaml")
	writeSeed(t, path, "restaurants: []\n")

	restaurants, err := NewFileSource(path, discardLogger()).FetchAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, restaurants)
}

func TestFileSource_FetchAllRejectsNonList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restaurants.yaml")
	writeSeed(t, path, "restaurants: nope\n")

	_, err := NewFileSource(path, discardLogger()).FetchAll(context.Background())

	assert.Error(t, err)
}

func TestFileSource_WatchReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restaurants.yaml")
	writeSeed(t, path, seedYAML)

	var (
		mu      sync.Mutex
		batches [][]*entity.Restaurant
	)
	apply := func(records []*entity.Restaurant) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, records)
	}
	lastIDs := func() []string {
		mu.Lock()
		defer mu.Unlock()
		if len(batches) == 0 {
			return nil
		}
		ids := make([]string, 0)
		for _, r := range batches[len(batches)-1] {
			ids = append(ids, r.ID)
		}

		return ids
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewFileSource(path, discardLogger()).Watch(ctx, apply)
	}()

	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"cafe", "pizza"}, lastIDs())
	}, 5*time.Second, 20*time.Millisecond)

	writeSeed(t, path, "restaurants:\n  - id: sushi\n    name: Sushi\n")

	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"sushi"}, lastIDs())
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
