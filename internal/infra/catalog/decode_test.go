package catalog

import (
	"testing"
	"time"

	"restaurandes/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fetchTime = time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)

func newTestDecoder() *Decoder {
	d := NewDecoder()
	d.now = func() time.Time { return fetchTime }

	return d
}

func TestDecoder_Decode(t *testing.T) {
	restaurant, err := newTestDecoder().Decode("cafe", map[string]any{
		"name":         "Café Uniandes",
		"category":     "Café",
		"priceRange":   "$",
		"rating":       4,
		"reviewCount":  int64(120),
		"imageURL":     "https://img.example/cafe.jpg",
		"latitude":     4.6017,
		"longitude":    -74.0659,
		"openingHours": "7:00 AM - 7:00 PM",
		"isOpen":       true,
		"lastUpdated":  int64(1741953600000),
		"tags":         []any{"coffee", "wifi"},
	})

	require.NoError(t, err)
	assert.Equal(t, "cafe", restaurant.ID)
	assert.Equal(t, "Café Uniandes", restaurant.Name)
	assert.Equal(t, entity.PriceTierBudget, restaurant.PriceRange)
	assert.InDelta(t, 4.0, restaurant.Rating, 1e-9)
	assert.Equal(t, 120, restaurant.ReviewCount)
	assert.Equal(t, "https://img.example/cafe.jpg", restaurant.ImageURL)
	assert.True(t, restaurant.IsOpen)
	assert.Equal(t, time.UnixMilli(1741953600000), restaurant.LastUpdated)
	assert.Equal(t, []string{"coffee", "wifi"}, restaurant.Tags)
}

func TestDecoder_Defaults(t *testing.T) {
	restaurant, err := newTestDecoder().Decode("", map[string]any{
		"id":       "arepas",
		"name":     "Arepas",
		"imageUrl": "https://img.example/arepas.jpg",
	})

	require.NoError(t, err)
	assert.Equal(t, "arepas", restaurant.ID)
	assert.Equal(t, entity.DefaultPriceTier, restaurant.PriceRange)
	assert.Equal(t, "https://img.example/arepas.jpg", restaurant.ImageURL)
	assert.Equal(t, fetchTime, restaurant.LastUpdated)
	assert.False(t, restaurant.IsOpen)
}

func TestDecoder_LastUpdatedFormats(t *testing.T) {
	stamp := time.Date(2025, time.February, 1, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value any
	}{
		{name: "timestamp", value: stamp},
		{name: "rfc3339", value: "2025-02-01T08:30:00Z"},
		{name: "millis", value: stamp.UnixMilli()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restaurant, err := newTestDecoder().Decode("x", map[string]any{"lastUpdated": tt.value})

			require.NoError(t, err)
			assert.True(t, stamp.Equal(restaurant.LastUpdated), "got %v", restaurant.LastUpdated)
		})
	}
}

func TestDecoder_RejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		id   string
		data map[string]any
	}{
		{name: "missing id", data: map[string]any{"name": "Nameless"}},
		{name: "latitude out of range", id: "a", data: map[string]any{"latitude": 91.0}},
		{name: "longitude out of range", id: "b", data: map[string]any{"longitude": -181.0}},
		{name: "rating out of range", id: "c", data: map[string]any{"rating": 7.5}},
		{name: "wrong type", id: "d", data: map[string]any{"rating": "excellent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestDecoder().Decode(tt.id, tt.data)

			assert.Error(t, err)
		})
	}
}

func TestDecoder_DecodeAllSkipsMalformed(t *testing.T) {
	restaurants, skipped := newTestDecoder().DecodeAll([]Document{
		{ID: "ok", Data: map[string]any{"name": "Ok"}},
		{ID: "bad", Data: map[string]any{"latitude": 200.0}},
		{ID: "also-ok", Data: map[string]any{"name": "Also ok"}},
	})

	require.Len(t, restaurants, 2)
	assert.Equal(t, "ok", restaurants[0].ID)
	assert.Equal(t, "also-ok", restaurants[1].ID)
	assert.Len(t, skipped, 1)
}
