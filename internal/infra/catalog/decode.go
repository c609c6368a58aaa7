// Package catalog turns provider documents into restaurant entities.
package catalog

import (
	"reflect"
	"strings"
	"time"

	"restaurandes/internal/domain/entity"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// Record mirrors the stored document layout. Field names follow the
// provider's camelCase keys.
type Record struct {
	ID           string    `mapstructure:"id"`
	Name         string    `mapstructure:"name"`
	Description  string    `mapstructure:"description"`
	Category     string    `mapstructure:"category"`
	Address      string    `mapstructure:"address"`
	Phone        string    `mapstructure:"phone"`
	OpeningHours string    `mapstructure:"openingHours"`
	PriceRange   string    `mapstructure:"priceRange"`
	Rating       float64   `mapstructure:"rating" validate:"gte=0,lte=5"`
	ReviewCount  int       `mapstructure:"reviewCount" validate:"gte=0"`
	ImageURL     string    `mapstructure:"imageURL"`
	ImageURLAlt  string    `mapstructure:"imageUrl"`
	Latitude     float64   `mapstructure:"latitude" validate:"gte=-90,lte=90"`
	Longitude    float64   `mapstructure:"longitude" validate:"gte=-180,lte=180"`
	IsOpen       bool      `mapstructure:"isOpen"`
	LastUpdated  time.Time `mapstructure:"lastUpdated"`
	Tags         []string  `mapstructure:"tags"`
}

// Decoder converts raw documents into restaurants, applying provider defaults.
type Decoder struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewDecoder creates a Decoder.
func NewDecoder() *Decoder {
	return &Decoder{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
}

// Decode converts one document. id overrides any "id" field in data, which is
// how document stores key their records.
func (d *Decoder) Decode(id string, data map[string]any) (*entity.Restaurant, error) {
	var record Record
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &record,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			lastUpdatedHook(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, errors.Wrapf(err, "decode restaurant %q", id)
	}

	if id != "" {
		record.ID = id
	}
	record.ID = strings.TrimSpace(record.ID)
	if record.ID == "" {
		return nil, errors.New("restaurant record has no id")
	}

	if err := d.validate.Struct(record); err != nil {
		return nil, errors.Wrapf(err, "validate restaurant %q", record.ID)
	}

	return d.toEntity(&record), nil
}

// DecodeAll converts documents keyed by id and skips the malformed ones,
// returning the errors alongside so callers can log them.
func (d *Decoder) DecodeAll(documents []Document) ([]*entity.Restaurant, []error) {
	restaurants := make([]*entity.Restaurant, 0, len(documents))
	var skipped []error
	for _, doc := range documents {
		restaurant, err := d.Decode(doc.ID, doc.Data)
		if err != nil {
			skipped = append(skipped, err)

			continue
		}
		restaurants = append(restaurants, restaurant)
	}

	return restaurants, skipped
}

// Document is one raw provider record.
type Document struct {
	ID   string
	Data map[string]any
}

func (d *Decoder) toEntity(record *Record) *entity.Restaurant {
	imageURL := record.ImageURL
	if imageURL == "" {
		imageURL = record.ImageURLAlt
	}

	lastUpdated := record.LastUpdated
	if lastUpdated.IsZero() {
		lastUpdated = d.now()
	}

	return &entity.Restaurant{
		ID:           record.ID,
		Name:         record.Name,
		Description:  record.Description,
		Category:     record.Category,
		Address:      record.Address,
		Phone:        record.Phone,
		OpeningHours: record.OpeningHours,
		PriceRange:   entity.ParsePriceTier(record.PriceRange),
		Rating:       record.Rating,
		ReviewCount:  record.ReviewCount,
		ImageURL:     imageURL,
		Latitude:     record.Latitude,
		Longitude:    record.Longitude,
		IsOpen:       record.IsOpen,
		LastUpdated:  lastUpdated,
		Tags:         record.Tags,
	}
}

// lastUpdatedHook accepts epoch milliseconds for time fields.
func lastUpdatedHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(time.Time{}) {
			return data, nil
		}

		switch v := data.(type) {
		case int64:
			return time.UnixMilli(v), nil
		case int:
			return time.UnixMilli(int64(v)), nil
		case float64:
			return time.UnixMilli(int64(v)), nil
		case *time.Time:
			if v == nil {
				return time.Time{}, nil
			}

			return *v, nil
		}

		return data, nil
	}
}
