// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"restaurandes/internal/domain/repository"
	"restaurandes/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// profileRepository implements the domain's ProfileRepository interface.
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository is the constructor for profileRepository.
func NewProfileRepository(db *gorm.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

// Migrate creates or updates the profile tables.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return errors.WithStack(db.WithContext(ctx).AutoMigrate(
		&model.UserProfileModel{},
		&model.UserFavoriteModel{},
	))
}

// GetFavorites returns the user's favorites in insertion order.
func (repo *profileRepository) GetFavorites(ctx context.Context, userID string) ([]string, error) {
	var profile model.UserProfileModel
	err := repo.db.WithContext(ctx).
		Preload("Favorites", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Take(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.WithStack(repository.ErrProfileNotFound)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find profile %s", userID)
	}

	return favoriteIDs(profile.Favorites), nil
}

// SaveFavorites replaces the user's favorites with restaurantIDs in one transaction.
func (repo *profileRepository) SaveFavorites(ctx context.Context, userID string, restaurantIDs []string) error {
	now := time.Now()

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile := &model.UserProfileModel{UserID: userID, CreatedAt: now, UpdatedAt: now}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
		}).Omit("Favorites").Create(profile).Error; err != nil {
			return errors.Wrap(err, "upsert profile")
		}

		if err := tx.Where("user_id = ?", userID).Delete(&model.UserFavoriteModel{}).Error; err != nil {
			return errors.Wrap(err, "clear favorites")
		}

		rows := favoriteRows(userID, restaurantIDs, now)
		if len(rows) == 0 {
			return nil
		}

		return errors.Wrap(tx.Create(&rows).Error, "insert favorites")
	})
	if err != nil {
		return errors.Wrapf(err, "save favorites for %s", userID)
	}

	return nil
}

func favoriteIDs(rows []model.UserFavoriteModel) []string {
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.RestaurantID)
	}

	return ids
}

func favoriteRows(userID string, restaurantIDs []string, now time.Time) []model.UserFavoriteModel {
	rows := make([]model.UserFavoriteModel, 0, len(restaurantIDs))
	for idx, id := range restaurantIDs {
		rows = append(rows, model.UserFavoriteModel{
			UserID:       userID,
			RestaurantID: id,
			Position:     idx,
			CreatedAt:    now,
		})
	}

	return rows
}
