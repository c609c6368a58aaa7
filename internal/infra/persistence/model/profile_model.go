// Package model holds the GORM table structs.
package model

import (
	"time"
)

// UserProfileModel is the GORM-specific struct for the 'user_profiles' table.
// A row exists once the user has signed in at least once.
type UserProfileModel struct {
	UserID    string `gorm:"type:varchar(128);primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Favorites []UserFavoriteModel `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (UserProfileModel) TableName() string {
	return "user_profiles"
}

// UserFavoriteModel is the GORM-specific struct for the 'user_favorites' table.
// Position keeps the order in which favorites were added.
type UserFavoriteModel struct {
	UserID       string `gorm:"type:varchar(128);primaryKey"`
	RestaurantID string `gorm:"type:varchar(128);primaryKey"`
	Position     int    `gorm:"not null"`
	CreatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserFavoriteModel) TableName() string {
	return "user_favorites"
}
