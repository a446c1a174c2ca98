package models

import (
	"time"

	"gorm.io/gorm"
)

// User holds the public identity fields the meal lifecycle needs.
// Credential and profile management live in a separate service; this table
// only mirrors the stable integer id plus the display fields joined into
// listing responses.
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Username   string         `gorm:"uniqueIndex;not null" json:"username"`
	Email      string         `gorm:"uniqueIndex;not null" json:"email"`
	AvatarURL  string         `json:"avatar_url"`
	IsVerified bool           `gorm:"default:false" json:"is_verified"`
	IsAdmin    bool           `gorm:"default:false" json:"is_admin"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
