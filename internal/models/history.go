package models

import (
	"time"
)

// MealHistoryRecord is the immutable archive of a completed exchange, written
// when a listing is collected. Each party can independently soft-delete their
// view; the row is hard-deleted only once both flags are set.
type MealHistoryRecord struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	MealID          uint      `gorm:"not null;index" json:"meal_id"`
	GiverID         uint      `gorm:"not null;index" json:"giver_id"`
	TakerID         *uint     `gorm:"index" json:"taker_id,omitempty"`
	ItemDescription string    `gorm:"type:text" json:"item_description"`
	PickupAddress   string    `json:"pickup_address"`
	MealImage       string    `json:"meal_image"`
	DeletedByGiver  bool      `gorm:"default:false" json:"deleted_by_giver"`
	DeletedByTaker  bool      `gorm:"default:false" json:"deleted_by_taker"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName keeps the table name the original schema used.
func (MealHistoryRecord) TableName() string {
	return "meal_history"
}
