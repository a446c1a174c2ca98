package models

import (
	"time"
)

// Review roles: which side of the exchange the reviewer was on.
const (
	ReviewRoleGiver = "giver"
	ReviewRoleTaker = "taker"
)

// MealReview is a per-party rating of a completed exchange, keyed by
// (meal_id, reviewer_id) so a party's repeated submissions upsert rather than
// accumulate. All rating fields are optional; an absent field overwrites the
// stored value with NULL, matching the write-through semantics clients expect.
type MealReview struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	MealID            uint      `gorm:"not null;index:idx_meal_reviewer,unique" json:"meal_id"`
	ReviewerID        uint      `gorm:"not null;index:idx_meal_reviewer,unique" json:"reviewer_id"`
	RevieweeID        *uint     `json:"reviewee_id,omitempty"`
	Role              string    `gorm:"not null" json:"role"`
	UserReview        *int      `json:"user_review,omitempty"`
	GeneralExperience *int      `json:"general_experience,omitempty"`
	Comments          *string   `gorm:"type:text" json:"comments,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName keeps the table name the original schema used.
func (MealReview) TableName() string {
	return "meal_reviews"
}

// ValidReviewRole reports whether role is a known review role.
func ValidReviewRole(role string) bool {
	return role == ReviewRoleGiver || role == ReviewRoleTaker
}
