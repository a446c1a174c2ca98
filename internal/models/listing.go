package models

import (
	"time"
)

// Listing lifecycle statuses. A listing is never stored as "collected": the
// collect transition archives and deletes the row inside one transaction, so
// the constant only labels the transient state during that operation.
const (
	ListingStatusAvailable = "available"
	ListingStatusReserved  = "reserved"
	ListingStatusCollected = "collected"
)

// ReservationTTL is how long a taker's hold on a listing lasts before the
// lease sweeper reverts it to available.
const ReservationTTL = 30 * time.Minute

// ValidListingStatus reports whether s is one of the known lifecycle statuses.
func ValidListingStatus(s string) bool {
	switch s {
	case ListingStatusAvailable, ListingStatusReserved, ListingStatusCollected:
		return true
	}
	return false
}

// MealListing is a food item offered for pickup by a giver.
type MealListing struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	GiverID         uint   `gorm:"not null;uniqueIndex" json:"giver_id"`
	Giver           *User  `gorm:"foreignKey:GiverID" json:"giver,omitempty"`
	ItemDescription string `gorm:"type:text;not null" json:"item_description"`
	PickupAddress   string `gorm:"not null" json:"pickup_address"`
	BoxOption       string `json:"box_option"`
	FoodTypes       string `json:"food_types"`
	Ingredients     string `json:"ingredients"`
	SpecialNotes    string `json:"special_notes"`
	ImageURL        string `json:"image_url"`
	Lat             *float64 `json:"lat,omitempty"`
	Lng             *float64 `json:"lng,omitempty"`

	Status     string     `gorm:"not null;default:'available';index" json:"status"`
	TakerID    *uint      `gorm:"index" json:"taker_id,omitempty"`
	ReservedAt *time.Time `json:"reserved_at,omitempty"`
	ExpiresAt  *time.Time `gorm:"index" json:"expires_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AvailableListing is the browse-view row: a listing joined with the giver's
// public display fields.
type AvailableListing struct {
	MealListing
	GiverUsername  string `gorm:"->" json:"giver_username"`
	GiverAvatarURL string `gorm:"->" json:"giver_avatar_url"`
}

// IsParticipant reports whether userID is the giver or the current taker.
func (m *MealListing) IsParticipant(userID uint) bool {
	if m.GiverID == userID {
		return true
	}
	return m.TakerID != nil && *m.TakerID == userID
}

// ReservationExpired reports whether a reserved listing's hold has lapsed.
func (m *MealListing) ReservationExpired(now time.Time) bool {
	return m.Status == ListingStatusReserved && m.ExpiresAt != nil && m.ExpiresAt.Before(now)
}
