// Package repository provides data access layers over the relational store.
package repository

import (
	"context"
	"time"

	"github.com/Galomer310/ManisR-backend/internal/models"

	"gorm.io/gorm"
)

// ListingRepository defines the interface for meal listing data operations
type ListingRepository interface {
	Create(ctx context.Context, listing *models.MealListing) error
	GetByID(ctx context.Context, id uint) (*models.MealListing, error)
	GetByGiver(ctx context.Context, giverID uint) (*models.MealListing, error)
	ListAvailable(ctx context.Context) ([]*models.AvailableListing, error)
	UpdateByGiver(ctx context.Context, giverID uint, updates map[string]interface{}) (int64, error)
	TryReserve(ctx context.Context, id, takerID uint, now time.Time) (int64, error)
	SetStatus(ctx context.Context, id uint, status string) (int64, error)
	FindExpiredReservations(ctx context.Context, now time.Time) ([]*models.MealListing, error)
	ReleaseReservation(ctx context.Context, id uint, expiresBefore time.Time) (int64, error)
}

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing *models.MealListing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *listingRepository) GetByID(ctx context.Context, id uint) (*models.MealListing, error) {
	var listing models.MealListing
	err := r.db.WithContext(ctx).First(&listing, id).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) GetByGiver(ctx context.Context, giverID uint) (*models.MealListing, error) {
	var listing models.MealListing
	err := r.db.WithContext(ctx).Where("giver_id = ?", giverID).First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) ListAvailable(ctx context.Context) ([]*models.AvailableListing, error) {
	var listings []*models.AvailableListing
	err := r.db.WithContext(ctx).
		Model(&models.MealListing{}).
		Select("meal_listings.*, users.username AS giver_username, users.avatar_url AS giver_avatar_url").
		Joins("JOIN users ON users.id = meal_listings.giver_id").
		Where("meal_listings.status = ?", models.ListingStatusAvailable).
		Order("meal_listings.created_at DESC").
		Find(&listings).Error
	return listings, err
}

// UpdateByGiver mutates the giver's live listing and reports how many rows the
// UPDATE touched so callers can distinguish "no live listing" from success.
func (r *listingRepository) UpdateByGiver(ctx context.Context, giverID uint, updates map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.MealListing{}).
		Where("giver_id = ?", giverID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// TryReserve places a hold on an available listing. The status predicate makes
// the write conditional: of two concurrent reservations exactly one observes
// RowsAffected == 1 and the other 0.
func (r *listingRepository) TryReserve(ctx context.Context, id, takerID uint, now time.Time) (int64, error) {
	expiresAt := now.Add(models.ReservationTTL)
	res := r.db.WithContext(ctx).
		Model(&models.MealListing{}).
		Where("id = ? AND status = ?", id, models.ListingStatusAvailable).
		Updates(map[string]interface{}{
			"status":      models.ListingStatusReserved,
			"taker_id":    takerID,
			"reserved_at": now,
			"expires_at":  expiresAt,
		})
	return res.RowsAffected, res.Error
}

func (r *listingRepository) SetStatus(ctx context.Context, id uint, status string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.MealListing{}).
		Where("id = ?", id).
		Update("status", status)
	return res.RowsAffected, res.Error
}

func (r *listingRepository) FindExpiredReservations(ctx context.Context, now time.Time) ([]*models.MealListing, error) {
	var listings []*models.MealListing
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", models.ListingStatusReserved, now).
		Find(&listings).Error
	return listings, err
}

// ReleaseReservation reverts one expired hold back to available. The expiry
// predicate keeps the write from clobbering a hold that was re-taken between
// the sweep's read and this write.
func (r *listingRepository) ReleaseReservation(ctx context.Context, id uint, expiresBefore time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.MealListing{}).
		Where("id = ? AND status = ? AND expires_at < ?", id, models.ListingStatusReserved, expiresBefore).
		Updates(map[string]interface{}{
			"status":      models.ListingStatusAvailable,
			"taker_id":    nil,
			"reserved_at": nil,
			"expires_at":  nil,
		})
	return res.RowsAffected, res.Error
}
