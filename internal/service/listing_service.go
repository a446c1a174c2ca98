// Package service provides the meal lifecycle business logic.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/Galomer310/ManisR-backend/internal/models"
	"github.com/Galomer310/ManisR-backend/internal/notifications"
	"github.com/Galomer310/ManisR-backend/internal/observability"
	"github.com/Galomer310/ManisR-backend/internal/repository"
	"github.com/Galomer310/ManisR-backend/internal/validation"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var validate = validator.New()

// ListingService owns the meal listing store and its reservation state
// machine: available -> reserved -> collected. Collection is terminal and
// archives the listing into meal history inside one transaction.
type ListingService struct {
	listingRepo repository.ListingRepository
	db          *gorm.DB
	notifier    *notifications.Notifier
}

// NewListingService returns a new ListingService.
func NewListingService(
	listingRepo repository.ListingRepository,
	db *gorm.DB,
	notifier *notifications.Notifier,
) *ListingService {
	return &ListingService{
		listingRepo: listingRepo,
		db:          db,
		notifier:    notifier,
	}
}

// CreateListingInput is the input for offering a meal.
type CreateListingInput struct {
	GiverID         uint   `validate:"required"`
	ItemDescription string `validate:"required"`
	PickupAddress   string `validate:"required"`
	BoxOption       string
	FoodTypes       string
	Ingredients     string
	SpecialNotes    string
	ImageURL        string
	Lat             *float64
	Lng             *float64
}

// UpdateListingInput is the input for editing the giver's live listing.
type UpdateListingInput struct {
	ItemDescription string `validate:"required"`
	PickupAddress   string `validate:"required"`
	BoxOption       string
	FoodTypes       string
	Ingredients     string
	SpecialNotes    string
	Lat             *float64
	Lng             *float64
}

// CreateListing offers a new meal. Each giver may have at most one live
// listing; a second create reports Conflict.
func (s *ListingService) CreateListing(ctx context.Context, in CreateListingInput) (*models.MealListing, error) {
	if err := validate.Struct(in); err != nil {
		return nil, models.NewValidationError("Item description and pickup address are required")
	}
	if !validation.ValidBoxOption(in.BoxOption) {
		return nil, models.NewValidationError("Unknown box option")
	}
	in.BoxOption = validation.NormalizeBoxOption(in.BoxOption)
	in.FoodTypes = validation.NormalizeFoodTypes(in.FoodTypes)

	if _, err := s.listingRepo.GetByGiver(ctx, in.GiverID); err == nil {
		return nil, models.NewConflictError("You already have an active meal")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	listing := &models.MealListing{
		GiverID:         in.GiverID,
		ItemDescription: in.ItemDescription,
		PickupAddress:   in.PickupAddress,
		BoxOption:       in.BoxOption,
		FoodTypes:       in.FoodTypes,
		Ingredients:     in.Ingredients,
		SpecialNotes:    in.SpecialNotes,
		ImageURL:        in.ImageURL,
		Lat:             in.Lat,
		Lng:             in.Lng,
		Status:          models.ListingStatusAvailable,
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		// The unique index on giver_id backs the pre-check against races.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("You already have an active meal")
		}
		return nil, err
	}

	observability.RecordTransition("create", "success")
	return listing, nil
}

// GetListing returns a listing by id.
func (s *ListingService) GetListing(ctx context.Context, id uint) (*models.MealListing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Meal", id)
		}
		return nil, err
	}
	return listing, nil
}

// ListAvailable returns all available listings joined with giver display fields.
func (s *ListingService) ListAvailable(ctx context.Context) ([]*models.AvailableListing, error) {
	return s.listingRepo.ListAvailable(ctx)
}

// GetMyListing returns the giver's live listing, or (nil, nil) when the giver
// has none. Callers must treat the nil listing as an explicit "none" result,
// not an error.
func (s *ListingService) GetMyListing(ctx context.Context, giverID uint) (*models.MealListing, error) {
	listing, err := s.listingRepo.GetByGiver(ctx, giverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return listing, nil
}

// UpdateMyListing edits the giver's live listing. A zero-row update means the
// giver has no live listing and reports NotFound; it is never a silent success.
func (s *ListingService) UpdateMyListing(ctx context.Context, giverID uint, in UpdateListingInput) error {
	if err := validate.Struct(in); err != nil {
		return models.NewValidationError("Item description and pickup address are required")
	}
	if !validation.ValidBoxOption(in.BoxOption) {
		return models.NewValidationError("Unknown box option")
	}

	rows, err := s.listingRepo.UpdateByGiver(ctx, giverID, map[string]interface{}{
		"item_description": in.ItemDescription,
		"pickup_address":   in.PickupAddress,
		"box_option":       validation.NormalizeBoxOption(in.BoxOption),
		"food_types":       validation.NormalizeFoodTypes(in.FoodTypes),
		"ingredients":      in.Ingredients,
		"special_notes":    in.SpecialNotes,
		"lat":              in.Lat,
		"lng":              in.Lng,
	})
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.NewNotFoundError("Meal for giver", giverID)
	}
	return nil
}

// CancelMyListing deletes the giver's live listing together with its
// conversation. The conversation goes first to respect the foreign-key
// direction, and both deletes share one transaction.
func (s *ListingService) CancelMyListing(ctx context.Context, giverID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing models.MealListing
		if err := tx.Where("giver_id = ?", giverID).First(&listing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Meal for giver", giverID)
			}
			return err
		}
		if err := tx.Where("meal_id = ?", listing.ID).Delete(&models.ConversationMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.MealListing{}, listing.ID).Error
	})
	if err != nil {
		return err
	}
	observability.RecordTransition("cancel", "success")
	return nil
}

// Reserve places a 30-minute hold on an available listing for the taker.
// Concurrent reservations are resolved by a conditional write: exactly one
// taker succeeds, the rest get Conflict.
func (s *ListingService) Reserve(ctx context.Context, mealID, takerID uint) (*models.MealListing, error) {
	listing, err := s.GetListing(ctx, mealID)
	if err != nil {
		return nil, err
	}
	if listing.GiverID == takerID {
		return nil, models.NewValidationError("You cannot reserve your own meal")
	}

	now := time.Now()
	rows, err := s.listingRepo.TryReserve(ctx, mealID, takerID, now)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// The listing existed a moment ago; zero rows means someone else
		// holds it now (or it just disappeared).
		if _, getErr := s.listingRepo.GetByID(ctx, mealID); getErr != nil {
			if errors.Is(getErr, gorm.ErrRecordNotFound) {
				observability.RecordTransition("reserve", "not_found")
				return nil, models.NewNotFoundError("Meal", mealID)
			}
			return nil, getErr
		}
		observability.RecordTransition("reserve", "conflict")
		return nil, models.NewConflictError("Meal is already reserved")
	}

	reserved, err := s.listingRepo.GetByID(ctx, mealID)
	if err != nil {
		return nil, err
	}

	observability.RecordTransition("reserve", "success")
	s.publishLifecycle(ctx, notifications.Event{
		Type:   notifications.EventMealReserved,
		MealID: reserved.ID,
		Payload: notifications.LifecyclePayload{
			MealID:     reserved.ID,
			GiverID:    reserved.GiverID,
			TakerID:    reserved.TakerID,
			ReservedAt: reserved.ReservedAt,
			ExpiresAt:  reserved.ExpiresAt,
		},
	})
	return reserved, nil
}

// Collect completes a reserved exchange. Only the giver or the current taker
// may collect; the transition archives the listing and is terminal.
func (s *ListingService) Collect(ctx context.Context, mealID, actorID uint) (*models.MealHistoryRecord, error) {
	record, err := s.archive(ctx, mealID, actorID, true)
	if err != nil {
		return nil, err
	}

	observability.RecordTransition("collect", "success")
	s.publishLifecycle(ctx, notifications.Event{
		Type:   notifications.EventMealCollected,
		MealID: mealID,
		Payload: notifications.LifecyclePayload{
			MealID:  mealID,
			GiverID: record.GiverID,
			TakerID: record.TakerID,
		},
	})
	return record, nil
}

// Archive moves a live listing into meal history without requiring a
// reservation, for exchanges concluded out of band.
func (s *ListingService) Archive(ctx context.Context, mealID, actorID uint) (*models.MealHistoryRecord, error) {
	record, err := s.archive(ctx, mealID, actorID, false)
	if err != nil {
		return nil, err
	}

	observability.RecordTransition("archive", "success")
	s.publishLifecycle(ctx, notifications.Event{
		Type:   notifications.EventMealArchived,
		MealID: mealID,
		Payload: notifications.LifecyclePayload{
			MealID:  mealID,
			GiverID: record.GiverID,
			TakerID: record.TakerID,
		},
	})
	return record, nil
}

// archive copies the listing into meal history and deletes the live row and
// its conversation. All three writes share one transaction so a failure
// leaves either the full pre-state or the full post-state.
func (s *ListingService) archive(ctx context.Context, mealID, actorID uint, requireReserved bool) (*models.MealHistoryRecord, error) {
	var record *models.MealHistoryRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing models.MealListing
		if err := tx.First(&listing, mealID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Meal", mealID)
			}
			return err
		}
		if !listing.IsParticipant(actorID) {
			return models.NewForbiddenError("Only the giver or taker may complete this meal")
		}
		if requireReserved && listing.Status != models.ListingStatusReserved {
			return models.NewConflictError("Meal is not reserved")
		}

		record = &models.MealHistoryRecord{
			MealID:          listing.ID,
			GiverID:         listing.GiverID,
			TakerID:         listing.TakerID,
			ItemDescription: listing.ItemDescription,
			PickupAddress:   listing.PickupAddress,
			MealImage:       listing.ImageURL,
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		if err := tx.Where("meal_id = ?", listing.ID).Delete(&models.ConversationMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.MealListing{}, listing.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ForceStatus is the privileged status override. Unlike the legacy free-form
// write it only accepts known lifecycle statuses.
func (s *ListingService) ForceStatus(ctx context.Context, mealID uint, status string) error {
	if !models.ValidListingStatus(status) {
		return models.NewValidationError("Invalid meal status")
	}
	rows, err := s.listingRepo.SetStatus(ctx, mealID, status)
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.NewNotFoundError("Meal", mealID)
	}
	observability.RecordTransition("force_status", "success")
	return nil
}

// ExpireReservations reverts reserved listings whose hold has lapsed back to
// available and broadcasts each reversion. Returns the listings released.
func (s *ListingService) ExpireReservations(ctx context.Context, now time.Time) ([]*models.MealListing, error) {
	expired, err := s.listingRepo.FindExpiredReservations(ctx, now)
	if err != nil {
		return nil, err
	}

	var released []*models.MealListing
	for _, listing := range expired {
		rows, err := s.listingRepo.ReleaseReservation(ctx, listing.ID, now)
		if err != nil {
			return released, err
		}
		if rows == 0 {
			// Collected or re-reserved between the read and the write.
			continue
		}
		released = append(released, listing)
		observability.ReservationsExpired.Inc()
		s.publishLifecycle(ctx, notifications.Event{
			Type:   notifications.EventMealAvailable,
			MealID: listing.ID,
			Payload: notifications.LifecyclePayload{
				MealID:  listing.ID,
				GiverID: listing.GiverID,
			},
		})
	}
	return released, nil
}

// publishLifecycle is fire-and-forget: broadcast failures never fail the
// state transition that already committed.
func (s *ListingService) publishLifecycle(ctx context.Context, event notifications.Event) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishLifecycle(ctx, event); err != nil {
		logBroadcastError(ctx, "lifecycle broadcast failed", err)
	}
}
