package service

import (
	"context"
	"errors"

	"github.com/Galomer310/ManisR-backend/internal/models"
	"github.com/Galomer310/ManisR-backend/internal/repository"

	"gorm.io/gorm"
)

// HistoryService provides access to the archived meal ledger.
type HistoryService struct {
	historyRepo repository.HistoryRepository
	db          *gorm.DB
}

// NewHistoryService returns a new HistoryService.
func NewHistoryService(historyRepo repository.HistoryRepository, db *gorm.DB) *HistoryService {
	return &HistoryService{historyRepo: historyRepo, db: db}
}

// ListFor returns the caller's history, excluding records they soft-deleted.
func (s *HistoryService) ListFor(ctx context.Context, userID uint) ([]*models.MealHistoryRecord, error) {
	return s.historyRepo.ListForUser(ctx, userID)
}

// GetByMealID looks up an archived record by its originating listing id.
func (s *HistoryService) GetByMealID(ctx context.Context, mealID uint) (*models.MealHistoryRecord, error) {
	record, err := s.historyRepo.GetByMealID(ctx, mealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Archived meal", mealID)
		}
		return nil, err
	}
	return record, nil
}

// GetByID returns a history record by its own identifier.
func (s *HistoryService) GetByID(ctx context.Context, id uint) (*models.MealHistoryRecord, error) {
	record, err := s.historyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("History record", id)
		}
		return nil, err
	}
	return record, nil
}

// SoftDelete sets the caller's party flag on a history record. Once both
// parties have flagged the record it is hard-deleted in the same operation,
// so neither party ever sees a record the other alone removed.
func (s *HistoryService) SoftDelete(ctx context.Context, historyID, actorID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.MealHistoryRecord
		if err := tx.First(&record, historyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("History record", historyID)
			}
			return err
		}

		switch {
		case record.GiverID == actorID:
			record.DeletedByGiver = true
		case record.TakerID != nil && *record.TakerID == actorID:
			record.DeletedByTaker = true
		default:
			return models.NewForbiddenError("Not authorized to delete this record")
		}

		if record.DeletedByGiver && record.DeletedByTaker {
			return tx.Delete(&models.MealHistoryRecord{}, record.ID).Error
		}

		return tx.Model(&models.MealHistoryRecord{}).
			Where("id = ?", record.ID).
			Updates(map[string]interface{}{
				"deleted_by_giver": record.DeletedByGiver,
				"deleted_by_taker": record.DeletedByTaker,
			}).Error
	})
}
