package repository

import (
	"context"

	"github.com/Galomer310/ManisR-backend/internal/models"

	"gorm.io/gorm"
)

// HistoryRepository defines the interface for meal history data operations
type HistoryRepository interface {
	Create(ctx context.Context, record *models.MealHistoryRecord) error
	GetByID(ctx context.Context, id uint) (*models.MealHistoryRecord, error)
	GetByMealID(ctx context.Context, mealID uint) (*models.MealHistoryRecord, error)
	ListForUser(ctx context.Context, userID uint) ([]*models.MealHistoryRecord, error)
}

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Create(ctx context.Context, record *models.MealHistoryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *historyRepository) GetByID(ctx context.Context, id uint) (*models.MealHistoryRecord, error) {
	var record models.MealHistoryRecord
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *historyRepository) GetByMealID(ctx context.Context, mealID uint) (*models.MealHistoryRecord, error) {
	var record models.MealHistoryRecord
	err := r.db.WithContext(ctx).Where("meal_id = ?", mealID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListForUser returns the records the user participated in and has not
// soft-deleted from their own view.
func (r *historyRepository) ListForUser(ctx context.Context, userID uint) ([]*models.MealHistoryRecord, error) {
	var records []*models.MealHistoryRecord
	err := r.db.WithContext(ctx).
		Where("(giver_id = ? AND deleted_by_giver = ?) OR (taker_id = ? AND deleted_by_taker = ?)",
			userID, false, userID, false).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}
