package repository

import (
	"context"

	"github.com/Galomer310/ManisR-backend/internal/models"

	"gorm.io/gorm"
)

// ConversationRepository defines the interface for per-meal chat data operations
type ConversationRepository interface {
	Create(ctx context.Context, msg *models.ConversationMessage) error
	ListByMeal(ctx context.Context, mealID uint) ([]*models.ConversationMessage, error)
	CountByMeal(ctx context.Context, mealID uint) (int64, error)
	DeleteByMeal(ctx context.Context, mealID uint) (int64, error)
}

type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(ctx context.Context, msg *models.ConversationMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *conversationRepository) ListByMeal(ctx context.Context, mealID uint) ([]*models.ConversationMessage, error) {
	var messages []*models.ConversationMessage
	err := r.db.WithContext(ctx).
		Where("meal_id = ?", mealID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// CountByMeal returns 0 for a meal with no messages; an empty conversation is
// a valid state, never a lookup failure.
func (r *conversationRepository) CountByMeal(ctx context.Context, mealID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ConversationMessage{}).
		Where("meal_id = ?", mealID).
		Count(&count).Error
	return count, err
}

// DeleteByMeal is idempotent: deleting an already-empty conversation succeeds
// with zero rows so lifecycle transitions can call it unconditionally.
func (r *conversationRepository) DeleteByMeal(ctx context.Context, mealID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("meal_id = ?", mealID).
		Delete(&models.ConversationMessage{})
	return res.RowsAffected, res.Error
}
