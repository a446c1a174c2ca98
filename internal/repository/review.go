package repository

import (
	"context"

	"github.com/Galomer310/ManisR-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewRepository defines the interface for meal review data operations
type ReviewRepository interface {
	Upsert(ctx context.Context, review *models.MealReview) error
	ListByMeal(ctx context.Context, mealID uint) ([]*models.MealReview, error)
	GetByMealAndReviewer(ctx context.Context, mealID, reviewerID uint) (*models.MealReview, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Upsert writes the review keyed by (meal_id, reviewer_id). A repeated
// submission replaces the prior rating fields, including overwriting with NULL
// for fields the caller left absent.
func (r *reviewRepository) Upsert(ctx context.Context, review *models.MealReview) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "meal_id"}, {Name: "reviewer_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"reviewee_id", "role", "user_review", "general_experience", "comments", "updated_at",
			}),
		}).
		Create(review).Error
}

func (r *reviewRepository) ListByMeal(ctx context.Context, mealID uint) ([]*models.MealReview, error) {
	var reviews []*models.MealReview
	err := r.db.WithContext(ctx).
		Where("meal_id = ?", mealID).
		Order("created_at ASC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) GetByMealAndReviewer(ctx context.Context, mealID, reviewerID uint) (*models.MealReview, error) {
	var review models.MealReview
	err := r.db.WithContext(ctx).
		Where("meal_id = ? AND reviewer_id = ?", mealID, reviewerID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}
