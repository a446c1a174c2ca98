package service

import (
	"context"
	"errors"

	"github.com/Galomer310/ManisR-backend/internal/models"
	"github.com/Galomer310/ManisR-backend/internal/repository"

	"gorm.io/gorm"
)

// ReviewService is the single source of truth for exchange ratings, keyed by
// (meal, reviewer). The history record carries no embedded review fields.
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	historyRepo repository.HistoryRepository
}

// NewReviewService returns a new ReviewService.
func NewReviewService(reviewRepo repository.ReviewRepository, historyRepo repository.HistoryRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, historyRepo: historyRepo}
}

// CreateReviewInput is the input for submitting a review directly by meal id.
type CreateReviewInput struct {
	MealID            uint   `validate:"required"`
	ReviewerID        uint   `validate:"required"`
	RevieweeID        *uint
	Role              string `validate:"required"`
	UserReview        *int
	GeneralExperience *int
	Comments          *string
}

// RecordReviewInput carries the optional rating fields for a history-keyed
// review. Absent fields overwrite the stored values with NULL.
type RecordReviewInput struct {
	UserReview        *int
	GeneralExperience *int
	Comments          *string
}

// Create upserts a review row for (meal, reviewer).
func (s *ReviewService) Create(ctx context.Context, in CreateReviewInput) (*models.MealReview, error) {
	if err := validate.Struct(in); err != nil {
		return nil, models.NewValidationError("Meal, reviewer and role are required")
	}
	if !models.ValidReviewRole(in.Role) {
		return nil, models.NewValidationError("Role must be 'giver' or 'taker'")
	}

	review := &models.MealReview{
		MealID:            in.MealID,
		ReviewerID:        in.ReviewerID,
		RevieweeID:        in.RevieweeID,
		Role:              in.Role,
		UserReview:        in.UserReview,
		GeneralExperience: in.GeneralExperience,
		Comments:          in.Comments,
	}
	if err := s.reviewRepo.Upsert(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// RecordForHistory submits a review against a history record: the reviewer
// must be one of the two parties, and role/reviewee are derived from the
// record. Repeated submissions replace earlier ratings, including clearing
// fields the caller left absent.
func (s *ReviewService) RecordForHistory(ctx context.Context, historyID, reviewerID uint, in RecordReviewInput) (*models.MealReview, error) {
	record, err := s.historyRepo.GetByID(ctx, historyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("History record", historyID)
		}
		return nil, err
	}

	var role string
	var reviewee *uint
	switch {
	case record.GiverID == reviewerID:
		role = models.ReviewRoleGiver
		reviewee = record.TakerID
	case record.TakerID != nil && *record.TakerID == reviewerID:
		role = models.ReviewRoleTaker
		giverID := record.GiverID
		reviewee = &giverID
	default:
		return nil, models.NewForbiddenError("Only the giver or taker may review this exchange")
	}

	review := &models.MealReview{
		MealID:            record.MealID,
		ReviewerID:        reviewerID,
		RevieweeID:        reviewee,
		Role:              role,
		UserReview:        in.UserReview,
		GeneralExperience: in.GeneralExperience,
		Comments:          in.Comments,
	}
	if err := s.reviewRepo.Upsert(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListByMeal returns all reviews for a meal.
func (s *ReviewService) ListByMeal(ctx context.Context, mealID uint) ([]*models.MealReview, error) {
	return s.reviewRepo.ListByMeal(ctx, mealID)
}
