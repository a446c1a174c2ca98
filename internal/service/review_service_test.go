package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Galomer310/ManisR-backend/internal/models"
	"github.com/Galomer310/ManisR-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewCreate(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	reviewer := env.createUser(t, "reviewer")

	t.Run("meal, reviewer and role are required", func(t *testing.T) {
		_, err := env.reviews.Create(ctx, CreateReviewInput{MealID: 1})
		require.Error(t, err)
		assert.Equal(t, models.CodeValidation, appCode(t, err))
	})

	t.Run("role must be giver or taker", func(t *testing.T) {
		_, err := env.reviews.Create(ctx, CreateReviewInput{
			MealID:     1,
			ReviewerID: reviewer.ID,
			Role:       "bystander",
		})
		require.Error(t, err)
		assert.Equal(t, models.CodeValidation, appCode(t, err))
	})

	t.Run("creates and upserts", func(t *testing.T) {
		rating := 4
		review, err := env.reviews.Create(ctx, CreateReviewInput{
			MealID:     1,
			ReviewerID: reviewer.ID,
			Role:       models.ReviewRoleTaker,
			UserReview: &rating,
		})
		require.NoError(t, err)
		assert.NotZero(t, review.ID)

		// A second submission replaces the first
		newRating := 2
		_, err = env.reviews.Create(ctx, CreateReviewInput{
			MealID:     1,
			ReviewerID: reviewer.ID,
			Role:       models.ReviewRoleTaker,
			UserReview: &newRating,
		})
		require.NoError(t, err)

		reviews, err := env.reviews.ListByMeal(ctx, 1)
		require.NoError(t, err)
		require.Len(t, reviews, 1)
		require.NotNil(t, reviews[0].UserReview)
		assert.Equal(t, 2, *reviews[0].UserReview)
	})
}

var errHistoryStoreDown = errors.New("history store unavailable")

// failingHistoryRepo simulates a store outage on lookups.
type failingHistoryRepo struct {
	repository.HistoryRepository
}

func (r failingHistoryRepo) GetByID(ctx context.Context, id uint) (*models.MealHistoryRecord, error) {
	return nil, errHistoryStoreDown
}

func TestRecordForHistory(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	giver := env.createUser(t, "rhgiver")
	taker := env.createUser(t, "rhtaker")
	stranger := env.createUser(t, "rhstranger")

	record := archiveExchange(t, env, giver.ID, taker.ID, "Chicken soup")

	t.Run("unknown history record", func(t *testing.T) {
		_, err := env.reviews.RecordForHistory(ctx, 99999, taker.ID, RecordReviewInput{})
		require.Error(t, err)
		assert.Equal(t, models.CodeNotFound, appCode(t, err))
	})

	t.Run("only parties may review", func(t *testing.T) {
		_, err := env.reviews.RecordForHistory(ctx, record.ID, stranger.ID, RecordReviewInput{})
		require.Error(t, err)
		assert.Equal(t, models.CodeForbidden, appCode(t, err))
	})

	t.Run("role and reviewee are derived from the record", func(t *testing.T) {
		rating := 5
		review, err := env.reviews.RecordForHistory(ctx, record.ID, taker.ID, RecordReviewInput{
			UserReview: &rating,
		})
		require.NoError(t, err)
		assert.Equal(t, models.ReviewRoleTaker, review.Role)
		require.NotNil(t, review.RevieweeID)
		assert.Equal(t, giver.ID, *review.RevieweeID)
		assert.Equal(t, record.MealID, review.MealID)

		giverReview, err := env.reviews.RecordForHistory(ctx, record.ID, giver.ID, RecordReviewInput{
			UserReview: &rating,
		})
		require.NoError(t, err)
		assert.Equal(t, models.ReviewRoleGiver, giverReview.Role)
		require.NotNil(t, giverReview.RevieweeID)
		assert.Equal(t, taker.ID, *giverReview.RevieweeID)
	})

	t.Run("store failures are not mistaken for missing records", func(t *testing.T) {
		reviews := NewReviewService(
			repository.NewReviewRepository(env.db),
			failingHistoryRepo{},
		)
		_, err := reviews.RecordForHistory(ctx, record.ID, taker.ID, RecordReviewInput{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errHistoryStoreDown))
	})

	t.Run("resubmission clears absent fields", func(t *testing.T) {
		comment := "lovely"
		rating := 4
		_, err := env.reviews.RecordForHistory(ctx, record.ID, taker.ID, RecordReviewInput{
			UserReview: &rating,
			Comments:   &comment,
		})
		require.NoError(t, err)

		// Comments absent this time: the stored value resets to NULL
		_, err = env.reviews.RecordForHistory(ctx, record.ID, taker.ID, RecordReviewInput{
			UserReview: &rating,
		})
		require.NoError(t, err)

		reviews, err := env.reviews.ListByMeal(ctx, record.MealID)
		require.NoError(t, err)
		for _, r := range reviews {
			if r.ReviewerID == taker.ID {
				assert.Nil(t, r.Comments)
			}
		}
	})
}
