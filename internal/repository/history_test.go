package repository

import (
	"context"
	"testing"

	"github.com/Galomer310/ManisR-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHistoryRepository(db)
	ctx := context.Background()

	giver := createTestUser(t, db, "histgiver")
	taker := createTestUser(t, db, "histtaker")
	takerID := taker.ID

	record := &models.MealHistoryRecord{
		MealID:          7,
		GiverID:         giver.ID,
		TakerID:         &takerID,
		ItemDescription: "Shakshuka",
		PickupAddress:   "3 Rothschild Blvd",
	}

	t.Run("Create and lookups", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, record))
		assert.NotZero(t, record.ID)

		byID, err := repo.GetByID(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, "Shakshuka", byID.ItemDescription)

		byMeal, err := repo.GetByMealID(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, record.ID, byMeal.ID)

		_, err = repo.GetByMealID(ctx, 99999)
		assert.Error(t, err)
	})

	t.Run("ListForUser includes both parties", func(t *testing.T) {
		forGiver, err := repo.ListForUser(ctx, giver.ID)
		require.NoError(t, err)
		assert.Len(t, forGiver, 1)

		forTaker, err := repo.ListForUser(ctx, taker.ID)
		require.NoError(t, err)
		assert.Len(t, forTaker, 1)

		forStranger, err := repo.ListForUser(ctx, 99999)
		require.NoError(t, err)
		assert.Empty(t, forStranger)
	})

	t.Run("ListForUser respects per-party soft delete", func(t *testing.T) {
		require.NoError(t, db.Model(record).Update("deleted_by_giver", true).Error)

		forGiver, err := repo.ListForUser(ctx, giver.ID)
		require.NoError(t, err)
		assert.Empty(t, forGiver)

		// The taker's view is untouched
		forTaker, err := repo.ListForUser(ctx, taker.ID)
		require.NoError(t, err)
		assert.Len(t, forTaker, 1)
	})
}
