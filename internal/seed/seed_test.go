package seed

import (
	"testing"

	"github.com/Galomer310/ManisR-backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.MealListing{},
		&models.ConversationMessage{},
		&models.MealHistoryRecord{},
		&models.MealReview{},
	))
	return db
}

func TestSeed(t *testing.T) {
	db := setupSeedDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 12, NumMeals: 8, ShouldClean: true}))

	var userCount, mealCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.MealListing{}).Count(&mealCount).Error)
	require.EqualValues(t, 12, userCount)
	require.EqualValues(t, 8, mealCount)

	// Each giver has at most one live listing.
	var distinctGivers int64
	require.NoError(t, db.Model(&models.MealListing{}).Distinct("giver_id").Count(&distinctGivers).Error)
	require.Equal(t, mealCount, distinctGivers)

	// All seeded listings start available.
	var available int64
	require.NoError(t, db.Model(&models.MealListing{}).
		Where("status = ?", models.ListingStatusAvailable).Count(&available).Error)
	require.Equal(t, mealCount, available)
}

func TestSeedCapsMealsByGiverPool(t *testing.T) {
	db := setupSeedDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 3, NumMeals: 10, ShouldClean: false}))

	var mealCount int64
	require.NoError(t, db.Model(&models.MealListing{}).Count(&mealCount).Error)
	require.LessOrEqual(t, mealCount, int64(3))
}

func TestClearAll(t *testing.T) {
	db := setupSeedDB(t)
	require.NoError(t, Seed(db, Options{NumUsers: 6, NumMeals: 4, ShouldClean: false}))

	require.NoError(t, ClearAll(db))

	for _, model := range []interface{}{
		&models.User{}, &models.MealListing{}, &models.ConversationMessage{},
		&models.MealHistoryRecord{}, &models.MealReview{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		require.Zero(t, count)
	}
}
