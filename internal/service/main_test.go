package service

import (
	"testing"

	"github.com/Galomer310/ManisR-backend/internal/models"
	"github.com/Galomer310/ManisR-backend/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	listings *ListingService
	convs    *ConversationService
	history  *HistoryService
	reviews  *ReviewService
}

func setupServiceTest(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.MealListing{},
		&models.ConversationMessage{},
		&models.MealHistoryRecord{},
		&models.MealReview{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	listingRepo := repository.NewListingRepository(db)
	convRepo := repository.NewConversationRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// Notifier is nil: broadcasts are fire-and-forget and skipped without Redis.
	return &testEnv{
		db:       db,
		listings: NewListingService(listingRepo, db, nil),
		convs:    NewConversationService(convRepo, listingRepo, nil),
		history:  NewHistoryService(historyRepo, db),
		reviews:  NewReviewService(reviewRepo, historyRepo),
	}
}

func (e *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com"}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}
