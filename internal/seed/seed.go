// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/Galomer310/ManisR-backend/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumMeals    int
	ShouldClean bool
}

var dishes = []string{
	"Shakshuka", "Sabich", "Hummus plate", "Stuffed peppers", "Lentil soup",
	"Couscous with vegetables", "Schnitzel and rice", "Majadra", "Falafel wrap",
	"Pasta bake", "Vegetable curry", "Chicken soup", "Bourekas", "Ptitim",
	"Roasted eggplant", "Bean stew", "Rice and beans", "Potato kugel",
}

var boxOptions = []string{"need", "dont_need"}

var foodTypes = []string{"vegetarian", "vegan", "kosher", "gluten_free", "regular"}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d meals...", opts.NumUsers, opts.NumMeals)

	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := ClearAll(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d test users created", len(users))

	meals, err := createMeals(db, users, opts.NumMeals)
	if err != nil {
		return fmt.Errorf("failed to create meals: %w", err)
	}
	log.Printf("%d live meals created", len(meals))

	if err := createConversations(db, meals, users); err != nil {
		return fmt.Errorf("failed to create conversations: %w", err)
	}

	if err := createHistory(db, users); err != nil {
		return fmt.Errorf("failed to create history: %w", err)
	}

	log.Println("Seeding complete")
	return nil
}

// ClearAll removes all seeded rows in dependency order.
func ClearAll(db *gorm.DB) error {
	tables := []string{
		"meal_reviews",
		"meal_history",
		"meal_conversation",
		"meal_listings",
		"users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func createUsers(db *gorm.DB, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.FirstName()), gofakeit.Number(10, 9999))
		user := &models.User{
			Username:   username,
			Email:      fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
			AvatarURL:  fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
			IsVerified: gofakeit.Bool(),
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createMeals(db *gorm.DB, users []*models.User, count int) ([]*models.MealListing, error) {
	if count > len(users) {
		// One live listing per giver, so the giver pool caps the meal count.
		count = len(users)
	}

	meals := make([]*models.MealListing, 0, count)
	for i := 0; i < count; i++ {
		lat := 31.0 + rand.Float64()*2.5
		lng := 34.3 + rand.Float64()*1.5
		meal := &models.MealListing{
			GiverID:         users[i].ID,
			ItemDescription: dishes[rand.Intn(len(dishes))],
			PickupAddress:   gofakeit.Street() + ", " + gofakeit.City(),
			BoxOption:       boxOptions[rand.Intn(len(boxOptions))],
			FoodTypes:       foodTypes[rand.Intn(len(foodTypes))],
			Ingredients:     gofakeit.Vegetable() + ", " + gofakeit.Vegetable() + ", " + gofakeit.Vegetable(),
			SpecialNotes:    gofakeit.Sentence(6),
			Status:          models.ListingStatusAvailable,
			Lat:             &lat,
			Lng:             &lng,
		}
		if err := db.Create(meal).Error; err != nil {
			return nil, err
		}
		meals = append(meals, meal)
	}
	return meals, nil
}

func createConversations(db *gorm.DB, meals []*models.MealListing, users []*models.User) error {
	if len(users) < 2 {
		return nil
	}
	for _, meal := range meals {
		if rand.Intn(3) == 0 {
			continue
		}
		other := users[rand.Intn(len(users))]
		if other.ID == meal.GiverID {
			continue
		}
		lines := rand.Intn(5) + 1
		sender, receiver := other.ID, meal.GiverID
		for i := 0; i < lines; i++ {
			msg := &models.ConversationMessage{
				MealID:     meal.ID,
				SenderID:   sender,
				ReceiverID: receiver,
				Message:    gofakeit.Sentence(rand.Intn(8) + 3),
			}
			if err := db.Create(msg).Error; err != nil {
				return err
			}
			sender, receiver = receiver, sender
		}
	}
	return nil
}

func createHistory(db *gorm.DB, users []*models.User) error {
	if len(users) < 2 {
		return nil
	}
	count := len(users) / 2
	for i := 0; i < count; i++ {
		giver := users[rand.Intn(len(users))]
		taker := users[rand.Intn(len(users))]
		if giver.ID == taker.ID {
			continue
		}
		takerID := taker.ID
		record := &models.MealHistoryRecord{
			MealID:          uint(100000 + i),
			GiverID:         giver.ID,
			TakerID:         &takerID,
			ItemDescription: dishes[rand.Intn(len(dishes))],
			PickupAddress:   gofakeit.Street() + ", " + gofakeit.City(),
		}
		if err := db.Create(record).Error; err != nil {
			return err
		}

		if rand.Intn(2) == 0 {
			rating := rand.Intn(5) + 1
			experience := rand.Intn(5) + 1
			comment := gofakeit.Sentence(8)
			review := &models.MealReview{
				MealID:            record.MealID,
				ReviewerID:        takerID,
				RevieweeID:        &giver.ID,
				Role:              models.ReviewRoleTaker,
				UserReview:        &rating,
				GeneralExperience: &experience,
				Comments:          &comment,
			}
			if err := db.Create(review).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
