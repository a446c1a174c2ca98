package server

import (
	"github.com/Galomer310/ManisR-backend/internal/models"
	"github.com/Galomer310/ManisR-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReview handles POST /api/reviews
func (s *Server) CreateReview(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		MealID            uint    `json:"meal_id"`
		RevieweeID        *uint   `json:"reviewee_id"`
		Role              string  `json:"role"`
		UserReview        *int    `json:"user_review"`
		GeneralExperience *int    `json:"general_experience"`
		Comments          *string `json:"comments"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	review, err := s.reviewService.Create(c.UserContext(), service.CreateReviewInput{
		MealID:            req.MealID,
		ReviewerID:        userID,
		RevieweeID:        req.RevieweeID,
		Role:              req.Role,
		UserReview:        req.UserReview,
		GeneralExperience: req.GeneralExperience,
		Comments:          req.Comments,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"review": review})
}

// GetMealReviews handles GET /api/reviews/meal/:mealId
func (s *Server) GetMealReviews(c *fiber.Ctx) error {
	mealID, err := s.parseID(c, "mealId")
	if err != nil {
		return nil
	}

	reviews, err := s.reviewService.ListByMeal(c.UserContext(), mealID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"reviews": reviews})
}
