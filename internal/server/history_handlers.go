package server

import (
	"github.com/Galomer310/ManisR-backend/internal/models"
	"github.com/Galomer310/ManisR-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyHistory handles GET /api/history. Records the caller soft-deleted on
// their side are excluded.
func (s *Server) GetMyHistory(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	records, err := s.historyService.ListFor(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"history": records})
}

// GetHistoryByMeal handles GET /api/history/meal/:mealId, looking up an
// archived record by its original meal id.
func (s *Server) GetHistoryByMeal(c *fiber.Ctx) error {
	mealID, err := s.parseID(c, "mealId")
	if err != nil {
		return nil
	}

	record, err := s.historyService.GetByMealID(c.UserContext(), mealID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"history": record})
}

// ArchiveMeal handles POST /api/history/:mealId/archive. Valid from any live
// state; the giver or the taker may archive.
func (s *Server) ArchiveMeal(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	mealID, err := s.parseID(c, "mealId")
	if err != nil {
		return nil
	}

	record, err := s.listingService.Archive(c.UserContext(), mealID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"history": record})
}

// ReviewHistoryRecord handles PUT /api/history/:id/review. Repeat submissions
// replace the earlier review, clearing fields left absent.
func (s *Server) ReviewHistoryRecord(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	historyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		UserReview        *int    `json:"user_review"`
		GeneralExperience *int    `json:"general_experience"`
		Comments          *string `json:"comments"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	review, err := s.reviewService.RecordForHistory(c.UserContext(), historyID, userID, service.RecordReviewInput{
		UserReview:        req.UserReview,
		GeneralExperience: req.GeneralExperience,
		Comments:          req.Comments,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"review": review})
}

// DeleteHistoryRecord handles DELETE /api/history/:id. Each party hides the
// record on their own side; once both have, the row is removed for good.
func (s *Server) DeleteHistoryRecord(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	historyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.historyService.SoftDelete(c.UserContext(), historyID, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "History record deleted"})
}
