package server

import (
	"github.com/Galomer310/ManisR-backend/internal/models"
	"github.com/Galomer310/ManisR-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SendConversationMessage handles POST /api/conversations. The sender is the
// authenticated caller; the receiver is the other party of the meal.
func (s *Server) SendConversationMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		MealID     uint   `json:"meal_id"`
		ReceiverID uint   `json:"receiver_id"`
		Message    string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	msg, err := s.convService.Send(c.UserContext(), service.SendMessageInput{
		MealID:     req.MealID,
		SenderID:   userID,
		ReceiverID: req.ReceiverID,
		Message:    req.Message,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message_id": msg.ID,
		"message":    msg,
	})
}

// GetConversationMessages handles GET /api/conversations/:mealId, oldest first.
func (s *Server) GetConversationMessages(c *fiber.Ctx) error {
	mealID, err := s.parseID(c, "mealId")
	if err != nil {
		return nil
	}

	messages, err := s.convService.ListFor(c.UserContext(), mealID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// CountConversationMessages handles GET /api/conversations/:mealId/count.
// A meal with no messages counts zero; it is never an error.
func (s *Server) CountConversationMessages(c *fiber.Ctx) error {
	mealID, err := s.parseID(c, "mealId")
	if err != nil {
		return nil
	}

	count, err := s.convService.CountFor(c.UserContext(), mealID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// DeleteConversation handles DELETE /api/conversations/:mealId. Deleting a
// conversation that does not exist still succeeds.
func (s *Server) DeleteConversation(c *fiber.Ctx) error {
	mealID, err := s.parseID(c, "mealId")
	if err != nil {
		return nil
	}

	if _, err := s.convService.DeleteFor(c.UserContext(), mealID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Conversation deleted"})
}
